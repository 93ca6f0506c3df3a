// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - SettingsStore: TOML-based settings storage
package file
