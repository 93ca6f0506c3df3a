// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (readers, chunkers, embedders and stores).
//
// Services are pure Go with no CGO or external dependencies.
package services
