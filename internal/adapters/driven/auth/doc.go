// Package auth provides token providers for readers that call remote APIs.
package auth
