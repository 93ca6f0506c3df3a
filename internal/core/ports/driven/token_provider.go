package driven

import "context"

// TokenProvider provides access tokens for authenticated API calls.
type TokenProvider interface {
	// GetToken returns the access token.
	// Returns an empty string when no token is configured.
	GetToken(ctx context.Context) (string, error)

	// Source names the environment variable the token is read from
	// (e.g. "GITHUB_TOKEN"). Used in warnings when no token is set.
	Source() string
}
