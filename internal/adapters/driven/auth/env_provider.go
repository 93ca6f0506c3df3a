package auth

import (
	"context"
	"os"
	"strings"

	"github.com/custodia-labs/ragkit/internal/core/ports/driven"
)

// Ensure EnvTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*EnvTokenProvider)(nil)

// EnvTokenProvider reads a static bearer token from an environment variable.
// The variable is read on every call so a token exported after startup is picked up.
type EnvTokenProvider struct {
	name   string
	lookup func(string) (string, bool)
}

// NewEnvTokenProvider creates a token provider for the named environment variable.
func NewEnvTokenProvider(name string) *EnvTokenProvider {
	return &EnvTokenProvider{name: name, lookup: os.LookupEnv}
}

// GetToken returns the token, or an empty string when the variable is unset.
func (p *EnvTokenProvider) GetToken(_ context.Context) (string, error) {
	if p.name == "" {
		return "", nil
	}
	v, _ := p.lookup(p.name)
	return strings.TrimSpace(v), nil
}

// Source returns the environment variable name.
func (p *EnvTokenProvider) Source() string {
	return p.name
}
