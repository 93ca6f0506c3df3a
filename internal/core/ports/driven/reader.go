package driven

import (
	"context"

	"github.com/custodia-labs/ragkit/internal/core/domain"
)

// Reader produces documents from a source.
// Each reader type (github, ...) implements this interface.
type Reader interface {
	// Info describes the reader for listing and readiness checks.
	Info() domain.PluginInfo

	// Load fetches every document named by the request.
	// Implementations decide whether a single failure aborts the whole load.
	Load(ctx context.Context, req domain.LoadRequest) ([]*domain.Document, error)
}
