package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPath indicates a reader path could not be parsed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrUnsupportedType indicates an unknown reader or embedder name.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrDocumentDecode indicates a structured document record could not be parsed.
	ErrDocumentDecode = errors.New("loading JSON failed")

	// ErrModelUnavailable indicates the local embedding model cannot be used.
	// The runtime library, model file or tokenizer file is missing.
	ErrModelUnavailable = errors.New("embedding model unavailable")

	// ErrEmbeddingFailed indicates no vector could be produced for a text.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrStoreUnavailable indicates no document store is configured.
	ErrStoreUnavailable = errors.New("document store unavailable")
)
