package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the layout of Document.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// DefaultDocumentType is the type label applied when a load request names none.
const DefaultDocumentType = "Documentation"

// Document represents a unit of ingested content.
// It is produced by a reader and consumed by the chunking and embedding stages.
// The JSON form is the structured document record accepted by readers.
type Document struct {
	// ID is assigned by the document store on import.
	ID string `json:"uuid,omitempty"`

	// Text is the full raw text of the document.
	Text string `json:"text"`

	// Type is a free-form label such as "Documentation".
	Type string `json:"type"`

	// Name identifies the document within its reader. Never empty.
	Name string `json:"name"`

	// Link is the source URL.
	Link string `json:"link"`

	// Path is the location of the document within its source.
	Path string `json:"path"`

	// Timestamp is the ingestion time formatted with TimestampLayout.
	Timestamp string `json:"timestamp"`

	// Reader is the name of the reader that produced the document.
	Reader string `json:"reader"`

	// Meta contains arbitrary key-value pairs.
	Meta map[string]any `json:"meta"`

	// Chunks are the sub-segments of Text, in order.
	Chunks []Chunk `json:"chunks"`
}

// Chunk is a sub-segment of a document's text and the unit embeddings are computed over.
type Chunk struct {
	// Text is the content of this chunk.
	Text string `json:"text"`

	// DocName is the Name of the parent document.
	DocName string `json:"doc_name"`

	// DocType is the Type of the parent document.
	DocType string `json:"doc_type"`

	// DocUUID is the ID of the parent document once imported.
	DocUUID string `json:"doc_uuid"`

	// ChunkID is the ordinal position within the document.
	ChunkID int `json:"chunk_id"`

	// Tokens is the number of units (words) the chunk spans.
	Tokens int `json:"tokens"`

	// Vector is the embedding. Empty when embedding failed or has not run.
	Vector []float32 `json:"vector"`

	// Score is the similarity score when the chunk is a search result.
	Score float64 `json:"score"`
}

// FormatTimestamp formats t with TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// DocumentFromJSON parses a structured document record.
func DocumentFromJSON(data []byte) (*Document, error) {
	var doc *Document
	if err := json.Unmarshal(bytes.TrimSpace(data), &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentDecode, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: record is null", ErrDocumentDecode)
	}
	if doc.Meta == nil {
		doc.Meta = make(map[string]any)
	}
	return doc, nil
}

// HasChunks reports whether the document has already been chunked.
func (d *Document) HasChunks() bool {
	return len(d.Chunks) > 0
}

// DuplicateChunkID returns the first chunk ID that occurs more than once.
func (d *Document) DuplicateChunkID() (int, bool) {
	seen := make(map[int]struct{}, len(d.Chunks))
	for i := range d.Chunks {
		id := d.Chunks[i].ChunkID
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return 0, false
}

// NormalizeChunks makes pre-built chunks importable. Chunks are renumbered by
// position when their IDs repeat, which includes records that omit chunk_id.
// Empty DocName and DocType are taken from the document.
func (d *Document) NormalizeChunks() {
	_, renumber := d.DuplicateChunkID()
	for i := range d.Chunks {
		chunk := &d.Chunks[i]
		if renumber {
			chunk.ChunkID = i
		}
		if chunk.DocName == "" {
			chunk.DocName = d.Name
		}
		if chunk.DocType == "" {
			chunk.DocType = d.Type
		}
	}
}

// Dimensions returns the length of the first non-empty chunk vector, or 0.
func (d *Document) Dimensions() int {
	for i := range d.Chunks {
		if n := len(d.Chunks[i].Vector); n > 0 {
			return n
		}
	}
	return 0
}

// LoadRequest describes what a reader should load.
type LoadRequest struct {
	// Paths are reader-specific locations, e.g. "owner/repo/docs" for GitHub.
	Paths []string

	// DocumentType is applied to every produced document.
	// Defaults to DefaultDocumentType.
	DocumentType string
}

// TypeOrDefault returns DocumentType, falling back to DefaultDocumentType.
func (r LoadRequest) TypeOrDefault() string {
	if r.DocumentType == "" {
		return DefaultDocumentType
	}
	return r.DocumentType
}
