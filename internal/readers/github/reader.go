package github

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/custodia-labs/ragkit/internal/core/domain"
	"github.com/custodia-labs/ragkit/internal/core/ports/driven"
	"github.com/custodia-labs/ragkit/internal/logger"
)

// Ensure Reader implements the interface.
var _ driven.Reader = (*Reader)(nil)

// Reader downloads documents from GitHub repository folders.
type Reader struct {
	cfg    Config
	client *Client
	now    func() time.Time
}

// New creates a GitHub reader.
func New(cfg Config, tokenProvider driven.TokenProvider) *Reader {
	return &Reader{
		cfg:    cfg,
		client: NewClient(cfg, tokenProvider),
		now:    time.Now,
	}
}

// Info describes the reader.
func (r *Reader) Info() domain.PluginInfo {
	return domain.PluginInfo{
		Name:        ReaderName,
		Kind:        domain.PluginReader,
		Description: "Downloads text files (.md, .mdx, .txt, .json) from a GitHub repository folder",
		RequiresEnv: []string{r.cfg.TokenEnv},
		InputForm:   domain.InputFormInput,
	}
}

// Load fetches every allowed file under each path in the request.
// Empty paths are skipped. The first error aborts the load.
func (r *Reader) Load(ctx context.Context, req domain.LoadRequest) ([]*domain.Document, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}
	docType := req.TypeOrDefault()

	var docs []*domain.Document
	for _, p := range req.Paths {
		if strings.TrimSpace(p) == "" {
			logger.Debug("Skipping empty path")
			continue
		}

		loc, err := ParsePath(p)
		if err != nil {
			return nil, err
		}

		files, err := r.ListFiles(ctx, loc)
		if err != nil {
			return nil, err
		}
		logger.Info("Fetched %d filenames from %s", len(files), loc)

		for _, name := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			doc, err := r.loadFile(ctx, loc, name, docType)
			if err != nil {
				return nil, err
			}
			logger.Info("Downloaded %s", name)
			docs = append(docs, doc)
		}

		rl := r.client.RateLimiter()
		logger.Debug("GitHub quota: %d of %d requests remaining", rl.Remaining(), rl.Limit())
	}

	logger.Good("Loaded %d documents", len(docs))
	return docs, nil
}

// ListFiles returns the tree paths under the location's folder with an allowed extension.
func (r *Reader) ListFiles(ctx context.Context, loc Location) ([]string, error) {
	tree, err := r.client.GetTree(ctx, loc.Owner, loc.Repo, r.cfg.Branch)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", loc, err)
	}
	if tree.GetTruncated() {
		logger.Warn("Tree for %s/%s is truncated, some files will be missing", loc.Owner, loc.Repo)
	}

	files := make([]string, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		p := entry.GetPath()
		if loc.Contains(p) && r.allowed(p) && !r.cfg.excluded(p) {
			files = append(files, p)
		}
	}
	return files, nil
}

// DownloadFile fetches and decodes a single file.
func (r *Reader) DownloadFile(ctx context.Context, loc Location, filePath string) (*File, error) {
	file, err := r.client.GetFile(ctx, loc.Owner, loc.Repo, filePath, r.cfg.Branch)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", filePath, err)
	}
	return file, nil
}

func (r *Reader) loadFile(ctx context.Context, loc Location, filePath, docType string) (*domain.Document, error) {
	file, err := r.DownloadFile(ctx, loc, filePath)
	if err != nil {
		return nil, err
	}

	if isJSON(filePath) {
		doc, err := domain.DocumentFromJSON([]byte(file.Content))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filePath, err)
		}
		if doc.Name == "" {
			doc.Name = filePath
		}
		if doc.Reader == "" {
			doc.Reader = ReaderName
		}
		doc.NormalizeChunks()
		return doc, nil
	}

	return &domain.Document{
		Text:      file.Content,
		Type:      docType,
		Name:      filePath,
		Link:      file.HTMLURL,
		Path:      file.Path,
		Timestamp: domain.FormatTimestamp(r.now()),
		Reader:    ReaderName,
		Meta:      make(map[string]any),
	}, nil
}

// allowed checks the file extension against the allow-list, ignoring case.
func (r *Reader) allowed(filePath string) bool {
	ext := strings.ToLower(path.Ext(filePath))
	if ext == "" {
		return false
	}
	for _, e := range r.cfg.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

func isJSON(filePath string) bool {
	return strings.HasSuffix(strings.ToLower(filePath), ".json")
}
