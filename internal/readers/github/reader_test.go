package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragkit/internal/core/domain"
	"github.com/custodia-labs/ragkit/internal/logger"
)

// mockTokenProvider implements driven.TokenProvider for testing.
type mockTokenProvider struct {
	token  string
	source string
	err    error
}

func (p *mockTokenProvider) GetToken(_ context.Context) (string, error) {
	return p.token, p.err
}

func (p *mockTokenProvider) Source() string {
	return p.source
}

// fakeGitHub serves the Trees and Contents APIs for a single repository.
type fakeGitHub struct {
	mu          sync.Mutex
	owner, repo string
	tree        []string
	files       map[string]string
	treeStatus  int
	failFile    string
	authHeaders []string
	requests    int
}

func newFakeGitHub(files map[string]string, extraTree ...string) *fakeGitHub {
	f := &fakeGitHub{owner: "octo", repo: "handbook", files: files}
	for p := range files {
		f.tree = append(f.tree, p)
	}
	f.tree = append(f.tree, extraTree...)
	return f
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests++
	f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))
	remaining := 5000 - f.requests
	f.mu.Unlock()

	prefix := "/repos/" + f.owner + "/" + f.repo
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(HeaderRateLimit, "5000")
	w.Header().Set(HeaderRateRemaining, strconv.Itoa(remaining))

	switch {
	case r.URL.Path == prefix+"/git/trees/main":
		if r.URL.Query().Get("recursive") != "1" {
			http.Error(w, `{"message":"recursive missing"}`, http.StatusBadRequest)
			return
		}
		if f.treeStatus != 0 {
			w.WriteHeader(f.treeStatus)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		entries := make([]map[string]any, 0, len(f.tree)+1)
		entries = append(entries, map[string]any{"path": "docs", "type": "tree", "sha": "d0"})
		for _, p := range f.tree {
			entries = append(entries, map[string]any{"path": p, "type": "blob", "mode": "100644", "sha": "s-" + p})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"sha": "root", "tree": entries, "truncated": false})

	case strings.HasPrefix(r.URL.Path, prefix+"/contents/"):
		p := strings.TrimPrefix(r.URL.Path, prefix+"/contents/")
		content, ok := f.files[p]
		if !ok || p == f.failFile {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"Server Error"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type":     "file",
			"encoding": "base64",
			"path":     p,
			"name":     p[strings.LastIndex(p, "/")+1:],
			"content":  base64.StdEncoding.EncodeToString([]byte(content)),
			"html_url": "https://github.com/" + f.owner + "/" + f.repo + "/blob/main/" + p,
		})

	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	}
}

func newTestReader(t *testing.T, fake *fakeGitHub, token string) *Reader {
	t.Helper()

	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.Timeout = 5 * time.Second

	r := New(cfg, &mockTokenProvider{token: token, source: "GITHUB_TOKEN"})
	r.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local) }
	return r
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
	return &buf
}

func names(docs []*domain.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Name)
	}
	return out
}

func TestReader_Load_FiltersByFolderAndExtension(t *testing.T) {
	captureLogs(t)
	fake := newFakeGitHub(map[string]string{
		"docs/intro.md":        "# Intro",
		"docs/guide.mdx":       "guide",
		"docs/notes.txt":       "notes",
		"docs/sub/deep.md":     "deep",
		"docs/logo.png":        "png",
		"docs-old/legacy.md":   "legacy",
		"README.md":            "readme",
		"src/main.go":          "package main",
		"docs/UPPER.MD":        "upper",
		"docs/no_extension":    "none",
		"docs/archive.json.gz": "gz",
	})
	r := newTestReader(t, fake, "token")

	docs, err := r.Load(context.Background(), domain.LoadRequest{Paths: []string{"octo/handbook/docs"}})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"docs/intro.md",
		"docs/guide.mdx",
		"docs/notes.txt",
		"docs/sub/deep.md",
		"docs/UPPER.MD",
	}, names(docs))
}

func TestReader_Load_SkipsSiblingFolderSharingPrefix(t *testing.T) {
	captureLogs(t)
	fake := newFakeGitHub(map[string]string{
		"docs/current.md":    "current",
		"docs-old/legacy.md": "legacy",
		"docsite/index.md":   "site",
	})
	r := newTestReader(t, fake, "token")

	docs, err := r.Load(context.Background(), domain.LoadRequest{Paths: []string{"octo/handbook/docs"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"docs/current.md"}, names(docs))
}

func TestReader_Load_RepositoryRoot(t *testing.T) {
	captureLogs(t)
	fake := newFakeGitHub(map[string]string{
		"README.md":     "readme",
		"docs/intro.md": "intro",
		"main.go":       "package main",
	})
	r := newTestReader(t, fake, "token")

	docs, err := r.Load(context.Background(), domain.LoadRequest{Paths: []string{"octo/handbook"}})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"README.md", "docs/intro.md"}, names(docs))
}

func TestReader_Load_DocumentFields(t *testing.T) {
	logs := captureLogs(t)
	fake := newFakeGitHub(map[string]string{"docs/intro.md": "# Intro\n\nHello."})
	r := newTestReader(t, fake, "token")

	t.Run("default type", func(t *testing.T) {
		docs, err := r.Load(context.Background(), domain.LoadRequest{Paths: []string{"octo/handbook/docs"}})
		require.NoError(t, err)
		require.Len(t, docs, 1)

		doc := docs[0]
		assert.Equal(t, "# Intro\n\nHello.", doc.Text)
		assert.Equal(t, "Documentation", doc.Type)
		assert.Equal(t, "docs/intro.md", doc.Name)
		assert.Equal(t, "docs/intro.md", doc.Path)
		assert.Equal(t, "https://github.com/octo/handbook/blob/main/docs/intro.md", doc.Link)
		assert.Equal(t, "2024-03-09 14:05:07", doc.Timestamp)
		assert.Equal(t, "GithubReader", doc.Reader)
		assert.NotNil(t, doc.Meta)
		assert.Empty(t, doc.Chunks)
	})

	t.Run("custom type", func(t *testing.T) {
		docs, err := r.Load(context.Background(), domain.LoadRequest{
			Paths:        []string{"octo/handbook/docs"},
			DocumentType: "Handbook",
		})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "Handbook", docs[0].Type)
	})

	assert.Contains(t, logs.String(), "Fetched 1 filenames from octo/handbook/docs")
	assert.Contains(t, logs.String(), "Downloaded docs/intro.md")
	assert.Contains(t, logs.String(), "Loaded 1 documents")
}

func TestReader_Load_TreeErrorReturnsNoDocuments(t *testing.T) {
	captureLogs(t)
	fake := newFakeGitHub(map[string]string{"docs/intro.md": "intro"})
	fake.treeStatus = http.StatusNotFound
	r := newTestReader(t, fake, "token")

	docs, err := r.Load(context.Background(), domain.LoadRequest{Paths: []string{"octo/handbook/docs"}})

	require.Error(t, err)
	assert.Nil(t, docs)
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Not Found", apiErr.Message)
}

func TestReader_Load_DownloadErrorAbortsWholeLoad(t *testing.T) {
	captureLogs(t)
	fake := newFakeGitHub(map[string]string{
		"docs/a.md": "a",
		"docs/b.md": "b",
		"docs/c.md": "c",
	})
	fake.failFile = "docs/b.md"
	r := newTestReader(t, fake, "token")

	docs, err := r.Load(context.Background(), domain.LoadRequest{Paths: []string{"octo/handbook/docs"}})

	require.Error(t, err)
	assert.Nil(t, docs)
	assert.Contains(t, err.Error(), "docs/b.md")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestReader_Load_JSONRecord(t *testing.T) {
	captureLogs(t)
	record := `{
		"text": "Structured body",
		"type": "FAQ",
		"name": "faq-entry",
		"link": "https://example.com/faq",
		"path": "faq/entry",
		"timestamp": "2023-01-02 03:04:05",
		"reader": "JSONReader",
		"meta": {"lang": "en"},
		"chunks": [
			{"text": "Structured body", "doc_name": "faq-entry", "doc_type": "FAQ", "doc_uuid": "", "chunk_id": 0, "tokens": 2, "vector": [], "score": 0}
		]
	}`
	fake := newFakeGitHub(map[string]string{"docs/faq.json": record})
	r := newTestReader(t, fake, "token")

	docs, err := r.Load(context.Background(), domain.LoadRequest{Paths: []string{"octo/handbook/docs"}})

	require.NoError(t, err)
	require.Len(t, docs, 1)
	doc := docs[0]
	assert.Equal(t, "faq-entry", doc.Name)
	assert.Equal(t, "FAQ", doc.Type)
	assert.Equal(t, "JSONReader", doc.Reader)
	assert.Equal(t, "2023-01-02 03:04:05", doc.Timestamp)
	assert.Equal(t, "en", doc.Meta["lang"])
	require.Len(t, doc.Chunks, 1)
	assert.Equal(t, "Structured body", doc.Chunks[0].Text)
}

func TestReader_Load_JSONRecordFillsNameAndReader(t *testing.T) {
	captureLogs(t)
	fake := newFakeGitHub(map[string]string{"docs/bare.json": `{"text": "only text"}`})
	r := newTestReader(t, fake, "token")

	docs, err := r.Load(context.Background(), domain.LoadRequest{Paths: []string{"octo/handbook/docs"}})

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "docs/bare.json", docs[0].Name)
	assert.Equal(t, "GithubReader", docs[0].Reader)
}

func TestReader_Load_JSONRecordChunksWithoutIDs(t *testing.T) {
	captureLogs(t)
	record := `{"name": "faq", "type": "FAQ", "chunks": [{"text": "first"}, {"text": "second"}]}`
	fake := newFakeGitHub(map[string]string{"docs/faq.json": record})
	r := newTestReader(t, fake, "token")

	docs, err := r.Load(context.Background(), domain.LoadRequest{Paths: []string{"octo/handbook/docs"}})

	require.NoError(t, err)
	require.Len(t, docs, 1)
	chunks := docs[0].Chunks
	require.Len(t, chunks, 2)
	assert.Equal(t, 0, chunks[0].ChunkID)
	assert.Equal(t, 1, chunks[1].ChunkID)
	assert.Equal(t, "faq", chunks[1].DocName)
	assert.Equal(t, "FAQ", chunks[1].DocType)
}

func TestReader_Load_MalformedJSONFails(t *testing.T) {
	captureLogs(t)
	fake := newFakeGitHub(map[string]string{
		"docs/a.md":     "fine",
		"docs/bad.json": `{"text": "unterminated`,
	})
	r := newTestReader(t, fake, "token")

	docs, err := r.Load(context.Background(), domain.LoadRequest{Paths: []string{"octo/handbook/docs"}})

	require.Error(t, err)
	assert.Nil(t, docs)
	assert.ErrorIs(t, err, domain.ErrDocumentDecode)
	assert.Contains(t, err.Error(), "loading JSON failed")
}

func TestReader_Load_Auth(t *testing.T) {
	t.Run("bearer token", func(t *testing.T) {
		captureLogs(t)
		fake := newFakeGitHub(map[string]string{"docs/a.md": "a"})
		r := newTestReader(t, fake, "ghp_secret")

		_, err := r.Load(context.Background(), domain.LoadRequest{Paths: []string{"octo/handbook/docs"}})

		require.NoError(t, err)
		require.NotEmpty(t, fake.authHeaders)
		for _, h := range fake.authHeaders {
			assert.Equal(t, "Bearer ghp_secret", h)
		}
	})

	t.Run("unauthenticated with warning", func(t *testing.T) {
		logs := captureLogs(t)
		fake := newFakeGitHub(map[string]string{"docs/a.md": "a"})
		r := newTestReader(t, fake, "")

		docs, err := r.Load(context.Background(), domain.LoadRequest{Paths: []string{"octo/handbook/docs"}})

		require.NoError(t, err)
		assert.Len(t, docs, 1)
		for _, h := range fake.authHeaders {
			assert.Empty(t, h)
		}
		assert.Contains(t, logs.String(), "[WARN] GITHUB_TOKEN is not set")
	})

	t.Run("warning names the provider's variable", func(t *testing.T) {
		logs := captureLogs(t)
		fake := newFakeGitHub(map[string]string{"docs/a.md": "a"})
		r := newTestReader(t, fake, "")
		r.client.tokenProvider = &mockTokenProvider{source: "DOCS_TOKEN"}

		_, err := r.Load(context.Background(), domain.LoadRequest{Paths: []string{"octo/handbook/docs"}})

		require.NoError(t, err)
		assert.Contains(t, logs.String(), "[WARN] DOCS_TOKEN is not set")
	})

	t.Run("token provider error", func(t *testing.T) {
		captureLogs(t)
		fake := newFakeGitHub(map[string]string{"docs/a.md": "a"})
		r := newTestReader(t, fake, "")
		r.client.tokenProvider = &mockTokenProvider{err: errors.New("keyring locked")}

		docs, err := r.Load(context.Background(), domain.LoadRequest{Paths: []string{"octo/handbook/docs"}})

		require.Error(t, err)
		assert.Nil(t, docs)
		assert.Contains(t, err.Error(), "keyring locked")
		assert.Zero(t, fake.requests)
	})
}

func TestReader_Load_LogsQuotaWhenVerbose(t *testing.T) {
	logs := captureLogs(t)
	logger.SetVerbose(true)
	t.Cleanup(func() { logger.SetVerbose(false) })
	fake := newFakeGitHub(map[string]string{"docs/a.md": "a", "docs/b.md": "b"})
	r := newTestReader(t, fake, "token")

	_, err := r.Load(context.Background(), domain.LoadRequest{Paths: []string{"octo/handbook/docs"}})

	require.NoError(t, err)
	assert.Contains(t, logs.String(), "GitHub quota: 4997 of 5000 requests remaining")
	assert.Equal(t, 4997, r.client.RateLimiter().Remaining())
}

func TestReader_Load_RejectsInvalidUTF8(t *testing.T) {
	captureLogs(t)
	fake := newFakeGitHub(map[string]string{"docs/a.md": "fine", "docs/binary.md": "\xff\xfe\x00bin"})
	r := newTestReader(t, fake, "token")

	docs, err := r.Load(context.Background(), domain.LoadRequest{Paths: []string{"octo/handbook/docs"}})

	require.Error(t, err)
	assert.Nil(t, docs)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
	assert.Contains(t, err.Error(), "docs/binary.md")
}

func TestReader_Load_SkipsEmptyPaths(t *testing.T) {
	captureLogs(t)
	fake := newFakeGitHub(map[string]string{"docs/a.md": "a"})
	r := newTestReader(t, fake, "token")

	docs, err := r.Load(context.Background(), domain.LoadRequest{Paths: []string{"", "  "}})

	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Zero(t, fake.requests)
}

func TestReader_Load_InvalidPath(t *testing.T) {
	captureLogs(t)
	fake := newFakeGitHub(map[string]string{"docs/a.md": "a"})
	r := newTestReader(t, fake, "token")

	docs, err := r.Load(context.Background(), domain.LoadRequest{Paths: []string{"octo/handbook/docs", "just-owner"}})

	require.Error(t, err)
	assert.Nil(t, docs)
	assert.ErrorIs(t, err, domain.ErrInvalidPath)
}

func TestReader_Load_CancelledContext(t *testing.T) {
	captureLogs(t)
	fake := newFakeGitHub(map[string]string{"docs/a.md": "a"})
	r := newTestReader(t, fake, "token")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	docs, err := r.Load(ctx, domain.LoadRequest{Paths: []string{"octo/handbook/docs"}})

	require.Error(t, err)
	assert.Nil(t, docs)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReader_ListFiles(t *testing.T) {
	captureLogs(t)
	fake := newFakeGitHub(map[string]string{
		"docs/a.md":   "a",
		"docs/b.json": "{}",
		"docs/c.yaml": "c: 1",
	})
	r := newTestReader(t, fake, "token")

	files, err := r.ListFiles(context.Background(), Location{Owner: "octo", Repo: "handbook", Folder: "docs"})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"docs/a.md", "docs/b.json"}, files)
}

func TestReader_DownloadFile(t *testing.T) {
	captureLogs(t)
	fake := newFakeGitHub(map[string]string{"docs/a.md": "héllo wörld"})
	r := newTestReader(t, fake, "token")

	file, err := r.DownloadFile(context.Background(), Location{Owner: "octo", Repo: "handbook"}, "docs/a.md")

	require.NoError(t, err)
	assert.Equal(t, "héllo wörld", file.Content)
	assert.Equal(t, "docs/a.md", file.Path)
	assert.Equal(t, "https://github.com/octo/handbook/blob/main/docs/a.md", file.HTMLURL)
}

func TestReader_Info(t *testing.T) {
	r := New(DefaultConfig(), nil)

	info := r.Info()

	assert.Equal(t, "GithubReader", info.Name)
	assert.Equal(t, domain.PluginReader, info.Kind)
	assert.Equal(t, []string{"GITHUB_TOKEN"}, info.RequiresEnv)
	assert.Equal(t, domain.InputFormInput, info.InputForm)
}

func TestReader_Load_Exclude(t *testing.T) {
	captureLogs(t)
	fake := newFakeGitHub(map[string]string{
		"docs/guide.md":      "guide",
		"docs/CHANGELOG.md":  "changes",
		"docs/drafts/wip.md": "wip",
	})
	r := newTestReader(t, fake, "token")
	r.cfg.Exclude = []string{"**/CHANGELOG.md", "docs/drafts/**"}

	docs, err := r.Load(context.Background(), domain.LoadRequest{Paths: []string{"octo/handbook/docs"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"docs/guide.md"}, names(docs))
}
