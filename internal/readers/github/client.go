package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"unicode/utf8"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/ragkit/internal/core/ports/driven"
	"github.com/custodia-labs/ragkit/internal/logger"
)

// File is a downloaded repository file.
type File struct {
	Path    string
	HTMLURL string
	Content string
}

// Client wraps the go-github client with helper methods.
type Client struct {
	gh            *gh.Client
	cfg           Config
	tokenProvider driven.TokenProvider
	rateLimiter   *RateLimiter
}

// NewClient creates a new GitHub API client with a token provider.
// A nil provider issues unauthenticated requests.
func NewClient(cfg Config, tokenProvider driven.TokenProvider) *Client {
	return &Client{
		cfg:           cfg,
		tokenProvider: tokenProvider,
		rateLimiter:   NewRateLimiter(cfg.RequestsPerSecond),
	}
}

// ensureClient initializes the go-github client if not already done.
// This is called lazily so the token is read when first needed.
func (c *Client) ensureClient(ctx context.Context) error {
	if c.gh != nil {
		return nil
	}

	var token string
	if c.tokenProvider != nil {
		t, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("get token: %w", err)
		}
		token = t
	}

	var hc *http.Client
	if token == "" {
		logger.Warn("%s is not set, using unauthenticated GitHub requests (60 per hour)", c.tokenSource())
		hc = &http.Client{}
	} else {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		hc = oauth2.NewClient(ctx, ts)
	}
	hc.Timeout = c.cfg.Timeout

	client := gh.NewClient(hc)
	base, err := url.Parse(c.cfg.baseURL())
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	client.BaseURL = base
	c.gh = client

	return nil
}

// tokenSource names the environment variable the token is read from.
func (c *Client) tokenSource() string {
	if c.tokenProvider != nil {
		if src := c.tokenProvider.Source(); src != "" {
			return src
		}
	}
	return c.cfg.TokenEnv
}

// GetTree fetches the entire tree for a branch recursively.
func (c *Client) GetTree(ctx context.Context, owner, repo, branch string) (*gh.Tree, error) {
	if err := c.ensureClient(ctx); err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	tree, resp, err := c.gh.Git.GetTree(ctx, owner, repo, branch, true) // recursive=1
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "get tree")
	}
	return tree, nil
}

// GetFile fetches a file through the Contents API and decodes its base64 content.
func (c *Client) GetFile(ctx context.Context, owner, repo, path, ref string) (*File, error) {
	if err := c.ensureClient(ctx); err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.RepositoryContentGetOptions{Ref: ref}
	content, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "get contents")
	}

	if content == nil {
		return nil, fmt.Errorf("get contents %s: path is a directory, not a file", path)
	}

	decoded, err := content.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if !utf8.ValidString(decoded) {
		return nil, fmt.Errorf("decode %s: %w", path, ErrInvalidUTF8)
	}

	filePath := content.GetPath()
	if filePath == "" {
		filePath = path
	}
	return &File{
		Path:    filePath,
		HTMLURL: content.GetHTMLURL(),
		Content: decoded,
	}, nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &RateLimitError{
			ResetAt:   c.rateLimiter.ResetTime(),
			Remaining: c.rateLimiter.Remaining(),
			Limit:     c.rateLimiter.Limit(),
		}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return fmt.Errorf("%s: %w", operation, apiErr)
	}

	return fmt.Errorf("%s: %w", operation, err)
}
