// Package github fetches repository file contents for webhook-driven
// ingestion.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/simplyjuanc/zk-rag-webapp/internal/core/domain"
	"github.com/simplyjuanc/zk-rag-webapp/internal/core/ports/driven"
)

const (
	// DefaultTimeout is the HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// ProactiveRate throttles content fetches well under the
	// authenticated limit (5000/hour).
	ProactiveRate = 1.2
)

// Ensure Client implements the interface.
var _ driven.RepositoryClient = (*Client)(nil)

// Client fetches file contents from the GitHub contents API, throttled
// with a proactive token bucket.
type Client struct {
	gh      *gh.Client
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root, e.g. a GitHub
// Enterprise instance or a test server.
func WithBaseURL(rawURL string) Option {
	return func(c *Client) {
		if !strings.HasSuffix(rawURL, "/") {
			rawURL += "/"
		}
		if parsed, err := url.Parse(rawURL); err == nil {
			c.gh.BaseURL = parsed
		}
	}
}

// WithRateLimit overrides the proactive throttle rate.
func WithRateLimit(limit rate.Limit) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(limit, 1)
	}
}

// NewClient creates a GitHub client. An empty token yields an
// unauthenticated client, which only works against public repositories
// and a much lower rate limit.
func NewClient(ctx context.Context, token string, opts ...Option) *Client {
	var ghClient *gh.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc := oauth2.NewClient(ctx, ts)
		tc.Timeout = DefaultTimeout
		ghClient = gh.NewClient(tc)
	} else {
		ghClient = gh.NewClient(&http.Client{Timeout: DefaultTimeout})
	}

	c := &Client{
		gh:      ghClient,
		limiter: rate.NewLimiter(rate.Limit(ProactiveRate), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetFilesContent fetches the decoded content of each path from the
// repository's default branch, in the order given.
func (c *Client) GetFilesContent(ctx context.Context, paths []string, repoFullName string) ([]string, error) {
	owner, repo, err := splitFullName(repoFullName)
	if err != nil {
		return nil, err
	}

	contents := make([]string, len(paths))
	for i, path := range paths {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		file, _, _, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, nil)
		if err != nil {
			return nil, fmt.Errorf("get contents %s: %w", path, err)
		}
		if file == nil {
			return nil, fmt.Errorf("get contents %s: path is a directory, not a file", path)
		}

		decoded, err := file.GetContent()
		if err != nil {
			return nil, fmt.Errorf("decode content %s: %w", path, err)
		}
		contents[i] = decoded
	}

	return contents, nil
}

// splitFullName splits an "owner/repo" name into its parts.
func splitFullName(fullName string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("%w: repository name %q is not owner/repo", domain.ErrInvalidInput, fullName)
	}
	return owner, repo, nil
}
