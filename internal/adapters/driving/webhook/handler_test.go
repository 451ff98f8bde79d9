package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplyjuanc/zk-rag-webapp/internal/core/domain"
)

const testSecret = "webhook-test-secret"

// mockPipeline records ingest and remove calls.
type mockPipeline struct {
	ingested  map[string]string
	removed   []string
	ingestErr error
}

func newMockPipeline() *mockPipeline {
	return &mockPipeline{ingested: make(map[string]string)}
}

func (p *mockPipeline) Start(_ domain.PipelineCallback) error { return nil }
func (p *mockPipeline) Stop() error                           { return nil }

func (p *mockPipeline) ProcessSingleFile(_ context.Context, path string) (*domain.PipelineResult, error) {
	return domain.NewDeletionResult(path), nil
}

func (p *mockPipeline) IngestContent(_ context.Context, path string, content []byte) (*domain.PipelineResult, error) {
	if p.ingestErr != nil {
		return nil, p.ingestErr
	}
	p.ingested[path] = string(content)
	return &domain.PipelineResult{FilePath: path, EventType: domain.FileManual}, nil
}

func (p *mockPipeline) Remove(path string) *domain.PipelineResult {
	p.removed = append(p.removed, path)
	return domain.NewDeletionResult(path)
}

func (p *mockPipeline) Status() domain.PipelineStatus { return domain.PipelineStatus{} }

// mockRepoClient serves canned file contents and records whether it was
// reached at all.
type mockRepoClient struct {
	contents map[string]string
	fetchErr error
	called   bool
	repo     string
	paths    []string
}

func (c *mockRepoClient) GetFilesContent(_ context.Context, paths []string, repoFullName string) ([]string, error) {
	c.called = true
	c.repo = repoFullName
	c.paths = paths
	if c.fetchErr != nil {
		return nil, c.fetchErr
	}
	out := make([]string, len(paths))
	for i, path := range paths {
		out[i] = c.contents[path]
	}
	return out, nil
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func newRequest(t *testing.T, event string, body []byte, signature string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook/github", bytes.NewReader(body))
	req.Header.Set(headerDelivery, "72d3162e-cc78-11e3-81ab-4c9367dc0958")
	req.Header.Set(headerEvent, event)
	req.Header.Set(headerSignature, signature)
	return req
}

func pushBody(t *testing.T, repoFullName string, commits []*github.HeadCommit) []byte {
	t.Helper()
	push := github.PushEvent{
		Repo:    &github.PushEventRepository{FullName: github.Ptr(repoFullName)},
		Commits: commits,
	}
	body, err := json.Marshal(push)
	require.NoError(t, err)
	return body
}

func TestHandler_ServeHTTP(t *testing.T) {
	t.Run("rejects non-POST methods", func(t *testing.T) {
		handler := NewHandler(testSecret, newMockPipeline(), &mockRepoClient{})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhook/github", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("rejects missing headers", func(t *testing.T) {
		tests := []struct {
			name   string
			header string
		}{
			{"no delivery ID", headerDelivery},
			{"no event type", headerEvent},
			{"no signature", headerSignature},
		}

		body := []byte(`{"zen":"Keep it logically awesome."}`)
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				handler := NewHandler(testSecret, newMockPipeline(), &mockRepoClient{})
				req := newRequest(t, "ping", body, sign(testSecret, body))
				req.Header.Del(tt.header)

				rec := httptest.NewRecorder()
				handler.ServeHTTP(rec, req)

				assert.Equal(t, http.StatusBadRequest, rec.Code)
			})
		}
	})

	t.Run("rejects a bad signature before parsing", func(t *testing.T) {
		pipeline := newMockPipeline()
		repos := &mockRepoClient{}
		handler := NewHandler(testSecret, pipeline, repos)

		// Deliberately not valid JSON: a rejected delivery must never
		// reach the parser, so this must come back 403, not 400.
		body := []byte(`{"broken`)
		req := newRequest(t, "push", body, sign("some-other-secret", body))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, repos.called)
		assert.Empty(t, pipeline.ingested)
	})

	t.Run("answers ping", func(t *testing.T) {
		handler := NewHandler(testSecret, newMockPipeline(), &mockRepoClient{})

		body := []byte(`{"zen":"Design for failure."}`)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(t, "ping", body, sign(testSecret, body)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "pong")
	})

	t.Run("rejects unsupported events", func(t *testing.T) {
		handler := NewHandler(testSecret, newMockPipeline(), &mockRepoClient{})

		body := []byte(`{"action":"opened"}`)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(t, "issues", body, sign(testSecret, body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a malformed push payload", func(t *testing.T) {
		handler := NewHandler(testSecret, newMockPipeline(), &mockRepoClient{})

		body := []byte(`not json at all`)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(t, "push", body, sign(testSecret, body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_Push(t *testing.T) {
	t.Run("ingests changed markdown and removes deleted", func(t *testing.T) {
		pipeline := newMockPipeline()
		repos := &mockRepoClient{contents: map[string]string{
			"docs/intro.md": "# Intro",
			"notes/b.md":    "# B",
		}}
		handler := NewHandler(testSecret, pipeline, repos)

		body := pushBody(t, "user/notes", []*github.HeadCommit{
			{
				Added:    []string{"docs/intro.md", "assets/diagram.png"},
				Modified: []string{"notes/b.md"},
			},
			{
				// Re-touched in a later commit: must not be fetched twice.
				Modified: []string{"docs/intro.md"},
				Removed:  []string{"old/gone.md", "assets/photo.jpg"},
			},
		})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(t, "push", body, sign(testSecret, body)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user/notes", repos.repo)
		assert.Equal(t, []string{"docs/intro.md", "notes/b.md"}, repos.paths)
		assert.Equal(t, map[string]string{
			"docs/intro.md": "# Intro",
			"notes/b.md":    "# B",
		}, pipeline.ingested)
		assert.Equal(t, []string{"old/gone.md"}, pipeline.removed)
	})

	t.Run("push with no markdown changes is a no-op", func(t *testing.T) {
		pipeline := newMockPipeline()
		repos := &mockRepoClient{}
		handler := NewHandler(testSecret, pipeline, repos)

		body := pushBody(t, "user/notes", []*github.HeadCommit{
			{Added: []string{"main.go"}, Modified: []string{"go.sum"}},
		})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(t, "push", body, sign(testSecret, body)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, repos.called)
		assert.Empty(t, pipeline.ingested)
		assert.Empty(t, pipeline.removed)
	})

	t.Run("fetch failure returns 500", func(t *testing.T) {
		repos := &mockRepoClient{fetchErr: errors.New("api unreachable")}
		handler := NewHandler(testSecret, newMockPipeline(), repos)

		body := pushBody(t, "user/notes", []*github.HeadCommit{
			{Added: []string{"a.md"}},
		})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(t, "push", body, sign(testSecret, body)))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("ingest failure returns 500", func(t *testing.T) {
		pipeline := newMockPipeline()
		pipeline.ingestErr = errors.New("embedding provider down")
		repos := &mockRepoClient{contents: map[string]string{"a.md": "# A"}}
		handler := NewHandler(testSecret, pipeline, repos)

		body := pushBody(t, "user/notes", []*github.HeadCommit{
			{Added: []string{"a.md"}},
		})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(t, "push", body, sign(testSecret, body)))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestCollectMarkdownChanges(t *testing.T) {
	changed, removed := collectMarkdownChanges([]*github.HeadCommit{
		{
			Added:    []string{"a.md", "b.markdown", "c.txt"},
			Modified: []string{"a.md", "d.md"},
			Removed:  []string{"x.md"},
		},
		{
			Added:   []string{"d.md"},
			Removed: []string{"x.md", "y.png"},
		},
	})

	assert.Equal(t, []string{"a.md", "b.markdown", "d.md"}, changed)
	assert.Equal(t, []string{"x.md"}, removed)
}

func TestCollectMarkdownChanges_DoesNotMutateCommit(t *testing.T) {
	// Give Added spare capacity so an append into it would overwrite
	// the element following its length.
	added := make([]string, 1, 4)
	added[0] = "a.md"
	commit := &github.HeadCommit{
		Added:    added,
		Modified: []string{"b.md"},
	}

	changed, _ := collectMarkdownChanges([]*github.HeadCommit{commit})

	assert.Equal(t, []string{"a.md", "b.md"}, changed)
	assert.Equal(t, []string{"a.md"}, commit.Added)
	assert.Equal(t, "", added[:2][1])
}

func TestIsMarkdown(t *testing.T) {
	assert.True(t, isMarkdown("docs/readme.md"))
	assert.True(t, isMarkdown("NOTES.MD"))
	assert.True(t, isMarkdown("a.markdown"))
	assert.False(t, isMarkdown("image.png"))
	assert.False(t, isMarkdown("md"))
	assert.False(t, isMarkdown("archive.md.bak"))
}
