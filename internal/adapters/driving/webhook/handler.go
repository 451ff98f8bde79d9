// Package webhook exposes the ingestion pipeline over HTTP: it receives
// GitHub push webhooks, verifies them and feeds the changed markdown
// files through the pipeline.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v80/github"

	"github.com/simplyjuanc/zk-rag-webapp/internal/core/domain"
	"github.com/simplyjuanc/zk-rag-webapp/internal/core/ports/driven"
	"github.com/simplyjuanc/zk-rag-webapp/internal/core/ports/driving"
	"github.com/simplyjuanc/zk-rag-webapp/internal/logger"
)

// maxBodySize caps webhook payloads. GitHub caps its own deliveries at
// 25 MB, so anything larger is not a genuine delivery.
const maxBodySize = 25 << 20

// Required delivery headers.
const (
	headerDelivery  = "X-GitHub-Delivery"
	headerEvent     = "X-GitHub-Event"
	headerSignature = "X-Hub-Signature-256"
)

// Ensure Handler implements the interface.
var _ http.Handler = (*Handler)(nil)

// Handler receives GitHub webhook deliveries. Every delivery is
// authenticated with HMAC-SHA256 against the shared secret before the
// payload is parsed; push events then run their markdown changes
// through the pipeline.
type Handler struct {
	secret   []byte
	pipeline driving.Pipeline
	repos    driven.RepositoryClient
}

// NewHandler creates a webhook handler over the given pipeline and
// repository client. The secret must match the one configured on the
// GitHub webhook.
func NewHandler(secret string, pipeline driving.Pipeline, repos driven.RepositoryClient) *Handler {
	return &Handler{
		secret:   []byte(secret),
		pipeline: pipeline,
		repos:    repos,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	delivery := r.Header.Get(headerDelivery)
	event := r.Header.Get(headerEvent)
	signature := r.Header.Get(headerSignature)
	if delivery == "" || event == "" || signature == "" {
		logger.Warn("Webhook rejected: %v", domain.ErrMissingHeaders)
		http.Error(w, domain.ErrMissingHeaders.Error(), http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	// Authenticate before touching the payload. An attacker-controlled
	// body must never reach the JSON parser.
	if !h.verifySignature(signature, body) {
		logger.Warn("Webhook delivery %s rejected: %v", delivery, domain.ErrInvalidSignature)
		http.Error(w, domain.ErrInvalidSignature.Error(), http.StatusForbidden)
		return
	}

	logger.Debug("Webhook delivery %s verified (%s)", delivery, event)

	switch event {
	case "ping":
		writeJSON(w, http.StatusOK, map[string]string{"message": "pong"})
	case "push":
		h.handlePush(w, r, body)
	default:
		logger.Warn("Webhook delivery %s rejected: %v (%s)", delivery, domain.ErrUnsupportedEvent, event)
		http.Error(w, fmt.Sprintf("%v: %s", domain.ErrUnsupportedEvent, event), http.StatusBadRequest)
	}
}

// handlePush ingests the markdown changes carried by a push payload.
func (h *Handler) handlePush(w http.ResponseWriter, r *http.Request, body []byte) {
	var push github.PushEvent
	if err := json.Unmarshal(body, &push); err != nil {
		http.Error(w, "malformed push payload", http.StatusBadRequest)
		return
	}

	changed, removed := collectMarkdownChanges(push.Commits)
	repoFullName := push.GetRepo().GetFullName()

	ctx := r.Context()

	if len(changed) > 0 {
		contents, err := h.repos.GetFilesContent(ctx, changed, repoFullName)
		if err != nil {
			logger.Error("Failed to fetch contents from %s: %v", repoFullName, err)
			http.Error(w, "failed to fetch file contents", http.StatusInternalServerError)
			return
		}

		for i, path := range changed {
			if _, err := h.pipeline.IngestContent(ctx, path, []byte(contents[i])); err != nil {
				logger.Error("Failed to ingest %s: %v", path, err)
				http.Error(w, "failed to process file contents", http.StatusInternalServerError)
				return
			}
		}
	}

	for _, path := range removed {
		h.pipeline.Remove(path)
	}

	logger.Info("Push from %s: %d files ingested, %d removed", repoFullName, len(changed), len(removed))
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"processed": len(changed),
		"removed":   len(removed),
	})
}

// verifySignature checks the sha256=<hex> header against an HMAC of the
// body, in constant time.
func (h *Handler) verifySignature(header string, body []byte) bool {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write(body)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(header), []byte(expected))
}

// collectMarkdownChanges unions the per-commit file lists into a
// changed set (added and modified) and a removed set, deduplicated in
// first-seen order and filtered to markdown paths.
func collectMarkdownChanges(commits []*github.HeadCommit) (changed, removed []string) {
	seenChanged := make(map[string]bool)
	seenRemoved := make(map[string]bool)

	for _, commit := range commits {
		for _, list := range [][]string{commit.Added, commit.Modified} {
			for _, path := range list {
				if !isMarkdown(path) || seenChanged[path] {
					continue
				}
				seenChanged[path] = true
				changed = append(changed, path)
			}
		}
		for _, path := range commit.Removed {
			if !isMarkdown(path) || seenRemoved[path] {
				continue
			}
			seenRemoved[path] = true
			removed = append(removed, path)
		}
	}
	return changed, removed
}

func isMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range domain.DefaultExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to write webhook response: %v", err)
	}
}
