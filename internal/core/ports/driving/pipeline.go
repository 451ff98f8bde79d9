package driving

import (
	"context"

	"github.com/simplyjuanc/zk-rag-webapp/internal/core/domain"
)

// Pipeline is the queue-driven ingestion orchestrator: it consumes file
// events, runs processing, chunking and embedding, and hands results to
// the registered callback.
type Pipeline interface {
	// Start launches the processing loop, starts the source watcher and
	// triggers the initial backfill scan. A second call while running is
	// a logged no-op.
	Start(callback domain.PipelineCallback) error

	// Stop halts the watcher, drains the in-flight item at the iteration
	// boundary, terminates the processing loop and releases the
	// embedding client. Safe to call when not running.
	Stop() error

	// ProcessSingleFile runs one synchronous processing pass for a path,
	// bypassing the queue. The result is returned to the caller as well
	// as delivered to the callback.
	ProcessSingleFile(ctx context.Context, path string) (*domain.PipelineResult, error)

	// IngestContent processes content that did not come from the watched
	// filesystem (e.g. fetched from a source repository), keyed by path.
	IngestContent(ctx context.Context, path string, content []byte) (*domain.PipelineResult, error)

	// Remove runs the deletion flow for a path, delivering a
	// deletion-flavoured result to the callback.
	Remove(path string) *domain.PipelineResult

	// Status returns a point-in-time snapshot of the pipeline.
	Status() domain.PipelineStatus
}
