package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/simplyjuanc/zk-rag-webapp/internal/chunker"
	"github.com/simplyjuanc/zk-rag-webapp/internal/core/domain"
	"github.com/simplyjuanc/zk-rag-webapp/internal/core/ports/driven"
	"github.com/simplyjuanc/zk-rag-webapp/internal/core/ports/driving"
	"github.com/simplyjuanc/zk-rag-webapp/internal/logger"
	"github.com/simplyjuanc/zk-rag-webapp/internal/processor"
)

// Ensure IngestionPipeline implements the interface.
var _ driving.Pipeline = (*IngestionPipeline)(nil)

// IngestionPipeline coordinates the full ingestion flow: file events are
// queued, each one is processed, chunked and embedded in turn, and the
// finished result is handed to the registered callback. A single
// processing goroutine consumes the queue, so results arrive in event
// order.
type IngestionPipeline struct {
	config   domain.PipelineConfig
	watcher  driven.SourceWatcher
	embedder driven.EmbeddingService

	processor *processor.Processor
	chunker   *chunker.Chunker

	mu       sync.Mutex
	running  bool
	callback domain.PipelineCallback
	queue    chan domain.FileEvent
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewIngestionPipeline creates a pipeline over the given watcher and
// embedding service. Unset config fields are filled with defaults.
func NewIngestionPipeline(
	config domain.PipelineConfig,
	watcher driven.SourceWatcher,
	embedder driven.EmbeddingService,
) *IngestionPipeline {
	config.ApplyDefaults()

	return &IngestionPipeline{
		config:   config,
		watcher:  watcher,
		embedder: embedder,

		processor: processor.New(),
		chunker: chunker.New(
			chunker.WithChunkSize(config.ChunkSize),
			chunker.WithOverlap(config.ChunkOverlap),
		),
	}
}

// Start launches the processing loop, starts the watcher and backfills
// the queue with the files already present in the watched directory.
func (p *IngestionPipeline) Start(callback domain.PipelineCallback) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		logger.Warn("Pipeline is already running")
		return nil
	}

	queue := make(chan domain.FileEvent, p.config.QueueSize)
	stopCh := make(chan struct{})

	// The watcher goroutine blocks on a full queue, which is the
	// backpressure policy: a burst of events slows the watcher down
	// instead of growing memory. The stop channel keeps a late event
	// from deadlocking against a stopped loop.
	enqueue := func(path string, eventType domain.FileEventType) {
		select {
		case queue <- domain.NewFileEvent(path, eventType):
		case <-stopCh:
			logger.Debug("Dropping event for %s: pipeline stopping", path)
		}
	}

	p.callback = callback

	p.wg.Add(1)
	go p.processLoop(queue, stopCh)

	if err := p.watcher.Start(enqueue); err != nil {
		close(stopCh)
		p.wg.Wait()
		p.callback = nil
		return fmt.Errorf("start watcher: %w", err)
	}

	p.queue = queue
	p.stopCh = stopCh
	p.running = true

	logger.Info("Pipeline started, watching %s", p.config.WatchDirectory)

	if err := p.watcher.ScanExistingFiles(enqueue); err != nil {
		logger.Error("Backfill scan failed: %v", err)
	}

	return nil
}

// Stop halts the watcher, terminates the processing loop at the next
// iteration boundary and releases the embedding client. Safe to call
// when not running.
func (p *IngestionPipeline) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh := p.stopCh
	p.running = false
	p.queue = nil
	p.stopCh = nil
	// Unlock before joining the loop: delivery takes the same mutex to
	// read the callback.
	p.mu.Unlock()

	// Stop the watcher first so no new events race the loop shutdown.
	if err := p.watcher.Stop(); err != nil {
		logger.Error("Failed to stop watcher: %v", err)
	}

	close(stopCh)
	p.wg.Wait()

	if err := p.embedder.Close(); err != nil {
		logger.Error("Failed to close embedding service: %v", err)
	}

	logger.Info("Pipeline stopped")
	return nil
}

// ProcessSingleFile runs one synchronous pass for a path, bypassing the
// queue. The result is delivered to the callback and returned.
func (p *IngestionPipeline) ProcessSingleFile(ctx context.Context, path string) (*domain.PipelineResult, error) {
	result, err := p.processPath(ctx, path, domain.FileManual)
	if err != nil {
		return nil, err
	}

	p.deliver(result)
	return result, nil
}

// IngestContent processes content that did not come from the watched
// filesystem, keyed by path. File metadata is synthesised from the
// content itself.
func (p *IngestionPipeline) IngestContent(ctx context.Context, path string, content []byte) (*domain.PipelineResult, error) {
	doc, err := p.processor.ProcessContent(path, content, processor.SyntheticFileMetadata(path, len(content)))
	if err != nil {
		return nil, fmt.Errorf("process content: %w", err)
	}

	result := domain.NewProcessingResult(doc, p.embedChunks(ctx, doc), domain.FileManual)
	p.deliver(result)
	return result, nil
}

// Remove runs the deletion flow for a path: no file access, just a
// deletion-flavoured result through the callback.
func (p *IngestionPipeline) Remove(path string) *domain.PipelineResult {
	result := domain.NewDeletionResult(path)
	p.deliver(result)
	return result
}

// Status returns a point-in-time snapshot of the pipeline.
func (p *IngestionPipeline) Status() domain.PipelineStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	return domain.PipelineStatus{
		IsRunning:      p.running,
		WatchDirectory: p.config.WatchDirectory,
		QueueDepth:     len(p.queue),
		ChunkSize:      p.chunker.ChunkSize(),
		ChunkOverlap:   p.chunker.Overlap(),
	}
}

// processLoop consumes queued events until the stop channel closes.
// One item at a time; an in-flight item finishes before shutdown takes
// effect.
func (p *IngestionPipeline) processLoop(queue <-chan domain.FileEvent, stopCh <-chan struct{}) {
	defer p.wg.Done()

	for {
		select {
		case <-stopCh:
			return
		case event := <-queue:
			p.handleEvent(event)
		}
	}
}

// handleEvent runs one queued event end to end. Errors and panics are
// confined to the item: the loop keeps consuming.
func (p *IngestionPipeline) handleEvent(event domain.FileEvent) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic processing %s: %v", event.Path, r)
		}
	}()

	if event.Type.IsRemoval() {
		p.deliver(domain.NewDeletionResult(event.Path))
		return
	}

	result, err := p.processPath(context.Background(), event.Path, event.Type)
	if err != nil {
		logger.Error("Failed to process %s: %v", event.Path, err)
		return
	}

	p.deliver(result)
}

// processPath reads, processes, chunks and embeds one file.
func (p *IngestionPipeline) processPath(ctx context.Context, path string, eventType domain.FileEventType) (*domain.PipelineResult, error) {
	doc, err := p.processor.Process(path)
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", path, err)
	}

	return domain.NewProcessingResult(doc, p.embedChunks(ctx, doc), eventType), nil
}

// embedChunks chunks the processed content and embeds every chunk.
// Embedding never fails as a whole: provider failures surface as zero
// vectors, so a flaky provider degrades results instead of losing them.
func (p *IngestionPipeline) embedChunks(ctx context.Context, doc *domain.ProcessedDocument) []domain.EmbeddedChunk {
	chunks := p.chunker.Chunk(doc.ProcessedContent, doc.ID)

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	embeddings := p.embedder.EmbedBatch(ctx, texts)

	embedded := make([]domain.EmbeddedChunk, len(chunks))
	for i, chunk := range chunks {
		embedded[i] = domain.EmbeddedChunk{
			Chunk:          chunk,
			Embedding:      embeddings[i].Vector,
			EmbeddingModel: embeddings[i].Model,
			EmbeddedAt:     embeddings[i].CreatedAt,
		}
	}
	return embedded
}

// deliver hands a result to the callback. Callback failures are logged
// and never propagated into the processing loop.
func (p *IngestionPipeline) deliver(result *domain.PipelineResult) {
	p.mu.Lock()
	callback := p.callback
	p.mu.Unlock()

	if callback == nil {
		return
	}
	if err := callback(result); err != nil {
		logger.Error("Pipeline callback failed for %s: %v", result.FilePath, err)
	}
}
