package domain

// PipelineResult is the outcome of one pipeline pass. It is a tagged
// union: a processing result carries a document and its embedded chunks,
// a deletion result carries only the removed path. Never both.
type PipelineResult struct {
	// Document is the processed document. Nil for deletion results.
	Document *ProcessedDocument

	// Chunks are the embedded chunks of Document, in index order.
	// Nil for deletion results.
	Chunks []EmbeddedChunk

	// FilePath is the path the result refers to. For processing results
	// it mirrors Document.Metadata.File.Path.
	FilePath string

	// EventType is the event that triggered this pass.
	EventType FileEventType
}

// NewProcessingResult builds the processing variant of a pipeline result.
func NewProcessingResult(doc *ProcessedDocument, chunks []EmbeddedChunk, eventType FileEventType) *PipelineResult {
	return &PipelineResult{
		Document:  doc,
		Chunks:    chunks,
		FilePath:  doc.Metadata.File.Path,
		EventType: eventType,
	}
}

// NewDeletionResult builds the deletion variant of a pipeline result.
func NewDeletionResult(path string) *PipelineResult {
	return &PipelineResult{
		FilePath:  path,
		EventType: FileDeleted,
	}
}

// IsDeletion reports whether this is the deletion variant.
func (r *PipelineResult) IsDeletion() bool {
	return r.EventType == FileDeleted
}

// PipelineCallback receives finished pipeline results. Callback errors
// are logged by the pipeline and never propagated to the processing loop.
type PipelineCallback func(result *PipelineResult) error

// PipelineStatus is a point-in-time snapshot of the pipeline. It is
// recomputed on demand and never stored.
type PipelineStatus struct {
	IsRunning      bool
	WatchDirectory string
	QueueDepth     int
	ChunkSize      int
	ChunkOverlap   int
}
