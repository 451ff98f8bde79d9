// Package domain defines the core business entities for the zk-rag
// ingestion pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ProcessedDocument: A markdown document after parsing and cleaning
//   - Chunk / EmbeddedChunk: Size-bounded slices of a document, the unit
//     of embedding
//   - FileEvent: A change observed by a source watcher
//   - PipelineResult: The outcome handed to the storage callback
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
