// Package connectors provides implementations of the SourceWatcher
// interface for document sources. Each connector knows how to observe a
// specific source type; the filesystem connector watches a local
// directory tree.
package connectors
