// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the source watcher, the embedding provider,
// the repository content fetcher and the storage collaborator.
//
// Implementations live in internal/adapters/driven and
// internal/connectors.
package driven
