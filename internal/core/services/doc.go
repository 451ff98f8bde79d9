// Package services implements the driving port interfaces.
// The ingestion pipeline lives here: it consumes file events and
// orchestrates calls to the driven ports (watcher, embedding, storage).
//
// Services are pure Go with no CGO or external dependencies.
package services
