package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Input errors: recovered locally, the offending item is skipped.

	// ErrFileUnreadable indicates a document path could not be read.
	ErrFileUnreadable = errors.New("file unreadable")

	// ErrInvalidEncoding indicates document content is not valid UTF-8.
	ErrInvalidEncoding = errors.New("content is not valid UTF-8")

	// Fatal errors: raised to the caller, the pipeline does not start.

	// ErrWatchDirMissing indicates the watch directory does not exist.
	ErrWatchDirMissing = errors.New("watch directory does not exist")

	// Integrity errors: surfaced to the caller at the trust boundary,
	// never silently recovered.

	// ErrMissingHeaders indicates a webhook request without the required
	// delivery, event or signature headers.
	ErrMissingHeaders = errors.New("missing webhook headers")

	// ErrInvalidSignature indicates the webhook body's HMAC did not match
	// the provided signature.
	ErrInvalidSignature = errors.New("webhook signature mismatch")

	// ErrUnsupportedEvent indicates a webhook event type the handler does
	// not process.
	ErrUnsupportedEvent = errors.New("unsupported webhook event type")
)
