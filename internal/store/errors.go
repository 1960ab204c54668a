package store

import "errors"

var (
	// ErrNotFound is returned when no record exists for a document ID.
	ErrNotFound = errors.New("document not found")

	// ErrMissingDocumentID is returned when saving a record without an ID.
	ErrMissingDocumentID = errors.New("document ID is required")

	// ErrReprocessInFlight is returned when a reprocess is requested while
	// one is already running for the same document. Rejected, not queued.
	ErrReprocessInFlight = errors.New("reprocess already in flight for document")
)
