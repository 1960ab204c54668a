// Package store defines the document store boundary the analysis core
// depends on, plus an in-memory implementation.
//
// The core needs three things from a store: persist an analysis keyed by its
// document, fetch it back, and list a patient's analyses ordered by capture
// time. It additionally relies on the store for the one exclusivity
// guarantee of the system: at most one reprocess in flight per document, so
// a partially built replacement analysis is never observed.
package store

import (
	"context"
	"time"

	"medscan/pkg/models"
)

// StoredDocument is a document record: the raw OCR text it was analyzed
// from, kept so a reprocess can re-run the pipeline without re-OCRing, plus
// the current analysis.
type StoredDocument struct {
	DocumentID string    `json:"document_id"`
	PatientID  string    `json:"patient_id"`
	CapturedAt time.Time `json:"captured_at"`

	RawText       string  `json:"raw_text"`
	OCRConfidence float32 `json:"ocr_confidence"`

	Analysis *models.ReportAnalysis `json:"analysis,omitempty"`
}

// ReprocessFunc re-runs analysis from a document's stored raw text. The
// store calls it while holding the document's reprocess slot and replaces
// the prior analysis wholesale with its result.
type ReprocessFunc func(doc StoredDocument) (*models.ReportAnalysis, error)

// DocumentStore persists and retrieves report analyses.
type DocumentStore interface {
	// Save stores a document and its analysis, replacing any prior record
	// for the same document ID.
	Save(ctx context.Context, doc StoredDocument) error

	// Get returns the record for a document ID, or ErrNotFound.
	Get(ctx context.Context, documentID string) (StoredDocument, error)

	// ListByPatient returns all of a patient's analyses ordered by capture
	// time, oldest first. The returned slice is the caller's snapshot.
	ListByPatient(ctx context.Context, patientID string) ([]models.ReportAnalysis, error)

	// Reprocess re-runs analysis for one document from its stored raw text
	// and atomically replaces the prior analysis. A reprocess already in
	// flight for the same document is rejected with ErrReprocessInFlight,
	// not queued.
	Reprocess(ctx context.Context, documentID string, fn ReprocessFunc) (*models.ReportAnalysis, error)
}
