// Package ocr is the boundary to the OCR collaborator: it turns scanned or
// photographed medical documents into raw text plus a confidence score.
//
// Two backends are provided, both Google Cloud based: Vision API document
// text detection and Document AI text extraction. MEDSCAN_OCR_BACKEND
// selects between them ("vision" is the default, "documentai" the
// alternative).
//
// Required Environment Variables:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//   - GOOGLE_CLOUD_PROJECT: Google Cloud project ID (Document AI backend)
//
// Backend Limitations:
//   - Maximum file size: 20MB for synchronous processing
//   - Vision API: maximum 5 pages per PDF synchronously
//   - Supported formats: PDF, TIFF
//
// The analysis core never talks to these APIs directly; it consumes the
// Service interface and treats any failure as an unreadable document to be
// propagated, never swallowed.
package ocr

import (
	"context"
	"io"
	"time"
)

// Service is the OCR collaborator contract the analysis core depends on.
type Service interface {
	// ProcessDocument extracts text from a scanned document.
	// Returns the text with a confidence score and processing metadata.
	ProcessDocument(ctx context.Context, data io.Reader) (*Result, error)
}

// Result is the OCR collaborator's output for one document.
type Result struct {
	// Text is the extracted text from all pages, in reading order.
	Text string `json:"text"`

	// Confidence is the average detection confidence (0.0 to 1.0).
	Confidence float32 `json:"confidence"`

	// PageCount is the number of pages processed.
	PageCount int `json:"page_count"`

	// LanguageCodes contains the languages detected in the document.
	LanguageCodes []string `json:"language_codes,omitempty"`

	// ProcessedAt is when OCR processing completed.
	ProcessedAt time.Time `json:"processed_at"`

	// ProcessingDuration is how long OCR processing took.
	ProcessingDuration time.Duration `json:"processing_duration"`
}
