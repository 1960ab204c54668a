package report

import (
	"errors"
	"fmt"
)

// Document-level input errors. These block analysis of the document; they
// are distinct from a valid analysis that happened to find nothing.
var (
	// ErrEmptyText is returned when the raw OCR text is missing or blank.
	ErrEmptyText = errors.New("raw text is empty")

	// ErrConfidenceTooLow is returned when the OCR confidence is below the
	// hard floor and extraction is not attempted at all.
	ErrConfidenceTooLow = errors.New("OCR confidence below hard floor")
)

// UpstreamError wraps a failure of the OCR collaborator. The analyzer
// propagates it rather than fabricating an empty analysis.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("report: upstream OCR failure: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// AnalysisError wraps errors with context about the failed analysis.
type AnalysisError struct {
	// Op is the operation that failed (e.g., "Analyze").
	Op string

	// DocumentID identifies the document whose analysis failed.
	DocumentID string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *AnalysisError) Error() string {
	if e.DocumentID != "" {
		return fmt.Sprintf("report: %s failed for document %s: %v", e.Op, e.DocumentID, e.Err)
	}
	return fmt.Sprintf("report: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *AnalysisError) Is(target error) bool {
	return errors.Is(e.Err, target)
}
