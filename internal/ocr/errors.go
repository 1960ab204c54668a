package ocr

import (
	"errors"
	"fmt"
)

// Common OCR processing errors
var (
	// ErrUnreadableDocument is returned when the document yields no
	// readable text. Callers must propagate this rather than fabricate an
	// empty analysis.
	ErrUnreadableDocument = errors.New("document contains no readable text")

	// ErrDocumentTooLarge is returned when the document exceeds the 20MB
	// synchronous processing limit.
	ErrDocumentTooLarge = errors.New("document exceeds the maximum size limit (20MB)")

	// ErrInvalidDocument is returned when the data is not a valid PDF.
	ErrInvalidDocument = errors.New("invalid or corrupted document")

	// ErrTooManyPages is returned when the PDF exceeds the synchronous page
	// limit (5 pages for the Vision backend).
	ErrTooManyPages = errors.New("document has too many pages for synchronous processing")

	// ErrOCRFailed is returned when the backend API fails to process the
	// document.
	ErrOCRFailed = errors.New("OCR processing failed")

	// ErrMissingCredentials is returned when neither
	// GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrContextCanceled is returned when the context is canceled during
	// processing.
	ErrContextCanceled = errors.New("OCR processing was canceled")
)

// OCRError wraps errors with additional context about the OCR failure.
type OCRError struct {
	// Op is the operation that failed (e.g., "ProcessDocument").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *OCRError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *OCRError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *OCRError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapOCRError wraps an error as an OCRError if it isn't already one.
func WrapOCRError(op string, err error, details string) error {
	if err == nil {
		return nil
	}
	var ocrErr *OCRError
	if errors.As(err, &ocrErr) {
		return err
	}
	return &OCRError{Op: op, Err: err, Details: details}
}
