package refrange

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange is returned when a range entry fails validation,
	// e.g. its low bound exceeds its high bound.
	ErrInvalidRange = errors.New("invalid reference range")

	// ErrInvalidRangeFile is returned when a ranges file cannot be parsed.
	ErrInvalidRangeFile = errors.New("invalid reference range file")
)

// RangeError wraps errors with context about range table loading failures.
type RangeError struct {
	// Op is the operation that failed (e.g., "Load").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("refrange: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("refrange: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *RangeError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *RangeError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapRangeError wraps an error as a RangeError if it isn't already one.
func WrapRangeError(op string, err error, details string) error {
	if err == nil {
		return nil
	}
	var re *RangeError
	if errors.As(err, &re) {
		return err
	}
	return &RangeError{Op: op, Err: err, Details: details}
}
