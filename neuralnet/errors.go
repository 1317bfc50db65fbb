package neuralnet

import (
	"errors"
	"fmt"
)

// Error kinds. An error that reports a bad shape, a NaN or a model that
// cannot be retrieved or parsed matches exactly one of them through
// errors.Is. Write failures from Save match none.
var (
	ErrShape    = errors.New("shape mismatch")
	ErrNumeric  = errors.New("not-a-number")
	ErrNotFound = errors.New("not found")
)

// ShapeError reports mismatched vector or matrix dimensions.
type ShapeError struct {
	Op   string // operation that detected the mismatch
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s: want %d, got %d", e.Op, ErrShape, e.Want, e.Got)
}

func (e *ShapeError) Unwrap() error { return ErrShape }

// NumericError reports a NaN found in an input, weight, bias, sum or
// mutation result.
type NumericError struct {
	Op     string
	Detail string
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, ErrNumeric, e.Detail)
}

func (e *NumericError) Unwrap() error { return ErrNumeric }

// NotFoundError reports a model that could not be retrieved or parsed.
// URI is empty when the payload came from FromJSON.
type NotFoundError struct {
	URI string
	Err error
}

func (e *NotFoundError) Error() string {
	if e.URI == "" {
		return fmt.Sprintf("model %s: %v", ErrNotFound, e.Err)
	}
	if e.Err == nil {
		return fmt.Sprintf("model %s at %q", ErrNotFound, e.URI)
	}
	return fmt.Sprintf("model %s at %q: %v", ErrNotFound, e.URI, e.Err)
}

func (e *NotFoundError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNotFound}
	}
	return []error{ErrNotFound, e.Err}
}

func shapeError(op string, want, got int) error {
	return &ShapeError{Op: op, Want: want, Got: got}
}

func numericError(op, format string, args ...interface{}) error {
	return &NumericError{Op: op, Detail: fmt.Sprintf(format, args...)}
}
