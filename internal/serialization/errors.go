package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrOffsetOverlap     = errors.New("tensor offsets overlap")
	ErrOutOfBounds       = errors.New("tensor extends beyond data section")
	ErrNegativeOffset    = errors.New("negative offset or size")
	ErrTooManyTensors    = errors.New("too many tensors in file")
	ErrTensorNameTooLong = errors.New("tensor name too long")
	ErrInvalidTensorName = errors.New("invalid tensor name")
	ErrHeaderTooLarge    = errors.New("header exceeds maximum size")
	ErrUnsupportedDType  = errors.New("unsupported dtype")
	ErrSizeMismatch      = errors.New("tensor byte size does not match its shape")
	ErrUnlabeledTensor   = errors.New("tensor is neither a label nor a prediction")
)

// HeaderError reports a header entry the reader refuses to trust.
type HeaderError struct {
	Tensor string // Empty for errors about the header as a whole
	Detail string
	Err    error // Matching sentinel
}

func (e *HeaderError) Error() string {
	if e.Tensor == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Detail)
	}
	return fmt.Sprintf("tensor %q: %v: %s", e.Tensor, e.Err, e.Detail)
}

// Unwrap returns the sentinel for errors.Is.
func (e *HeaderError) Unwrap() error {
	return e.Err
}
