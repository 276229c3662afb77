package tensor

import "fmt"

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice(data []float64, shape Shape, b Backend) (*Tensor, error) {
	if b == nil {
		return nil, ErrNoBackend
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("%w: shape %v requires %d elements, but got %d",
			ErrInvalidShape, shape, shape.NumElements(), len(data))
	}

	buf := make([]float64, len(data))
	copy(buf, data)
	return New(shape, buf, b), nil
}

// MustFromSlice is FromSlice for literals known to be well formed.
// Panics on error.
func MustFromSlice(data []float64, shape Shape, b Backend) *Tensor {
	t, err := FromSlice(data, shape, b)
	if err != nil {
		panic(err)
	}
	return t
}

// Scalar creates a 0-D tensor holding v.
func Scalar(v float64, b Backend) *Tensor {
	return New(Shape{}, []float64{v}, b)
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape, b Backend) (*Tensor, error) {
	return Full(shape, 0, b)
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float64, b Backend) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	data := make([]float64, shape.NumElements())
	if value != 0 {
		for i := range data {
			data[i] = value
		}
	}
	return New(shape, data, b), nil
}
