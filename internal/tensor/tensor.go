package tensor

import "fmt"

// Tensor is a dense, row-major float64 tensor bound to a compute backend.
//
// Tensors handed to losses are borrowed: losses read them for the duration
// of a call and never keep references or write through Data.
//
// Example:
//
//	backend := cpu.New()
//	t, _ := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
//	sum, _ := t.Add(t)
type Tensor struct {
	shape   Shape
	data    []float64
	backend Backend
}

// New wraps data without copying it. It is intended for backends, which
// own freshly allocated result buffers.
//
// Panics if len(data) does not match the shape.
func New(shape Shape, data []float64, b Backend) *Tensor {
	if shape.NumElements() != len(data) {
		panic(fmt.Sprintf("tensor.New: shape %v requires %d elements, got %d", shape, shape.NumElements(), len(data)))
	}
	return &Tensor{
		shape:   shape.Clone(),
		data:    data,
		backend: b,
	}
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// Backend returns the computation backend.
func (t *Tensor) Backend() Backend {
	return t.backend
}

// Data returns the tensor's underlying storage (zero-copy).
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor) Data() []float64 {
	return t.data
}

// Item returns the value of a single-element tensor.
// Panics if the tensor holds more than one element.
func (t *Tensor) Item() float64 {
	if len(t.data) != 1 {
		panic(fmt.Sprintf("Item() only works for single-element tensors, got shape %v", t.shape))
	}
	return t.data[0]
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
//
// Example:
//
//	value := t.At(1, 2) // Row 1, column 2
func (t *Tensor) At(indices ...int) float64 {
	return t.data[t.offset(indices)]
}

func (t *Tensor) offset(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(t.shape), len(indices)))
	}

	offset := 0
	strides := t.shape.ComputeStrides()
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, t.shape[i]))
		}
		offset += idx * strides[i]
	}
	return offset
}

// Clone creates a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	data := make([]float64, len(t.data))
	copy(data, t.data)
	return New(t.shape, data, t.backend)
}

// Reshape returns a tensor sharing no storage with t and holding the same
// elements in newShape.
func (t *Tensor) Reshape(newShape ...int) (*Tensor, error) {
	s := Shape(newShape)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.NumElements() != len(t.data) {
		return nil, &ShapeError{Op: "reshape", Left: t.shape, Right: s, Detail: "element count differs"}
	}
	c := t.Clone()
	c.shape = s.Clone()
	return c, nil
}

// String returns a human-readable representation of the tensor.
func (t *Tensor) String() string {
	name := "none"
	if t.backend != nil {
		name = t.backend.Name()
	}
	return fmt.Sprintf("Tensor[float64]%v on %s", t.shape, name)
}
