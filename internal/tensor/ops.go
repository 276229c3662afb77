package tensor

// Add performs element-wise addition with broadcasting.
//
// Example:
//
//	a, _ := tensor.Full(Shape{3, 1}, 1, backend)
//	b, _ := tensor.Full(Shape{3, 5}, 1, backend)
//	c, _ := a.Add(b) // Shape: [3, 5] (broadcasted)
func (t *Tensor) Add(other *Tensor) (*Tensor, error) {
	if t.backend == nil {
		return nil, ErrNoBackend
	}
	return t.backend.Add(t, other)
}

// Sub performs element-wise subtraction with broadcasting.
func (t *Tensor) Sub(other *Tensor) (*Tensor, error) {
	if t.backend == nil {
		return nil, ErrNoBackend
	}
	return t.backend.Sub(t, other)
}

// Mul performs element-wise multiplication with broadcasting.
func (t *Tensor) Mul(other *Tensor) (*Tensor, error) {
	if t.backend == nil {
		return nil, ErrNoBackend
	}
	return t.backend.Mul(t, other)
}

// Div performs element-wise division with broadcasting.
func (t *Tensor) Div(other *Tensor) (*Tensor, error) {
	if t.backend == nil {
		return nil, ErrNoBackend
	}
	return t.backend.Div(t, other)
}

// MulScalar multiplies every element by s.
func (t *Tensor) MulScalar(s float64) *Tensor {
	return t.backend.MulScalar(t, s)
}

// AddScalar adds s to every element.
func (t *Tensor) AddScalar(s float64) *Tensor {
	return t.backend.AddScalar(t, s)
}

// Abs returns |t| element-wise.
func (t *Tensor) Abs() *Tensor {
	return t.backend.Abs(t)
}

// Exp returns e^t element-wise.
func (t *Tensor) Exp() *Tensor {
	return t.backend.Exp(t)
}

// Log returns the natural logarithm element-wise.
func (t *Tensor) Log() *Tensor {
	return t.backend.Log(t)
}

// Sum reduces all elements to a float64.
func (t *Tensor) Sum() float64 {
	return t.backend.Sum(t)
}

// Mean reduces all elements to their average. The mean of an empty
// tensor is 0.
func (t *Tensor) Mean() float64 {
	return t.backend.Mean(t)
}

// LogSumExp reduces the last dimension in a numerically stable way.
func (t *Tensor) LogSumExp() *Tensor {
	return t.backend.LogSumExp(t)
}

// Sum adds tensors together with broadcasting, left to right.
// It is the n-ary form of Add used to combine component losses.
//
// Returns ErrInvalidShape if no tensors are given.
func Sum(tensors ...*Tensor) (*Tensor, error) {
	if len(tensors) == 0 {
		return nil, ErrInvalidShape
	}
	acc := tensors[0]
	for _, t := range tensors[1:] {
		next, err := acc.Add(t)
		if err != nil {
			return nil, err
		}
		acc = next
	}
	return acc, nil
}
