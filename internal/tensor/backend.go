package tensor

// Backend defines the interface that compute backends must implement.
// Backends handle the actual arithmetic for tensor operations; losses and
// composites only ever talk to a Backend through Tensor methods.
//
// Binary operations follow NumPy broadcasting and return a *ShapeError
// when the operands cannot be combined.
//
// Implementations:
//   - CPU: Pure Go on gonum kernels (internal/backend/cpu)
type Backend interface {
	// Element-wise binary operations (broadcasting)
	Add(a, b *Tensor) (*Tensor, error)
	Sub(a, b *Tensor) (*Tensor, error)
	Mul(a, b *Tensor) (*Tensor, error)
	Div(a, b *Tensor) (*Tensor, error)

	// Scalar and element-wise unary operations
	MulScalar(x *Tensor, scalar float64) *Tensor
	AddScalar(x *Tensor, scalar float64) *Tensor
	Abs(x *Tensor) *Tensor
	Exp(x *Tensor) *Tensor
	Log(x *Tensor) *Tensor

	// Reductions
	Sum(x *Tensor) float64
	Mean(x *Tensor) float64

	// LogSumExp reduces the last dimension with the log-sum-exp trick.
	// A [batch, classes] input yields a [batch] result.
	LogSumExp(x *Tensor) *Tensor

	// Metadata
	Name() string
}
