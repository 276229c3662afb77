package cpu

import (
	"github.com/born-ml/lossmix/internal/parallel"
	"github.com/born-ml/lossmix/internal/tensor"
)

// broadcastStrides returns strides of src aligned to outShape, with zero
// stride on broadcast dimensions.
func broadcastStrides(src, outShape tensor.Shape) []int {
	strides := make([]int, len(outShape))
	srcStrides := src.ComputeStrides()
	offset := len(outShape) - len(src)
	for i := range outShape {
		j := i - offset
		if j < 0 || src[j] == 1 {
			continue
		}
		strides[i] = srcStrides[j]
	}
	return strides
}

// broadcast fills out[i] = fn(a[ia], b[ib]) for every output index.
func (cpu *CPUBackend) broadcast(
	out []float64,
	outShape tensor.Shape,
	a, b *tensor.Tensor,
	fn func(x, y float64) float64,
) {
	aData, bData := a.Data(), b.Data()
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)
	outStrides := outShape.ComputeStrides()

	parallel.For(len(out), func(i int) {
		ia, ib := 0, 0
		rem := i
		for d, s := range outStrides {
			idx := rem / s
			rem %= s
			ia += idx * aStrides[d]
			ib += idx * bStrides[d]
		}
		out[i] = fn(aData[ia], bData[ib])
	}, cpu.parallel)
}
