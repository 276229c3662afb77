// Package cpu implements the CPU backend on gonum's float64 kernels.
package cpu

import (
	"github.com/born-ml/lossmix/internal/parallel"
	"github.com/born-ml/lossmix/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
//
// Same-shape operations go straight to gonum/floats; broadcasting loops
// are split across goroutines by internal/parallel once they are large
// enough to pay for it.
type CPUBackend struct {
	parallel parallel.Config
}

// Option configures a CPUBackend.
type Option func(*CPUBackend)

// WithParallel overrides the parallel execution settings.
func WithParallel(cfg parallel.Config) Option {
	return func(b *CPUBackend) {
		b.parallel = cfg
	}
}

// New creates a new CPU backend.
func New(opts ...Option) *CPUBackend {
	b := &CPUBackend{
		parallel: parallel.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

var _ tensor.Backend = (*CPUBackend)(nil)
