// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/lossmix/internal/backend/cpu"
	"github.com/born-ml/lossmix/internal/parallel"
	"github.com/born-ml/lossmix/tensor"
)

// Backend represents the CPU backend implementation.
//
// Same-shape element-wise work runs on gonum kernels; broadcasting loops
// are split across goroutines when large enough.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// Option configures a Backend.
type Option = internalcpu.Option

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/born-ml/lossmix/backend/cpu"
//	    "github.com/born-ml/lossmix/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x, _ := tensor.Zeros(tensor.Shape{2, 3}, backend)
//	}
func New(opts ...Option) *Backend {
	return internalcpu.New(opts...)
}

// Sequential keeps every kernel on the calling goroutine.
func Sequential() Option {
	return internalcpu.WithParallel(parallel.Sequential())
}
