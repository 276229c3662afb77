// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - gonum floats kernels for same-shape arithmetic and reductions
//   - NumPy-compatible broadcasting
//   - Stable row-wise log-sum-exp for cross-entropy
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/lossmix/backend/cpu"
//	    "github.com/born-ml/lossmix/loss"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    mse := loss.NewMSE(backend)
//	    // ...
//	}
package cpu
