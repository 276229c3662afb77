// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public tensor types used by lossmix.
//
// Labels and predictions travel as a List: an ordered collection of named
// float64 tensors. Routers pick entries by position or name, split columns
// and mask rows without copying data.
//
// Example:
//
//	backend := cpu.New()
//	labels := tensor.NewList(tensor.MustFromSlice([]float64{1, 0}, tensor.Shape{1, 2}, backend))
//	_ = labels.AppendNamed("object", tensor.MustFromSlice([]float64{1}, tensor.Shape{1}, backend))
//	fmt.Println(labels) // List{0:[1 2], object:[1]}
package tensor
