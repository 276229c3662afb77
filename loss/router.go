// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package loss

import (
	"github.com/born-ml/lossmix/internal/loss"
)

// Passthrough hands every component the full labels and predictions.
func Passthrough() Router {
	return loss.Passthrough()
}

// SelectIndex gives component i the entries at positions indices[i].
// A nil entry passes the full lists.
func SelectIndex(indices ...[]int) Router {
	return loss.SelectIndex(indices...)
}

// SplitColumns gives component i column i of the first label and
// prediction tensors.
func SplitColumns() Router {
	return loss.SplitColumns()
}

// MaskRows keeps the rows where the label entry maskName is non-zero, then
// routes with inner (Passthrough when nil).
func MaskRows(maskName string, inner Router) Router {
	return loss.MaskRows(maskName, inner)
}

// NamedSlots gives component i the entries named by slots[i].
func NamedSlots(slots ...Slot) Router {
	return loss.NamedSlots(slots...)
}

// RouterArity returns the number of components r serves, or -1 for any.
func RouterArity(r Router) int {
	return loss.RouterArity(r)
}
