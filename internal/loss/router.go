package loss

import (
	"fmt"

	"github.com/born-ml/lossmix/internal/tensor"
)

// Router decides which labels and predictions each component of a
// Composite receives.
//
// Route must be deterministic and free of side effects. It may return new
// lists, but those lists reference the caller's tensors (or slices of them)
// and must not be retained after the call.
type Router interface {
	Route(index int, labels, predictions *tensor.List) (*tensor.List, *tensor.List, error)
}

// RouterFunc adapts a plain function to the Router interface.
type RouterFunc func(index int, labels, predictions *tensor.List) (*tensor.List, *tensor.List, error)

// Route calls f.
func (f RouterFunc) Route(index int, labels, predictions *tensor.List) (*tensor.List, *tensor.List, error) {
	return f(index, labels, predictions)
}

// DuplicableRouter is implemented by routers that carry state of their
// own. Composite.Duplicate calls Duplicate on them; other routers are pure
// and shared between a composite and its duplicates.
type DuplicableRouter interface {
	Router
	Duplicate() (Router, error)
}

// Arity is implemented by routers that serve a fixed number of components.
type Arity interface {
	Arity() int
}

// RouterArity returns the number of components r serves, or -1 if it
// serves any number.
func RouterArity(r Router) int {
	if a, ok := r.(Arity); ok {
		return a.Arity()
	}
	return -1
}

func routeErr(index int, err error) error {
	return fmt.Errorf("%w: component %d: %w", ErrRouting, index, err)
}

// Passthrough hands every component the full labels and predictions.
func Passthrough() Router {
	return RouterFunc(func(_ int, labels, predictions *tensor.List) (*tensor.List, *tensor.List, error) {
		return labels, predictions, nil
	})
}

// SelectIndex gives component i the label and prediction entries at
// positions indices[i]. A nil entry passes the full lists, so
//
//	loss.SelectIndex([]int{0}, []int{1}, nil)
//
// routes entry 0 to the first component, entry 1 to the second, and
// everything to the third.
func SelectIndex(indices ...[]int) Router {
	return selectIndex(indices)
}

type selectIndex [][]int

func (s selectIndex) Route(index int, labels, predictions *tensor.List) (*tensor.List, *tensor.List, error) {
	if index < 0 || index >= len(s) {
		return nil, nil, routeErr(index, fmt.Errorf("%w: router has %d entries", tensor.ErrIndexOutOfRange, len(s)))
	}
	if s[index] == nil {
		return labels, predictions, nil
	}
	l, err := labels.Select(s[index]...)
	if err != nil {
		return nil, nil, routeErr(index, fmt.Errorf("labels: %w", err))
	}
	p, err := predictions.Select(s[index]...)
	if err != nil {
		return nil, nil, routeErr(index, fmt.Errorf("predictions: %w", err))
	}
	return l, p, nil
}

func (s selectIndex) Arity() int {
	return len(s)
}

// SplitColumns gives component i column i of the first label tensor and of
// the first prediction tensor, each shaped [batch, 1]. It is the routing of
// a multi-output head whose outputs are packed side by side.
func SplitColumns() Router {
	return splitColumns{}
}

type splitColumns struct{}

func (splitColumns) Route(index int, labels, predictions *tensor.List) (*tensor.List, *tensor.List, error) {
	lt, pt, err := firstPair(labels, predictions)
	if err != nil {
		return nil, nil, routeErr(index, err)
	}
	lc, err := lt.Column(index)
	if err != nil {
		return nil, nil, routeErr(index, fmt.Errorf("labels: %w", err))
	}
	pc, err := pt.Column(index)
	if err != nil {
		return nil, nil, routeErr(index, fmt.Errorf("predictions: %w", err))
	}
	return tensor.NewList(lc), tensor.NewList(pc), nil
}

// MaskRows filters every label and prediction tensor down to the rows
// where the label entry maskName is non-zero, then delegates to inner
// (Passthrough when nil). The mask itself is not forwarded.
//
// Components see only the examples the mask selects, e.g. box regression
// restricted to anchors that contain an object.
func MaskRows(maskName string, inner Router) Router {
	if inner == nil {
		inner = Passthrough()
	}
	return maskRows{mask: maskName, inner: inner}
}

type maskRows struct {
	mask  string
	inner Router
}

func (m maskRows) Route(index int, labels, predictions *tensor.List) (*tensor.List, *tensor.List, error) {
	mask, ok := labels.Get(m.mask)
	if !ok {
		return nil, nil, routeErr(index, fmt.Errorf("%w: mask %q", ErrMissingInput, m.mask))
	}
	filter := func(_ string, t *tensor.Tensor) (*tensor.Tensor, error) {
		return t.SelectRows(mask)
	}
	l, err := labels.Without(m.mask).Map(filter)
	if err != nil {
		return nil, nil, routeErr(index, fmt.Errorf("labels: %w", err))
	}
	p, err := predictions.Map(filter)
	if err != nil {
		return nil, nil, routeErr(index, fmt.Errorf("predictions: %w", err))
	}
	return m.inner.Route(index, l, p)
}

func (m maskRows) Arity() int {
	return RouterArity(m.inner)
}

// Duplicate duplicates the inner router when it carries state.
func (m maskRows) Duplicate() (Router, error) {
	d, ok := m.inner.(DuplicableRouter)
	if !ok {
		return m, nil
	}
	inner, err := d.Duplicate()
	if err != nil {
		return nil, err
	}
	return maskRows{mask: m.mask, inner: inner}, nil
}

// Slot names the label and prediction entries one component consumes.
type Slot struct {
	Labels      []string
	Predictions []string
}

// NamedSlots gives component i the entries named by slots[i], in the order
// listed.
func NamedSlots(slots ...Slot) Router {
	return namedSlots(slots)
}

type namedSlots []Slot

func (n namedSlots) Route(index int, labels, predictions *tensor.List) (*tensor.List, *tensor.List, error) {
	if index < 0 || index >= len(n) {
		return nil, nil, routeErr(index, fmt.Errorf("%w: router has %d slots", tensor.ErrIndexOutOfRange, len(n)))
	}
	l, err := labels.Pick(n[index].Labels...)
	if err != nil {
		return nil, nil, routeErr(index, fmt.Errorf("labels: %w", err))
	}
	p, err := predictions.Pick(n[index].Predictions...)
	if err != nil {
		return nil, nil, routeErr(index, fmt.Errorf("predictions: %w", err))
	}
	return l, p, nil
}

func (n namedSlots) Arity() int {
	return len(n)
}
