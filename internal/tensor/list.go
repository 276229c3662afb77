package tensor

import (
	"fmt"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// List is an ordered collection of named tensors, the unit in which labels
// and predictions travel between a training loop and its losses.
//
// Entries keep insertion order and are reachable both by position and by
// name. Tensors added without a name get their position as name ("0", "1",
// ...). A nil *List behaves like an empty list.
//
// Lists hold references: building a sub-list never copies tensor data.
type List struct {
	entries *orderedmap.OrderedMap[string, *Tensor]
}

// NewList creates a list holding tensors in order, named by position.
func NewList(tensors ...*Tensor) *List {
	l := &List{entries: orderedmap.New[string, *Tensor]()}
	for _, t := range tensors {
		l.Append(t)
	}
	return l
}

// Append adds t under its positional name and returns the name used.
func (l *List) Append(t *Tensor) string {
	l.init()
	name := strconv.Itoa(l.entries.Len())
	for {
		if _, taken := l.entries.Get(name); !taken {
			break
		}
		name = "_" + name
	}
	l.entries.Set(name, t)
	return name
}

// AppendNamed adds t under name. Names are unique within a list.
func (l *List) AppendNamed(name string, t *Tensor) error {
	l.init()
	if _, taken := l.entries.Get(name); taken {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	l.entries.Set(name, t)
	return nil
}

func (l *List) init() {
	if l.entries == nil {
		l.entries = orderedmap.New[string, *Tensor]()
	}
}

// Len returns the number of tensors.
func (l *List) Len() int {
	if l == nil || l.entries == nil {
		return 0
	}
	return l.entries.Len()
}

// At returns the tensor at position i.
func (l *List) At(i int) (*Tensor, error) {
	if i < 0 || i >= l.Len() {
		return nil, fmt.Errorf("%w: position %d in list of %d", ErrIndexOutOfRange, i, l.Len())
	}
	pos := 0
	for pair := l.entries.Oldest(); pair != nil; pair = pair.Next() {
		if pos == i {
			return pair.Value, nil
		}
		pos++
	}
	return nil, fmt.Errorf("%w: position %d", ErrIndexOutOfRange, i)
}

// Get returns the tensor stored under name.
func (l *List) Get(name string) (*Tensor, bool) {
	if l.Len() == 0 {
		return nil, false
	}
	return l.entries.Get(name)
}

// Names returns entry names in order.
func (l *List) Names() []string {
	names := make([]string, 0, l.Len())
	l.each(func(name string, _ *Tensor) {
		names = append(names, name)
	})
	return names
}

// Tensors returns the tensors in order.
func (l *List) Tensors() []*Tensor {
	out := make([]*Tensor, 0, l.Len())
	l.each(func(_ string, t *Tensor) {
		out = append(out, t)
	})
	return out
}

func (l *List) each(fn func(name string, t *Tensor)) {
	if l.Len() == 0 {
		return
	}
	for pair := l.entries.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Select returns a new list with the entries at the given positions, in the
// order given. Names are preserved.
func (l *List) Select(positions ...int) (*List, error) {
	names := l.Names()
	out := NewList()
	for _, p := range positions {
		if p < 0 || p >= len(names) {
			return nil, fmt.Errorf("%w: position %d in list of %d", ErrIndexOutOfRange, p, len(names))
		}
		t, _ := l.entries.Get(names[p])
		if err := out.AppendNamed(names[p], t); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Pick returns a new list with the named entries, in the order given.
func (l *List) Pick(names ...string) (*List, error) {
	out := NewList()
	for _, name := range names {
		t, ok := l.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q (have %s)", ErrNameNotFound, name, strings.Join(l.Names(), ", "))
		}
		if err := out.AppendNamed(name, t); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Without returns a new list lacking the named entry.
func (l *List) Without(name string) *List {
	out := NewList()
	l.each(func(n string, t *Tensor) {
		if n != name {
			out.entries.Set(n, t)
		}
	})
	return out
}

// Map applies fn to every entry and collects the results under the same
// names. The first error aborts the walk.
func (l *List) Map(fn func(name string, t *Tensor) (*Tensor, error)) (*List, error) {
	out := NewList()
	if l.Len() == 0 {
		return out, nil
	}
	for pair := l.entries.Oldest(); pair != nil; pair = pair.Next() {
		mapped, err := fn(pair.Key, pair.Value)
		if err != nil {
			return nil, fmt.Errorf("tensor %q: %w", pair.Key, err)
		}
		out.entries.Set(pair.Key, mapped)
	}
	return out, nil
}

// String lists entry names and shapes.
func (l *List) String() string {
	parts := make([]string, 0, l.Len())
	l.each(func(name string, t *Tensor) {
		parts = append(parts, fmt.Sprintf("%s:%v", name, t.Shape()))
	})
	return "List{" + strings.Join(parts, ", ") + "}"
}
