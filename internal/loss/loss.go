package loss

import (
	"github.com/born-ml/lossmix/internal/tensor"
)

// Loss is the capability set shared by leaf losses and composites.
//
// Implementations must keep Evaluate free of side effects: Update is the
// only method that advances the running statistic, and Reset the only one
// that clears it. Implementations are not safe for concurrent Update or
// Reset; a single training loop is expected to drive each instance.
type Loss interface {
	// Name returns the display name. Names need not be unique.
	Name() string

	// Evaluate computes the scalar training objective for one batch.
	// labels and predictions are borrowed for the duration of the call.
	Evaluate(labels, predictions *tensor.List) (*tensor.Tensor, error)

	// Update folds one batch into the running statistic.
	Update(labels, predictions *tensor.List) error

	// Reset clears the running statistic to its initial state.
	Reset()

	// Value returns the running statistic; 0 after construction or Reset.
	Value() float64

	// Duplicate returns an independent loss with the same configuration and
	// a clean running statistic. It shares no mutable state with the source.
	Duplicate() (Loss, error)
}

// Stateful is implemented by losses that can tell whether their running
// statistic has seen an Update since construction or the last Reset.
type Stateful interface {
	Accumulating() bool
}

// IsAccumulating reports whether l has been updated since it was created
// or last reset. Losses that do not implement Stateful are judged by a
// non-zero Value.
func IsAccumulating(l Loss) bool {
	if s, ok := l.(Stateful); ok {
		return s.Accumulating()
	}
	return l.Value() != 0
}

// Option configures a leaf loss.
type Option func(*options)

type options struct {
	name string
}

// WithName overrides the default display name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

func applyOptions(defaultName string, opts []Option) options {
	o := options{name: defaultName}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
