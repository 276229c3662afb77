package loss

import (
	"errors"
	"fmt"

	"github.com/born-ml/lossmix/internal/tensor"
)

// Composite combines component losses into one.
//
// For each component, in index order, the Router picks the labels and
// predictions it receives. Evaluate adds the component results with the
// tensor backend, Value adds the component running values, and Update and
// Reset fan out to every component. A Composite is itself a Loss and can be
// a component of another Composite.
//
// Example:
//
//	detector := loss.NewComposite("detector", loss.SplitColumns(),
//	    loss.NewMSE(backend, loss.WithName("box")),
//	    loss.NewBinaryCrossEntropy(backend, false, loss.WithName("objectness")),
//	)
//
// A Composite defines no locking: Update and Reset must be serialized by
// the caller, and Evaluate may only run concurrently with other Evaluate
// calls. Use Duplicate to get an independent instance per replica.
type Composite struct {
	name       string
	components []Loss
	router     Router
}

// NewComposite creates a composite loss. A nil router means Passthrough.
// Components can also be added later with Add, before first use.
func NewComposite(name string, router Router, components ...Loss) *Composite {
	if router == nil {
		router = Passthrough()
	}
	return &Composite{
		name:       name,
		components: append([]Loss(nil), components...),
		router:     router,
	}
}

// Add appends a component.
//
// This allows building composites incrementally:
//
//	c := loss.NewComposite("heads", loss.SelectIndex([]int{0}, []int{1}))
//	c.Add(loss.NewMSE(backend))
//	c.Add(loss.NewL1(backend))
func (c *Composite) Add(component Loss) *Composite {
	c.components = append(c.components, component)
	return c
}

// Name returns the display name.
func (c *Composite) Name() string {
	return c.name
}

// Len returns the number of components.
func (c *Composite) Len() int {
	return len(c.components)
}

// Components returns the components in order. The slice is a copy; the
// losses are not.
func (c *Composite) Components() []Loss {
	return append([]Loss(nil), c.components...)
}

// Router returns the routing policy.
func (c *Composite) Router() Router {
	return c.router
}

// visitFunc receives one component together with its routed inputs.
type visitFunc func(i int, component Loss, labels, predictions *tensor.List) error

// forEachComponent routes the global inputs to each component in index
// order and hands the result to visit. It stops at the first error.
// Evaluate and Update share it; only the visitor decides whether the call
// is pure.
func (c *Composite) forEachComponent(op string, labels, predictions *tensor.List, visit visitFunc) error {
	n := len(c.components)
	if n == 0 {
		return fmt.Errorf("%s: %w", c.name, ErrEmptyComposition)
	}
	for i := 0; i < n; i++ {
		component := c.components[i]
		l, p, err := c.router.Route(i, labels, predictions)
		if err != nil {
			return &ComponentError{Composite: c.name, Index: i, Op: op, Err: err}
		}
		if err := visit(i, component, l, p); err != nil {
			return &ComponentError{Composite: c.name, Index: i, Component: component.Name(), Op: op, Err: err}
		}
	}
	return nil
}

// Evaluate returns the sum of the component losses, each computed on its
// routed inputs. It does not touch any running statistic.
//
// Component results are added with broadcasting; results that cannot be
// added yield ErrShapeMismatch.
func (c *Composite) Evaluate(labels, predictions *tensor.List) (*tensor.Tensor, error) {
	parts := make([]*tensor.Tensor, len(c.components))
	err := c.forEachComponent("evaluate", labels, predictions, func(i int, component Loss, l, p *tensor.List) error {
		v, err := component.Evaluate(l, p)
		if err == nil && v == nil {
			err = fmt.Errorf("%T returned no result", component)
		}
		if err != nil {
			return err
		}
		parts[i] = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	total, err := tensor.Sum(parts...)
	if err != nil {
		return nil, fmt.Errorf("%s: combining component losses: %w", c.name, err)
	}
	return total, nil
}

// Update advances every component's running statistic, in index order.
//
// If component k fails, components after k are not updated for this call;
// components before k keep their update.
func (c *Composite) Update(labels, predictions *tensor.List) error {
	return c.forEachComponent("update", labels, predictions, func(_ int, component Loss, l, p *tensor.List) error {
		return component.Update(l, p)
	})
}

// Reset clears every component's running statistic, in index order.
func (c *Composite) Reset() {
	for _, component := range c.components {
		component.Reset()
	}
}

// Value returns the sum of the component running values.
func (c *Composite) Value() float64 {
	var total float64
	for _, component := range c.components {
		total += component.Value()
	}
	return total
}

// Accumulating reports whether any component has been updated since the
// last reset.
func (c *Composite) Accumulating() bool {
	for _, component := range c.components {
		if IsAccumulating(component) {
			return true
		}
	}
	return false
}

// Duplicate returns a composite with the same name and routing policy whose
// components are duplicates of this one's. Running statistics of the copy
// start clean.
//
// If any component (or a stateful router) cannot be duplicated, Duplicate
// returns an error matching ErrDuplicationUnsupported and no copy.
func (c *Composite) Duplicate() (Loss, error) {
	if len(c.components) == 0 {
		return nil, fmt.Errorf("%s: %w", c.name, ErrEmptyComposition)
	}

	components := make([]Loss, len(c.components))
	for i, component := range c.components {
		dup, err := component.Duplicate()
		if err == nil && dup == nil {
			err = fmt.Errorf("%T returned no copy", component)
		}
		if err != nil {
			return nil, &ComponentError{
				Composite: c.name,
				Index:     i,
				Component: component.Name(),
				Op:        "duplicate",
				Err:       duplicationErr(err),
			}
		}
		components[i] = dup
	}

	router := c.router
	if d, ok := router.(DuplicableRouter); ok {
		r, err := d.Duplicate()
		if err == nil && r == nil {
			err = fmt.Errorf("%T returned no copy", router)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: router: %w", c.name, duplicationErr(err))
		}
		router = r
	}

	return &Composite{
		name:       c.name,
		components: components,
		router:     router,
	}, nil
}

func duplicationErr(err error) error {
	if errors.Is(err, ErrDuplicationUnsupported) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrDuplicationUnsupported, err)
}
