// Package config describes composite losses in YAML and builds them.
//
// A document is one loss node. Leaves name a built-in loss type; composite
// nodes carry a router and their components, which may themselves be
// composites:
//
//	name: detector
//	router: {type: split_columns}
//	components:
//	  - {type: mse, name: box}
//	  - {type: bce, name: objectness, weight: 0.5}
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/lossmix/internal/loss"
)

// Loss types.
const (
	TypeComposite           = "composite"
	TypeMSE                 = "mse"
	TypeL1                  = "l1"
	TypeHuber               = "huber"
	TypeBCE                 = "bce"
	TypeSoftmaxCrossEntropy = "softmax_cross_entropy"
)

// Router types.
const (
	RouterPassthrough  = "passthrough"
	RouterSelectIndex  = "select_index"
	RouterSplitColumns = "split_columns"
	RouterMaskRows     = "mask_rows"
	RouterNamedSlots   = "named_slots"
)

var (
	// ErrInvalidConfig is returned for documents that fail validation.
	ErrInvalidConfig = errors.New("invalid loss config")
	// ErrUnknownLossType is returned for a type the builder cannot make.
	ErrUnknownLossType = errors.New("unknown loss type")
)

// Loss is one node of a loss description.
type Loss struct {
	Name string `yaml:"name" validate:"required"`
	// Type defaults to composite when components are present.
	Type string `yaml:"type,omitempty"`
	// Weight scales the loss; unset means 1 and 0 switches it off.
	Weight     *float64 `yaml:"weight,omitempty" validate:"omitempty,gte=0"`
	Delta      float64  `yaml:"delta,omitempty" validate:"gte=0"` // huber only, default 1
	FromLogits bool     `yaml:"from_logits,omitempty"`            // bce only
	Router     *Router  `yaml:"router,omitempty"`
	Components []Loss   `yaml:"components,omitempty" validate:"dive"`
}

// Router selects and configures a routing policy.
type Router struct {
	Type    string  `yaml:"type" validate:"required,oneof=passthrough select_index split_columns mask_rows named_slots"`
	Indices [][]int `yaml:"indices,omitempty" validate:"required_if=Type select_index"`
	Mask    string  `yaml:"mask,omitempty" validate:"required_if=Type mask_rows"`
	Inner   *Router `yaml:"inner,omitempty"`
	Slots   []Slot  `yaml:"slots,omitempty" validate:"required_if=Type named_slots,dive"`
}

// Slot names the entries one component consumes.
type Slot struct {
	Labels      []string `yaml:"labels" validate:"required,min=1"`
	Predictions []string `yaml:"predictions" validate:"required,min=1"`
}

var validate = validator.New()

var knownTypes = map[string]bool{
	TypeComposite:           true,
	TypeMSE:                 true,
	TypeL1:                  true,
	TypeHuber:               true,
	TypeBCE:                 true,
	TypeSoftmaxCrossEntropy: true,
}

// EffectiveWeight returns the weight the builder applies.
func (l *Loss) EffectiveWeight() float64 {
	if l.Weight == nil {
		return 1
	}
	return *l.Weight
}

// Kind returns the effective loss type of the node.
func (l *Loss) Kind() string {
	if l.Type == "" && len(l.Components) > 0 {
		return TypeComposite
	}
	return l.Type
}

// Load reads and validates a YAML document.
func Load(path string) (*Loss, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read loss config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML document.
func Parse(data []byte) (*Loss, error) {
	var cfg Loss
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints on the whole tree, then the structural
// rules struct tags cannot express.
func (l *Loss) Validate() error {
	if err := validate.Struct(l); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, describe(err))
	}
	return l.check(l.Name)
}

func (l *Loss) check(path string) error {
	kind := l.Kind()
	if kind == "" {
		return fmt.Errorf("%w: %s: type is required for a node without components", ErrInvalidConfig, path)
	}
	if !knownTypes[kind] {
		return fmt.Errorf("%w: %w: %s: %q", ErrInvalidConfig, ErrUnknownLossType, path, kind)
	}

	if kind != TypeComposite {
		if len(l.Components) > 0 || l.Router != nil {
			return fmt.Errorf("%w: %s: %s loss takes no components or router", ErrInvalidConfig, path, kind)
		}
		return nil
	}

	if len(l.Components) == 0 {
		return fmt.Errorf("%w: %s: composite needs at least one component", ErrInvalidConfig, path)
	}
	if l.Router != nil {
		if err := l.Router.check(len(l.Components)); err != nil {
			return fmt.Errorf("%w: %s: router: %w", ErrInvalidConfig, path, err)
		}
	}
	for i := range l.Components {
		c := &l.Components[i]
		if err := c.check(path + "/" + c.Name); err != nil {
			return err
		}
	}
	return nil
}

// check verifies the router can serve n components. Only mask_rows may
// wrap another router.
func (r *Router) check(n int) error {
	for in := r; in.Inner != nil; in = in.Inner {
		if in.Type != RouterMaskRows {
			return fmt.Errorf("%s takes no inner router", in.Type)
		}
	}
	router, err := buildRouter(r)
	if err != nil {
		return err
	}
	if want := loss.RouterArity(router); want >= 0 && want != n {
		return fmt.Errorf("%s serves %d components, have %d", r.Type, want, n)
	}
	return nil
}

// describe flattens validator output into one line.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
