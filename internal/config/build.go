package config

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/born-ml/lossmix/internal/loss"
	"github.com/born-ml/lossmix/internal/tensor"
)

const defaultHuberDelta = 1.0

// Builder turns validated configs into losses on one backend.
type Builder struct {
	backend tensor.Backend
	logger  *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger logs every node the builder creates at debug level.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a Builder for backend.
func NewBuilder(backend tensor.Backend, opts ...BuilderOption) *Builder {
	b := &Builder{
		backend: backend,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build validates cfg and builds it with a default Builder.
func Build(cfg *Loss, backend tensor.Backend) (loss.Loss, error) {
	return NewBuilder(backend).Build(cfg)
}

// Build validates cfg and creates the loss it describes.
func (b *Builder) Build(cfg *Loss) (loss.Loss, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return b.build(cfg, cfg.Name)
}

func (b *Builder) build(cfg *Loss, path string) (loss.Loss, error) {
	var (
		l   loss.Loss
		err error
	)
	name := loss.WithName(cfg.Name)

	switch cfg.Kind() {
	case TypeComposite:
		l, err = b.composite(cfg, path)
		if err != nil {
			return nil, err
		}
	case TypeMSE:
		l = loss.NewMSE(b.backend, name)
	case TypeL1:
		l = loss.NewL1(b.backend, name)
	case TypeHuber:
		delta := cfg.Delta
		if delta == 0 {
			delta = defaultHuberDelta
		}
		l = loss.NewHuber(b.backend, delta, name)
	case TypeBCE:
		l = loss.NewBinaryCrossEntropy(b.backend, cfg.FromLogits, name)
	case TypeSoftmaxCrossEntropy:
		l = loss.NewSoftmaxCrossEntropy(b.backend, name)
	default:
		return nil, fmt.Errorf("%w: %s: %q", ErrUnknownLossType, path, cfg.Kind())
	}

	weight := cfg.EffectiveWeight()
	if weight != 1 {
		l = loss.NewWeighted(l, weight)
	}
	b.logger.Debug("built loss", "path", path, "type", cfg.Kind(), "weight", weight)
	return l, nil
}

func (b *Builder) composite(cfg *Loss, path string) (loss.Loss, error) {
	router, err := buildRouter(cfg.Router)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c := loss.NewComposite(cfg.Name, router)
	for i := range cfg.Components {
		child := &cfg.Components[i]
		l, err := b.build(child, path+"/"+child.Name)
		if err != nil {
			return nil, err
		}
		c.Add(l)
	}
	return c, nil
}

func buildRouter(r *Router) (loss.Router, error) {
	if r == nil {
		return loss.Passthrough(), nil
	}
	switch r.Type {
	case RouterPassthrough:
		return loss.Passthrough(), nil
	case RouterSelectIndex:
		return loss.SelectIndex(r.Indices...), nil
	case RouterSplitColumns:
		return loss.SplitColumns(), nil
	case RouterMaskRows:
		var inner loss.Router
		if r.Inner != nil {
			var err error
			if inner, err = buildRouter(r.Inner); err != nil {
				return nil, err
			}
		}
		return loss.MaskRows(r.Mask, inner), nil
	case RouterNamedSlots:
		slots := make([]loss.Slot, len(r.Slots))
		for i, s := range r.Slots {
			slots[i] = loss.Slot{Labels: s.Labels, Predictions: s.Predictions}
		}
		return loss.NamedSlots(slots...), nil
	default:
		return nil, fmt.Errorf("%w: unknown router type %q", ErrInvalidConfig, r.Type)
	}
}
