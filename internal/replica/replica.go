// Package replica runs independent copies of one loss side by side, one per
// data-parallel worker.
//
// Every replica is a Duplicate of a prototype, so replicas share no running
// statistic and can be updated concurrently. Nothing is synchronized between
// them beyond what Mean computes on request.
package replica

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/born-ml/lossmix/internal/loss"
	"github.com/born-ml/lossmix/internal/parallel"
	"github.com/born-ml/lossmix/internal/tensor"
	"gonum.org/v1/gonum/stat"
)

// ErrShardCount is returned when Update receives a different number of
// shards than there are replicas.
var ErrShardCount = errors.New("shard count does not match replica count")

// Batch is the slice of data one replica sees in a step.
type Batch struct {
	Labels      *tensor.List
	Predictions *tensor.List
}

// Option configures a Group.
type Option func(*Group)

// WithLogger sets the logger used for per-replica debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Group) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithParallel sets the worker limit for Update.
func WithParallel(cfg parallel.Config) Option {
	return func(g *Group) {
		g.parallel = cfg
	}
}

// Group holds n independent replicas of a loss.
//
// Group methods must not be called concurrently with each other; Update
// itself fans out over the replicas.
type Group struct {
	replicas []loss.Loss
	logger   *slog.Logger
	parallel parallel.Config
}

// New duplicates proto n times. The prototype itself is never updated.
func New(proto loss.Loss, n int, opts ...Option) (*Group, error) {
	if n < 1 {
		return nil, fmt.Errorf("replica: need at least one replica, got %d", n)
	}

	g := &Group{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		parallel: parallel.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(g)
	}

	g.replicas = make([]loss.Loss, n)
	for i := range g.replicas {
		dup, err := proto.Duplicate()
		if err != nil {
			return nil, fmt.Errorf("replica %d of %s: %w", i, proto.Name(), err)
		}
		g.replicas[i] = dup
	}

	g.logger.Debug("replica group created", "loss", proto.Name(), "replicas", n)
	return g, nil
}

// Len returns the number of replicas.
func (g *Group) Len() int {
	return len(g.replicas)
}

// Replica returns replica i.
func (g *Group) Replica(i int) loss.Loss {
	return g.replicas[i]
}

// Update feeds shard i to replica i, concurrently. On error some replicas
// may already hold the update; the first error is returned.
func (g *Group) Update(ctx context.Context, shards []Batch) error {
	if len(shards) != len(g.replicas) {
		return fmt.Errorf("%w: %d shards for %d replicas", ErrShardCount, len(shards), len(g.replicas))
	}

	return parallel.Each(ctx, len(shards), func(_ context.Context, i int) error {
		r := g.replicas[i]
		if err := r.Update(shards[i].Labels, shards[i].Predictions); err != nil {
			return fmt.Errorf("replica %d: %w", i, err)
		}
		g.logger.Debug("replica updated", "replica", i, "value", r.Value())
		return nil
	}, g.parallel)
}

// Values returns each replica's running value.
func (g *Group) Values() []float64 {
	values := make([]float64, len(g.replicas))
	for i, r := range g.replicas {
		values[i] = r.Value()
	}
	return values
}

// Mean returns the average running value across replicas.
func (g *Group) Mean() float64 {
	return stat.Mean(g.Values(), nil)
}

// Reset clears every replica.
func (g *Group) Reset() {
	for _, r := range g.replicas {
		r.Reset()
	}
}
