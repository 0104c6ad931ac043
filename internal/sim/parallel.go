package sim

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/ising/internal/lattice"
)

// LatticeFactory builds an independent lattice for the given seed.
type LatticeFactory func(seed int64) (*lattice.Lattice, error)

// Ensemble runs independent replicas of the same system, replica i seeded
// with seedStart+i.
type Ensemble struct {
	build     LatticeFactory
	metrics   MetricFactory
	numRuns   int
	seedStart int64
	workers   int
	logger    *slog.Logger
}

func NewEnsemble(build LatticeFactory, metrics MetricFactory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{
		build:     build,
		metrics:   metrics,
		numRuns:   numRuns,
		seedStart: seedStart,
		logger:    slog.Default(),
	}
}

// SetWorkers bounds concurrency. Zero or less means one goroutine per replica.
func (e *Ensemble) SetWorkers(n int)              { e.workers = n }
func (e *Ensemble) SetLogger(logger *slog.Logger) { e.logger = logger }

// Run returns results in replica order. The first failure cancels the rest.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	results := make([]*Result, e.numRuns)
	g, ctx := errgroup.WithContext(ctx)
	if e.workers > 0 {
		g.SetLimit(e.workers)
	}

	for i := 0; i < e.numRuns; i++ {
		i := i
		g.Go(func() error {
			seed := e.seedStart + int64(i)
			l, err := e.build(seed)
			if err != nil {
				return err
			}

			r := New(l, e.logger.With(slog.Int64("seed", seed)))
			if e.metrics != nil {
				for _, m := range e.metrics() {
					r.AddMetric(m)
				}
			}

			res, err := r.Run(ctx, cfg)
			if err != nil {
				return err
			}
			res.Seed = seed
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
