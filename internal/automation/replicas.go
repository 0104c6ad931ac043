package automation

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/ising/internal/config"
	"github.com/san-kum/ising/internal/experiment"
	"github.com/san-kum/ising/internal/lattice"
	"github.com/san-kum/ising/internal/metrics"
	"github.com/san-kum/ising/internal/sim"
)

// RunReplicas runs n independent copies of cfg seeded cfg.Seed, cfg.Seed+1, ...
// A zero seed starts the sequence from the clock. Each replica computes the
// named metrics, or the default set when names is empty.
func RunReplicas(ctx context.Context, cfg *config.Config, n, workers int, names []string, logger *slog.Logger) ([]*sim.Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry := experiment.NewRegistry()
	if _, err := registry.Metrics(names, cfg); err != nil {
		return nil, err
	}
	build := func(seed int64) (*lattice.Lattice, error) {
		c := *cfg
		c.Seed = seed
		return c.NewLattice()
	}
	ms := func() []metrics.Metric {
		out, _ := registry.Metrics(names, cfg)
		return out
	}

	e := sim.NewEnsemble(build, ms, n, baseSeed(cfg.Seed))
	e.SetWorkers(workers)
	e.SetLogger(logger)
	return e.Run(ctx, sim.Config{Steps: cfg.Steps, StepsPerTick: cfg.StepsPerTick})
}

// ReplicaStats is the mean of a metric over replicas and its standard error.
func ReplicaStats(results []*sim.Result, metric string) (mean, stderr float64) {
	n := float64(len(results))
	if n == 0 {
		return 0, 0
	}
	for _, r := range results {
		mean += r.Metrics[metric]
	}
	mean /= n
	if n < 2 {
		return mean, 0
	}
	var ss float64
	for _, r := range results {
		d := r.Metrics[metric] - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / (n - 1) / n)
}

// baseSeed reads the clock once for an unseeded batch, so the members of the
// batch get distinct consecutive seeds.
func baseSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}
