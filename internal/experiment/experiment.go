package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/ising/internal/config"
	"github.com/san-kum/ising/internal/lattice"
	"github.com/san-kum/ising/internal/metrics"
	"github.com/san-kum/ising/internal/sim"
)

// LargeUnboundedRun is the step count above which an unbounded history is
// worth a warning.
const LargeUnboundedRun = 10_000_000

type Experiment struct {
	cfg       *config.Config
	lattice   *lattice.Lattice
	simulator *sim.Runner
	logger    *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) *Experiment {
	if logger == nil {
		logger = slog.Default()
	}
	return &Experiment{cfg: cfg, logger: logger}
}

// Setup builds the lattice and attaches the metrics. Extra options are
// applied after the ones derived from the config.
func (e *Experiment) Setup(ms []metrics.Metric, opts ...lattice.Option) error {
	l, err := e.cfg.NewLattice(opts...)
	if err != nil {
		return err
	}
	if e.cfg.HistoryPolicy().IsUnbounded() && e.cfg.Steps > LargeUnboundedRun {
		e.logger.Warn("history keeps every step; consider window or stride",
			slog.Int("steps", e.cfg.Steps),
			slog.Int("bytes", 16*e.cfg.Steps),
		)
	}
	e.lattice = l
	e.simulator = sim.New(l, e.logger)
	for _, m := range ms {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, sim.Config{
		Steps:        e.cfg.Steps,
		StepsPerTick: e.cfg.StepsPerTick,
	})
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// GetSimulator returns the underlying runner for adding observers
func (e *Experiment) GetSimulator() *sim.Runner {
	return e.simulator
}

func (e *Experiment) Lattice() *lattice.Lattice { return e.lattice }
