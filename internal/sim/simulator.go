package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/ising/internal/lattice"
	"github.com/san-kum/ising/internal/metrics"
)

// Runner drives one lattice. It is the only caller of Step for that lattice
// for the duration of Run.
type Runner struct {
	lat       *lattice.Lattice
	metrics   []metrics.Metric
	observers []TickObserver
	logger    *slog.Logger
}

func New(l *lattice.Lattice, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		lat:       l,
		metrics:   make([]metrics.Metric, 0),
		observers: make([]TickObserver, 0),
		logger:    logger,
	}
	l.AddObserver(r)
	return r
}

func (r *Runner) AddMetric(m metrics.Metric) { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o TickObserver) { r.observers = append(r.observers, o) }
func (r *Runner) Lattice() *lattice.Lattice  { return r.lat }

// SetMetrics replaces the attached metrics.
func (r *Runner) SetMetrics(ms []metrics.Metric) {
	r.metrics = append(r.metrics[:0:0], ms...)
}

// Observe forwards lattice samples to the metrics.
func (r *Runner) Observe(s lattice.Sample) {
	for _, m := range r.metrics {
		m.Observe(s)
	}
}

func validateConfig(cfg Config) error {
	if cfg.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidConfig, cfg.Steps)
	}
	if cfg.StepsPerTick <= 0 {
		return fmt.Errorf("%w: steps per tick must be positive, got %d", ErrInvalidConfig, cfg.StepsPerTick)
	}
	return nil
}

// Run performs cfg.Steps trials in ticks of cfg.StepsPerTick. Cancellation is
// checked between ticks; on cancellation the partial result is returned with
// ctx.Err().
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	start := time.Now()
	startSteps, startAccepted := r.lat.Steps(), r.lat.Accepted()
	result := &Result{Metrics: make(map[string]float64)}

	r.logger.Debug("run started",
		slog.Int("size", r.lat.Size()),
		slog.Float64("temperature", r.lat.Temperature()),
		slog.Float64("coupling", r.lat.Coupling()),
		slog.Int("steps", cfg.Steps),
	)

	var runErr error
	remaining := cfg.Steps
	for remaining > 0 {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		n := min(cfg.StepsPerTick, remaining)
		for i := 0; i < n; i++ {
			r.lat.Step()
		}
		remaining -= n

		for _, obs := range r.observers {
			obs.OnTick(r.lat, result.Ticks)
		}
		result.Ticks++
	}

	result.Steps = r.lat.Steps() - startSteps
	result.Accepted = r.lat.Accepted() - startAccepted
	result.History = r.lat.History()
	result.FinalEnergy = r.lat.TotalEnergy()
	result.FinalMagnetization = r.lat.Magnetization()
	result.Elapsed = time.Since(start)
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	if runErr != nil {
		r.logger.Warn("run interrupted", slog.Int("steps", result.Steps), slog.Any("error", runErr))
		return result, runErr
	}

	r.logger.Debug("run finished",
		slog.Int("steps", result.Steps),
		slog.Duration("elapsed", result.Elapsed),
		slog.Float64("energy", result.FinalEnergy),
		slog.Float64("magnetization", result.FinalMagnetization),
	)
	return result, nil
}

// AcceptanceRate is the fraction of kept flips over the run.
func (res *Result) AcceptanceRate() float64 {
	if res.Steps == 0 {
		return 0
	}
	return float64(res.Accepted) / float64(res.Steps)
}
