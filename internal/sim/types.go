package sim

import (
	"errors"
	"time"

	"github.com/san-kum/ising/internal/lattice"
	"github.com/san-kum/ising/internal/metrics"
)

var ErrInvalidConfig = errors.New("sim: invalid run config")

// TickObserver is called after every tick with the lattice between steps.
type TickObserver interface {
	OnTick(l *lattice.Lattice, tick int)
}

type TickFunc func(l *lattice.Lattice, tick int)

func (f TickFunc) OnTick(l *lattice.Lattice, tick int) { f(l, tick) }

type Config struct {
	Steps        int
	StepsPerTick int
}

type Result struct {
	// Seed is set by Ensemble; a single Runner leaves it zero.
	Seed               int64
	Steps              int
	Accepted           int
	Ticks              int
	History            lattice.History
	Metrics            map[string]float64
	FinalEnergy        float64
	FinalMagnetization float64
	Elapsed            time.Duration
}

// MetricFactory builds a fresh metric set for one lattice.
type MetricFactory func() []metrics.Metric
