// Package telemetry exports live simulation state as Prometheus metrics.
//
// A [Collector] is attached to a runner as a tick observer and updates its
// gauges and counters once per tick, so scrapes never touch the lattice.
//
// # Thread Safety
//
// Metric updates are safe for concurrent use via Prometheus's internal
// locking. OnTick must be called from the goroutine that steps the lattice.
package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/ising/internal/lattice"
)

const metricsNamespace = "ising"

type Collector struct {
	StepsTotal    prometheus.Counter
	AcceptedTotal prometheus.Counter
	Ticks         prometheus.Counter
	Energy        prometheus.Gauge
	Magnetization prometheus.Gauge
	Temperature   prometheus.Gauge
	Coupling      prometheus.Gauge

	last         *lattice.Lattice
	lastSteps    int
	lastAccepted int
}

// NewCollector registers the metrics with reg. Passing a fresh registry per
// collector avoids duplicate registration panics.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		StepsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "steps_total",
			Help:      "Metropolis trials performed",
		}),
		AcceptedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "accepted_total",
			Help:      "Metropolis trials whose flip was kept",
		}),
		Ticks: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "ticks_total",
			Help:      "Runner ticks completed",
		}),
		Energy: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "energy",
			Help:      "Total lattice energy",
		}),
		Magnetization: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "magnetization",
			Help:      "Mean spin",
		}),
		Temperature: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "temperature",
			Help:      "Current temperature",
		}),
		Coupling: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "coupling",
			Help:      "Current coupling constant J",
		}),
	}
}

// OnTick folds the lattice counters into the metrics. A different lattice,
// or one whose counters went backwards, is counted from zero.
func (c *Collector) OnTick(l *lattice.Lattice, _ int) {
	steps, accepted := l.Steps(), l.Accepted()
	if l != c.last || steps < c.lastSteps || accepted < c.lastAccepted {
		c.last = l
		c.lastSteps, c.lastAccepted = 0, 0
	}
	c.StepsTotal.Add(float64(steps - c.lastSteps))
	c.AcceptedTotal.Add(float64(accepted - c.lastAccepted))
	c.lastSteps, c.lastAccepted = steps, accepted

	c.Ticks.Inc()
	c.Energy.Set(l.TotalEnergy())
	c.Magnetization.Set(l.Magnetization())
	c.Temperature.Set(l.Temperature())
	c.Coupling.Set(l.Coupling())
}

// Serve exposes g on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics server listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
