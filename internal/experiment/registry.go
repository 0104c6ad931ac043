package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/ising/internal/config"
	"github.com/san-kum/ising/internal/metrics"
)

type metricFactory func(cfg *config.Config) metrics.Metric

type Registry struct {
	metrics map[string]metricFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]metricFactory),
	}

	r.metrics["energy_per_site"] = func(c *config.Config) metrics.Metric { return metrics.NewEnergy(c.Sites()) }
	r.metrics["abs_magnetization"] = func(c *config.Config) metrics.Metric { return metrics.NewAbsMagnetization() }
	r.metrics["specific_heat"] = func(c *config.Config) metrics.Metric {
		return metrics.NewSpecificHeat(c.Sites(), c.Temperature)
	}
	r.metrics["susceptibility"] = func(c *config.Config) metrics.Metric {
		return metrics.NewSusceptibility(c.Sites(), c.Temperature)
	}
	r.metrics["binder"] = func(c *config.Config) metrics.Metric { return metrics.NewBinder() }
	r.metrics["acceptance"] = func(c *config.Config) metrics.Metric { return metrics.NewAcceptance() }

	return r
}

// GetMetric builds the named estimator for cfg, skipping the first
// cfg.Discard steps.
func (r *Registry) GetMetric(name string, cfg *config.Config) (metrics.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return metrics.Equilibrated(fn(cfg), cfg.Discard), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Metrics builds the named estimators, or the full set when names is empty.
func (r *Registry) Metrics(names []string, cfg *config.Config) ([]metrics.Metric, error) {
	if len(names) == 0 {
		return r.DefaultMetrics(cfg), nil
	}
	out := make([]metrics.Metric, 0, len(names))
	for _, name := range names {
		m, err := r.GetMetric(name, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Registry) DefaultMetrics(cfg *config.Config) []metrics.Metric {
	return metrics.Defaults(cfg.Sites(), cfg.Temperature, cfg.Discard)
}
