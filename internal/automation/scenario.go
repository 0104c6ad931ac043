package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ising/internal/config"
	"github.com/san-kum/ising/internal/metrics"
	"github.com/san-kum/ising/internal/sim"
)

// Scenario is an annealing schedule: one lattice taken through a sequence of
// temperature (and optionally coupling) stages without being rebuilt.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Lattice     *config.Config `yaml:"lattice"`
	Stages      []Stage        `yaml:"stages"`
}

type Stage struct {
	Temperature float64  `yaml:"temperature"`
	Coupling    *float64 `yaml:"coupling,omitempty"`
	Steps       int      `yaml:"steps"`
	Discard     int      `yaml:"discard"`
}

// StageResult holds the estimates for one stage. Step is the lattice step
// count when the stage began.
type StageResult struct {
	Stage       int
	Step        int
	Temperature float64
	Coupling    float64
	Result      *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	scenario := Scenario{Lattice: config.DefaultConfig()}
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	if s.Lattice == nil {
		return fmt.Errorf("%w: scenario has no lattice", config.ErrInvalid)
	}
	if len(s.Stages) == 0 {
		return fmt.Errorf("%w: scenario has no stages", config.ErrInvalid)
	}
	for i, st := range s.Stages {
		if !(st.Temperature > 0) {
			return fmt.Errorf("%w: stage %d: temperature must be positive", config.ErrInvalid, i+1)
		}
		if st.Steps <= 0 {
			return fmt.Errorf("%w: stage %d: steps must be positive", config.ErrInvalid, i+1)
		}
		if st.Discard < 0 || st.Discard >= st.Steps {
			return fmt.Errorf("%w: stage %d: discard must be in [0, steps)", config.ErrInvalid, i+1)
		}
	}
	return nil
}

// Total is the number of trials across all stages.
func (s *Scenario) Total() int {
	n := 0
	for _, st := range s.Stages {
		n += st.Steps
	}
	return n
}

// RunScenario executes the stages in order on a single lattice. The lattice's
// own temperature and coupling are replaced by each stage's. Results for the
// completed stages are returned alongside any error.
func RunScenario(ctx context.Context, scenario *Scenario, logger *slog.Logger) ([]StageResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	first := scenario.Stages[0]
	base := *scenario.Lattice
	base.Temperature = first.Temperature
	if first.Coupling != nil {
		base.Coupling = *first.Coupling
	}
	// the per-stage step counts stand in for base.Steps
	base.Steps = scenario.Total()
	base.Discard = 0

	l, err := base.NewLattice()
	if err != nil {
		return nil, err
	}

	runner := sim.New(l, logger)
	results := make([]StageResult, 0, len(scenario.Stages))
	for i, st := range scenario.Stages {
		if err := l.SetTemperature(st.Temperature); err != nil {
			return results, fmt.Errorf("stage %d: %w", i+1, err)
		}
		if st.Coupling != nil {
			if err := l.SetCoupling(*st.Coupling); err != nil {
				return results, fmt.Errorf("stage %d: %w", i+1, err)
			}
		}

		logger.Info("stage started",
			slog.Int("stage", i+1),
			slog.Int("of", len(scenario.Stages)),
			slog.Float64("temperature", l.Temperature()),
			slog.Float64("coupling", l.Coupling()),
			slog.Int("steps", st.Steps),
		)

		start := l.Steps()
		runner.SetMetrics(metrics.Defaults(base.Sites(), st.Temperature, start+st.Discard))

		res, err := runner.Run(ctx, sim.Config{Steps: st.Steps, StepsPerTick: base.StepsPerTick})
		if res != nil {
			results = append(results, StageResult{
				Stage:       i + 1,
				Step:        start,
				Temperature: l.Temperature(),
				Coupling:    l.Coupling(),
				Result:      res,
			})
		}
		if err != nil {
			return results, fmt.Errorf("stage %d run: %w", i+1, err)
		}
	}

	return results, nil
}
