package automation

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/ising/internal/config"
	"github.com/san-kum/ising/internal/sim"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func baseConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Size = 8
	cfg.Steps = 3000
	cfg.Discard = 1000
	cfg.Seed = 11
	return cfg
}

func TestSweepTemperatures(t *testing.T) {
	sw := &ParameterSweep{TMin: 1, TMax: 3, Points: 5}
	assert.InDeltaSlice(t, []float64{1, 1.5, 2, 2.5, 3}, sw.Temperatures(), 1e-12)

	sw.Points = 1
	assert.Equal(t, []float64{1}, sw.Temperatures())
}

func TestRunSweep(t *testing.T) {
	sw := &ParameterSweep{Base: baseConfig(), TMin: 1.0, TMax: 4.0, Points: 4, Workers: 2}

	results, err := RunSweep(context.Background(), sw, quiet)
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, r := range results {
		assert.Equal(t, sw.Temperatures()[i], r.Temperature)
		assert.Equal(t, int64(11+i), r.Seed)
		assert.GreaterOrEqual(t, r.Energy, -2.0)
		assert.LessOrEqual(t, r.Energy, 2.0)
		assert.GreaterOrEqual(t, r.Acceptance, 0.0)
		assert.LessOrEqual(t, r.Acceptance, 1.0)
	}
	assert.Greater(t, results[3].Acceptance, results[0].Acceptance)

	again, err := RunSweep(context.Background(), sw, quiet)
	require.NoError(t, err)
	assert.Equal(t, results, again)
}

func TestRunSweepInvalid(t *testing.T) {
	tests := []struct {
		name  string
		sweep *ParameterSweep
	}{
		{"no base", &ParameterSweep{TMin: 1, TMax: 2, Points: 2}},
		{"no points", &ParameterSweep{Base: baseConfig(), TMin: 1, TMax: 2}},
		{"zero tmin", &ParameterSweep{Base: baseConfig(), TMin: 0, TMax: 2, Points: 2}},
		{"reversed", &ParameterSweep{Base: baseConfig(), TMin: 3, TMax: 2, Points: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RunSweep(context.Background(), tt.sweep, quiet)
			assert.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

func TestPeakSpecificHeat(t *testing.T) {
	_, ok := PeakSpecificHeat(nil)
	assert.False(t, ok)

	peak, ok := PeakSpecificHeat([]SweepResult{
		{Temperature: 2.0, SpecificHeat: 0.8},
		{Temperature: 2.3, SpecificHeat: 1.6},
		{Temperature: 2.6, SpecificHeat: 0.9},
	})
	require.True(t, ok)
	assert.Equal(t, 2.3, peak.Temperature)
}

const annealYAML = `
name: quench
lattice:
  size: 6
  seed: 3
  init: up
stages:
  - temperature: 5.0
    steps: 500
  - temperature: 0.5
    steps: 800
    discard: 200
  - temperature: 0.5
    coupling: -1.0
    steps: 400
`

func TestLoadAndRunScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anneal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(annealYAML), 0644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "quench", sc.Name)
	assert.Equal(t, 6, sc.Lattice.Size)
	assert.Equal(t, config.DefaultStepsPerTick, sc.Lattice.StepsPerTick)
	assert.Equal(t, 1700, sc.Total())

	results, err := RunScenario(context.Background(), sc, quiet)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 0, results[0].Step)
	assert.Equal(t, 500, results[1].Step)
	assert.Equal(t, 1300, results[2].Step)
	assert.Equal(t, 0.5, results[1].Temperature)
	assert.Equal(t, 1.0, results[1].Coupling)
	assert.Equal(t, -1.0, results[2].Coupling)
	for i, r := range results {
		assert.Equal(t, sc.Stages[i].Steps, r.Result.Steps)
	}
	assert.Equal(t, 1700, results[2].Result.History.Len())
}

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		name string
		sc   Scenario
	}{
		{"no lattice", Scenario{Stages: []Stage{{Temperature: 1, Steps: 1}}}},
		{"no stages", Scenario{Lattice: config.DefaultConfig()}},
		{"zero temperature", Scenario{Lattice: config.DefaultConfig(), Stages: []Stage{{Steps: 1}}}},
		{"zero steps", Scenario{Lattice: config.DefaultConfig(), Stages: []Stage{{Temperature: 1}}}},
		{"discard covers stage", Scenario{Lattice: config.DefaultConfig(), Stages: []Stage{{Temperature: 1, Steps: 5, Discard: 5}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.sc.Validate(), config.ErrInvalid)
		})
	}
}

func TestRunScenarioCancelled(t *testing.T) {
	sc := &Scenario{
		Lattice: config.DefaultConfig(),
		Stages:  []Stage{{Temperature: 1, Steps: 100}, {Temperature: 2, Steps: 100}},
	}
	sc.Lattice.Size = 4

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := RunScenario(ctx, sc, quiet)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Result.Steps)
}

func TestRunSweepUnseededGetsDistinctSeeds(t *testing.T) {
	base := baseConfig()
	base.Seed = 0
	base.Steps = 1500
	sw := &ParameterSweep{Base: base, TMin: 2.0, TMax: 2.0, Points: 4, Workers: 4}

	results, err := RunSweep(context.Background(), sw, quiet)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i := 1; i < len(results); i++ {
		assert.Equal(t, results[0].Seed+int64(i), results[i].Seed)
	}
	assert.NotZero(t, results[0].Seed)
}

func TestReplicas(t *testing.T) {
	results, err := RunReplicas(context.Background(), baseConfig(), 3, 0, nil, quiet)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, int64(11+i), r.Seed)
	}

	mean, stderr := ReplicaStats(results, "energy_per_site")
	assert.GreaterOrEqual(t, stderr, 0.0)
	assert.GreaterOrEqual(t, mean, -2.0)
	assert.LessOrEqual(t, mean, 2.0)
}

func TestReplicasNamedMetrics(t *testing.T) {
	results, err := RunReplicas(context.Background(), baseConfig(), 2, 1, []string{"binder"}, quiet)
	require.NoError(t, err)
	for _, r := range results {
		assert.Len(t, r.Metrics, 1)
		assert.Contains(t, r.Metrics, "binder")
	}

	_, err = RunReplicas(context.Background(), baseConfig(), 2, 1, []string{"entropy"}, quiet)
	assert.Error(t, err)
}

func TestReplicasUnseeded(t *testing.T) {
	cfg := baseConfig()
	cfg.Seed = 0
	results, err := RunReplicas(context.Background(), cfg, 3, 0, nil, quiet)
	require.NoError(t, err)
	assert.NotZero(t, results[0].Seed)
	assert.Equal(t, results[0].Seed+1, results[1].Seed)
	assert.Equal(t, results[0].Seed+2, results[2].Seed)
}

func TestReplicaStats(t *testing.T) {
	rs := []*sim.Result{
		{Metrics: map[string]float64{"x": 1}},
		{Metrics: map[string]float64{"x": 3}},
	}
	mean, stderr := ReplicaStats(rs, "x")
	assert.Equal(t, 2.0, mean)
	assert.InDelta(t, 1.0, stderr, 1e-12)

	mean, stderr = ReplicaStats(rs[:1], "x")
	assert.Equal(t, 1.0, mean)
	assert.Zero(t, stderr)
}
