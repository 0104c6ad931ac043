package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/ising/internal/lattice"
)

func feed(m Metric, energies, mags []float64) {
	for i := range energies {
		m.Observe(lattice.Sample{Step: i, Energy: energies[i], Magnetization: mags[i], Accepted: i%2 == 0})
	}
}

func TestEnergyPerSite(t *testing.T) {
	m := NewEnergy(4)
	feed(m, []float64{-8, -4, 0, -4}, make([]float64, 4))

	if got := m.Value(); math.Abs(got-(-1.0)) > 1e-12 {
		t.Errorf("expected -1.0, got %v", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestSpecificHeat(t *testing.T) {
	// E alternates ±2: mean 0, variance 4.
	m := NewSpecificHeat(4, 2.0)
	feed(m, []float64{2, -2, 2, -2}, make([]float64, 4))

	want := 4.0 / (4 * 2.0 * 2.0)
	if got := m.Value(); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSpecificHeatConstantSeries(t *testing.T) {
	m := NewSpecificHeat(16, 1.0)
	feed(m, []float64{-32, -32, -32}, make([]float64, 3))
	if got := m.Value(); math.Abs(got) > 1e-12 {
		t.Errorf("constant energy must give zero specific heat, got %v", got)
	}
}

func TestAbsMagnetization(t *testing.T) {
	m := NewAbsMagnetization()
	feed(m, make([]float64, 4), []float64{1, -1, 0.5, -0.5})
	if got := m.Value(); math.Abs(got-0.75) > 1e-12 {
		t.Errorf("expected 0.75, got %v", got)
	}
}

func TestSusceptibility(t *testing.T) {
	// |m| alternates 1 and 0: <m²>=0.5, <|m|>=0.5.
	m := NewSusceptibility(10, 2.0)
	feed(m, make([]float64, 4), []float64{1, 0, -1, 0})
	want := 10 * (0.5 - 0.25) / 2.0
	if got := m.Value(); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBinderLimits(t *testing.T) {
	ordered := NewBinder()
	feed(ordered, make([]float64, 4), []float64{1, -1, 1, 1})
	if got := ordered.Value(); math.Abs(got-2.0/3.0) > 1e-12 {
		t.Errorf("ordered: expected 2/3, got %v", got)
	}

	empty := NewBinder()
	if empty.Value() != 0 {
		t.Error("empty binder should be 0")
	}
}

func TestAcceptance(t *testing.T) {
	m := NewAcceptance()
	feed(m, make([]float64, 5), make([]float64, 5))
	if got := m.Value(); math.Abs(got-0.6) > 1e-12 {
		t.Errorf("expected 0.6, got %v", got)
	}
}

func TestEquilibratedSkipsBurnIn(t *testing.T) {
	m := Equilibrated(NewEnergy(1), 2)
	feed(m, []float64{100, 100, -1, -3}, make([]float64, 4))
	if got := m.Value(); got != -2 {
		t.Errorf("expected -2, got %v", got)
	}
	if m.Name() != "energy_per_site" {
		t.Errorf("wrapper must keep the name, got %q", m.Name())
	}

	if Equilibrated(NewBinder(), 0) == nil {
		t.Error("zero discard should return the metric itself")
	}
}

func TestDefaultsOnLiveLattice(t *testing.T) {
	ms := Defaults(36, 2.0, 0)
	opts := []lattice.Option{lattice.WithSeed(1)}
	for _, m := range ms {
		opts = append(opts, lattice.WithObserver(m))
	}
	l, err := lattice.New(6, 2.0, 1.0, opts...)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 500; i++ {
		l.Step()
	}

	names := map[string]bool{}
	for _, m := range ms {
		names[m.Name()] = true
		if v := m.Value(); math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s: non-finite value %v", m.Name(), v)
		}
	}
	if len(names) != 6 {
		t.Errorf("expected 6 distinct metrics, got %v", names)
	}

	e := l.EnergyHistory()
	mean := 0.0
	for _, v := range e {
		mean += v
	}
	mean /= float64(len(e)) * 36
	if math.Abs(ms[0].Value()-mean) > 1e-9 {
		t.Errorf("energy metric %v disagrees with history mean %v", ms[0].Value(), mean)
	}
}
