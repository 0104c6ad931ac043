package telemetry

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/san-kum/ising/internal/lattice"
)

func newTestCollector(t *testing.T) (*Collector, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewCollector(reg), reg
}

func TestCollector_OnTick(t *testing.T) {
	c, _ := newTestCollector(t)

	l, err := lattice.New(4, 2.0, 1.0, lattice.WithSeed(1), lattice.WithInit(lattice.InitUp))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 50; i++ {
		l.Step()
	}
	c.OnTick(l, 0)

	if got := testutil.ToFloat64(c.StepsTotal); got != 50 {
		t.Errorf("StepsTotal = %f, want 50", got)
	}
	if got := testutil.ToFloat64(c.AcceptedTotal); got != float64(l.Accepted()) {
		t.Errorf("AcceptedTotal = %f, want %d", got, l.Accepted())
	}
	if got := testutil.ToFloat64(c.Energy); got != l.TotalEnergy() {
		t.Errorf("Energy = %f, want %f", got, l.TotalEnergy())
	}
	if got := testutil.ToFloat64(c.Temperature); got != 2.0 {
		t.Errorf("Temperature = %f, want 2", got)
	}

	for i := 0; i < 30; i++ {
		l.Step()
	}
	c.OnTick(l, 1)

	if got := testutil.ToFloat64(c.StepsTotal); got != 80 {
		t.Errorf("StepsTotal = %f, want 80", got)
	}
	if got := testutil.ToFloat64(c.Ticks); got != 2 {
		t.Errorf("Ticks = %f, want 2", got)
	}
}

func TestCollector_LatticeReset(t *testing.T) {
	c, _ := newTestCollector(t)

	l, _ := lattice.New(4, 2.0, 1.0, lattice.WithSeed(1))
	for i := 0; i < 20; i++ {
		l.Step()
	}
	c.OnTick(l, 0)

	fresh, _ := lattice.New(4, 2.0, 1.0, lattice.WithSeed(2))
	for i := 0; i < 5; i++ {
		fresh.Step()
	}
	c.OnTick(fresh, 1)

	if got := testutil.ToFloat64(c.StepsTotal); got != 25 {
		t.Errorf("StepsTotal = %f, want 25", got)
	}
}

func TestCollector_NewLatticeAfterReset(t *testing.T) {
	c, _ := newTestCollector(t)

	hot, _ := lattice.New(8, 10.0, 1.0, lattice.WithSeed(1))
	for i := 0; i < 100; i++ {
		hot.Step()
	}
	c.OnTick(hot, 0)

	// more steps than before, far fewer accepted flips
	cold, _ := lattice.New(8, 0.1, 1.0, lattice.WithSeed(2), lattice.WithInit(lattice.InitUp))
	for i := 0; i < 100; i++ {
		cold.Step()
	}
	if cold.Accepted() >= hot.Accepted() {
		t.Fatalf("expected the cold lattice to accept fewer flips, got %d vs %d", cold.Accepted(), hot.Accepted())
	}
	c.OnTick(cold, 1)

	if got := testutil.ToFloat64(c.StepsTotal); got != 200 {
		t.Errorf("StepsTotal = %f, want 200", got)
	}
	want := float64(hot.Accepted() + cold.Accepted())
	if got := testutil.ToFloat64(c.AcceptedTotal); got != want {
		t.Errorf("AcceptedTotal = %f, want %f", got, want)
	}
}

func TestCollector_Exposition(t *testing.T) {
	c, reg := newTestCollector(t)

	l, _ := lattice.New(2, 1.0, 1.0, lattice.WithInit(lattice.InitUp))
	c.OnTick(l, 0)

	expected := `
# HELP ising_energy Total lattice energy
# TYPE ising_energy gauge
ising_energy -8
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "ising_energy"); err != nil {
		t.Error(err)
	}
}
