package lattice

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"time"
)

// Site addresses one cell of the grid.
type Site struct {
	Row, Col int
}

// Sample is what a lattice reports to its observers each time it records
// history.
type Sample struct {
	Step          int
	Energy        float64
	Magnetization float64
	Accepted      bool
}

// Observer receives every recorded sample, in step order.
type Observer interface {
	Observe(s Sample)
}

// Lattice is an L×L periodic grid of spins evolved by Metropolis updates.
type Lattice struct {
	size        int
	cells       []Spin
	temperature float64
	coupling    float64
	rng         *rand.Rand
	history     recorder
	observers   []Observer
	steps       int
	accepted    int
}

// New allocates a size×size lattice. Spins are drawn from the lattice's random
// source in row-major order unless WithInit selects a cold start.
func New(size int, temperature, coupling float64, opts ...Option) (*Lattice, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	if err := checkTemperature(temperature); err != nil {
		return nil, err
	}
	if err := checkCoupling(coupling); err != nil {
		return nil, err
	}

	o := options{init: InitRandom}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.history.validate(); err != nil {
		return nil, err
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	l := &Lattice{
		size:        size,
		cells:       make([]Spin, size*size),
		temperature: temperature,
		coupling:    coupling,
		rng:         o.rng,
		history:     newRecorder(o.history),
		observers:   o.observers,
	}

	switch o.init {
	case InitRandom:
		for i := range l.cells {
			l.cells[i] = NewSpin(l.rng)
		}
	case InitUp, InitDown:
		s := Up
		if o.init == InitDown {
			s = Down
		}
		for i := range l.cells {
			l.cells[i] = s
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidInit, o.init)
	}

	return l, nil
}

func checkTemperature(t float64) error {
	if !(t > 0) || math.IsInf(t, 1) {
		return fmt.Errorf("%w: got %g", ErrInvalidTemperature, t)
	}
	return nil
}

func checkCoupling(j float64) error {
	if math.IsNaN(j) || math.IsInf(j, 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidCoupling, j)
	}
	return nil
}

func (l *Lattice) Size() int            { return l.size }
func (l *Lattice) Temperature() float64 { return l.temperature }
func (l *Lattice) Coupling() float64    { return l.coupling }
func (l *Lattice) Steps() int           { return l.steps }
func (l *Lattice) Accepted() int        { return l.accepted }

// SetTemperature takes effect on the next step. History is not touched.
func (l *Lattice) SetTemperature(t float64) error {
	if err := checkTemperature(t); err != nil {
		return err
	}
	l.temperature = t
	return nil
}

// SetCoupling takes effect on the next step. History is not touched.
func (l *Lattice) SetCoupling(j float64) error {
	if err := checkCoupling(j); err != nil {
		return err
	}
	l.coupling = j
	return nil
}

func (l *Lattice) AddObserver(o Observer) { l.observers = append(l.observers, o) }

// AcceptanceRate is the fraction of trials whose flip was kept.
func (l *Lattice) AcceptanceRate() float64 {
	if l.steps == 0 {
		return 0
	}
	return float64(l.accepted) / float64(l.steps)
}

func (l *Lattice) index(i, j int) int { return i*l.size + j }

// Wrap maps any coordinates onto the torus.
func (l *Lattice) Wrap(i, j int) Site {
	n := l.size
	return Site{Row: (i%n + n) % n, Col: (j%n + n) % n}
}

// Neighbors returns the up, down, left and right neighbours of (i, j).
func (l *Lattice) Neighbors(i, j int) [4]Site {
	return [4]Site{
		l.Wrap(i-1, j),
		l.Wrap(i+1, j),
		l.Wrap(i, j-1),
		l.Wrap(i, j+1),
	}
}

// At returns the spin at (i, j). Both coordinates must be in [0, Size()).
func (l *Lattice) At(i, j int) Spin { return l.cells[l.index(i, j)] }

// Spins returns a copy of the grid, indexed [row][col].
func (l *Lattice) Spins() [][]Spin {
	out := make([][]Spin, l.size)
	for i := range out {
		row := make([]Spin, l.size)
		copy(row, l.cells[i*l.size:(i+1)*l.size])
		out[i] = row
	}
	return out
}

// SiteEnergy is -J * s(i,j) * Σ s(neighbour) over the four periodic neighbours.
func (l *Lattice) SiteEnergy(i, j int) float64 {
	sum := 0
	for _, nb := range l.Neighbors(i, j) {
		sum += l.At(nb.Row, nb.Col).Int()
	}
	return -l.coupling * float64(l.At(i, j).Int()*sum)
}

// TotalEnergy sums the site energies and halves the result, since every bond
// is seen from both of its ends.
func (l *Lattice) TotalEnergy() float64 {
	total := 0.0
	for i := 0; i < l.size; i++ {
		for j := 0; j < l.size; j++ {
			total += l.SiteEnergy(i, j)
		}
	}
	return total / 2
}

// Magnetization is the mean spin value, in [-1, 1].
func (l *Lattice) Magnetization() float64 {
	sum := 0
	for _, s := range l.cells {
		sum += s.Int()
	}
	return float64(sum) / float64(len(l.cells))
}

// Step performs one Metropolis trial at a uniformly chosen site.
func (l *Lattice) Step() {
	i := l.rng.Intn(l.size)
	j := l.rng.Intn(l.size)
	l.StepAt(i, j)
}

// StepAt performs one Metropolis trial at (i, j) and reports whether the flip
// was kept. A history entry is recorded whether or not it was.
func (l *Lattice) StepAt(i, j int) bool {
	idx := l.index(i, j)

	before := l.SiteEnergy(i, j)
	l.cells[idx].Flip()
	after := l.SiteEnergy(i, j)
	delta := after - before

	kept := true
	if delta > 0 && l.rng.Float64() > math.Exp(-delta/l.temperature) {
		l.cells[idx].Flip()
		kept = false
	}
	if kept {
		l.accepted++
	}

	step := l.steps
	l.steps++

	if l.history.wants(step) {
		s := Sample{
			Step:          step,
			Energy:        l.TotalEnergy(),
			Magnetization: l.Magnetization(),
			Accepted:      kept,
		}
		l.history.record(s.Energy, s.Magnetization)
		for _, o := range l.observers {
			o.Observe(s)
		}
	}

	return kept
}

// Sweep performs Size()² trials, one Monte Carlo sweep.
func (l *Lattice) Sweep() {
	for n := len(l.cells); n > 0; n-- {
		l.Step()
	}
}

// History returns a copy of the recorded series.
func (l *Lattice) History() History { return l.history.snapshot() }

// EnergyHistory returns a copy of the recorded total energies.
func (l *Lattice) EnergyHistory() []float64 { return slices.Clone(l.history.energy) }

// MagnetizationHistory returns a copy of the recorded magnetizations.
func (l *Lattice) MagnetizationHistory() []float64 { return slices.Clone(l.history.magnetization) }
