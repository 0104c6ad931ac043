package metrics

import "github.com/san-kum/ising/internal/lattice"

// Acceptance is the fraction of recorded trials whose flip was kept.
type Acceptance struct {
	name     string
	accepted int
	samples  int
}

func NewAcceptance() *Acceptance {
	return &Acceptance{name: "acceptance"}
}

func (a *Acceptance) Name() string { return a.name }

func (a *Acceptance) Observe(s lattice.Sample) {
	a.samples++
	if s.Accepted {
		a.accepted++
	}
}

func (a *Acceptance) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return float64(a.accepted) / float64(a.samples)
}

func (a *Acceptance) Reset() {
	a.accepted = 0
	a.samples = 0
}

// Defaults is the standard estimator set for a run at a fixed temperature.
func Defaults(sites int, temperature float64, discard int) []Metric {
	ms := []Metric{
		NewEnergy(sites),
		NewAbsMagnetization(),
		NewSpecificHeat(sites, temperature),
		NewSusceptibility(sites, temperature),
		NewBinder(),
		NewAcceptance(),
	}
	for i, m := range ms {
		ms[i] = Equilibrated(m, discard)
	}
	return ms
}
