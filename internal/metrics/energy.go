package metrics

import "github.com/san-kum/ising/internal/lattice"

// Energy is the mean energy per site.
type Energy struct {
	name  string
	sites int
	m     moments
}

func NewEnergy(sites int) *Energy {
	return &Energy{name: "energy_per_site", sites: sites}
}

func (e *Energy) Name() string             { return e.name }
func (e *Energy) Observe(s lattice.Sample) { e.m.add(s.Energy) }
func (e *Energy) Value() float64           { return e.m.mean() / float64(e.sites) }
func (e *Energy) Reset()                   { e.m.reset() }

// SpecificHeat is the fluctuation estimator (⟨E²⟩-⟨E⟩²)/(N·T²).
type SpecificHeat struct {
	name        string
	sites       int
	temperature float64
	m           moments
}

func NewSpecificHeat(sites int, temperature float64) *SpecificHeat {
	return &SpecificHeat{name: "specific_heat", sites: sites, temperature: temperature}
}

func (c *SpecificHeat) Name() string             { return c.name }
func (c *SpecificHeat) Observe(s lattice.Sample) { c.m.add(s.Energy) }
func (c *SpecificHeat) Reset()                   { c.m.reset() }

func (c *SpecificHeat) Value() float64 {
	if c.m.n == 0 {
		return 0
	}
	mean := c.m.mean()
	variance := c.m.mean2() - mean*mean
	return variance / (float64(c.sites) * c.temperature * c.temperature)
}
