package lattice

import "math/rand"

// Spin is a two-state magnetic moment. Its value is always Up or Down.
type Spin int8

const (
	Up   Spin = 1
	Down Spin = -1
)

// NewSpin returns Up or Down with equal probability.
func NewSpin(r *rand.Rand) Spin {
	if r.Intn(2) == 0 {
		return Down
	}
	return Up
}

// Flip reverses the spin in place.
func (s *Spin) Flip() { *s = -*s }

func (s Spin) Int() int { return int(s) }

func (s Spin) String() string {
	if s == Up {
		return "+"
	}
	return "-"
}
