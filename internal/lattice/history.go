package lattice

import (
	"fmt"
	"slices"
)

// HistoryPolicy controls which steps are recorded and how many samples are
// retained. The zero value records every step and never discards anything.
type HistoryPolicy struct {
	// Window caps the number of retained samples; the oldest are dropped
	// first. Zero means unbounded.
	Window int
	// Stride records one sample every Stride steps, starting with step 0.
	// Zero and one both mean every step.
	Stride int
}

func HistoryUnbounded() HistoryPolicy   { return HistoryPolicy{} }
func HistoryWindow(n int) HistoryPolicy { return HistoryPolicy{Window: n} }
func HistoryStride(k int) HistoryPolicy { return HistoryPolicy{Stride: k} }

// IsUnbounded reports whether every step is recorded and kept.
func (p HistoryPolicy) IsUnbounded() bool { return p.Window == 0 && p.stride() == 1 }

func (p HistoryPolicy) stride() int {
	if p.Stride <= 1 {
		return 1
	}
	return p.Stride
}

func (p HistoryPolicy) validate() error {
	if p.Window < 0 {
		return fmt.Errorf("%w: window %d", ErrInvalidHistory, p.Window)
	}
	if p.Stride < 0 {
		return fmt.Errorf("%w: stride %d", ErrInvalidHistory, p.Stride)
	}
	return nil
}

// History is a snapshot of the recorded observables. Entry i was recorded
// after step Start+i*Stride (0-based).
type History struct {
	Start         int
	Stride        int
	Energy        []float64
	Magnetization []float64
}

func (h History) Len() int { return len(h.Energy) }

// Step returns the 0-based step index of entry i.
func (h History) Step(i int) int { return h.Start + i*h.Stride }

// Tail returns a copy holding at most the last n entries.
func (h History) Tail(n int) History {
	if n < 0 || n >= h.Len() {
		return h
	}
	skip := h.Len() - n
	return History{
		Start:         h.Step(skip),
		Stride:        h.Stride,
		Energy:        h.Energy[skip:],
		Magnetization: h.Magnetization[skip:],
	}
}

// recorder keeps both series in lockstep so their lengths never diverge.
type recorder struct {
	policy        HistoryPolicy
	start         int
	energy        []float64
	magnetization []float64
}

func newRecorder(p HistoryPolicy) recorder {
	return recorder{
		policy:        p,
		energy:        make([]float64, 0),
		magnetization: make([]float64, 0),
	}
}

func (r *recorder) wants(step int) bool { return step%r.policy.stride() == 0 }

func (r *recorder) record(energy, magnetization float64) {
	r.energy = append(r.energy, energy)
	r.magnetization = append(r.magnetization, magnetization)
	if w := r.policy.Window; w > 0 && len(r.energy) > w {
		drop := len(r.energy) - w
		r.energy = r.energy[drop:]
		r.magnetization = r.magnetization[drop:]
		r.start += drop * r.policy.stride()
	}
}

func (r *recorder) snapshot() History {
	return History{
		Start:         r.start,
		Stride:        r.policy.stride(),
		Energy:        slices.Clone(r.energy),
		Magnetization: slices.Clone(r.magnetization),
	}
}
