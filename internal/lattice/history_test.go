package lattice

import "testing"

func TestHistoryWindowKeepsNewest(t *testing.T) {
	l := mustNew(t, 4, 2.0, 1.0, WithSeed(2), WithHistory(HistoryWindow(5)))
	for n := 0; n < 12; n++ {
		l.Step()
	}

	h := l.History()
	if h.Len() != 5 || len(h.Magnetization) != 5 {
		t.Fatalf("expected 5 entries, got %d/%d", h.Len(), len(h.Magnetization))
	}
	if h.Start != 7 || h.Step(0) != 7 || h.Step(4) != 11 {
		t.Errorf("unexpected step mapping: start=%d first=%d last=%d", h.Start, h.Step(0), h.Step(4))
	}
	if h.Energy[4] != l.TotalEnergy() {
		t.Errorf("newest entry %v does not match current energy %v", h.Energy[4], l.TotalEnergy())
	}
}

func TestHistoryStrideSamples(t *testing.T) {
	obs := &countingObserver{}
	l := mustNew(t, 4, 2.0, 1.0, WithSeed(2), WithHistory(HistoryStride(3)), WithObserver(obs))
	for n := 0; n < 10; n++ {
		l.Step()
	}

	h := l.History()
	if h.Len() != 4 {
		t.Fatalf("expected entries for steps 0,3,6,9, got %d", h.Len())
	}
	for i, want := range []int{0, 3, 6, 9} {
		if h.Step(i) != want {
			t.Errorf("entry %d: step %d, want %d", i, h.Step(i), want)
		}
		if obs.samples[i].Step != want {
			t.Errorf("observer sample %d: step %d, want %d", i, obs.samples[i].Step, want)
		}
	}
	if l.Steps() != 10 {
		t.Errorf("stride must not affect step count, got %d", l.Steps())
	}
}

func TestHistoryWindowWithStride(t *testing.T) {
	l := mustNew(t, 4, 2.0, 1.0, WithSeed(2), WithHistory(HistoryPolicy{Window: 3, Stride: 4}))
	for n := 0; n < 30; n++ {
		l.Step()
	}

	// steps 0,4,...,28 recorded; the last three are 20, 24, 28.
	h := l.History()
	if h.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", h.Len())
	}
	if h.Step(0) != 20 || h.Step(2) != 28 {
		t.Errorf("unexpected steps %d..%d", h.Step(0), h.Step(2))
	}
}

func TestHistoryTail(t *testing.T) {
	h := History{
		Start:         2,
		Stride:        2,
		Energy:        []float64{1, 2, 3, 4, 5},
		Magnetization: []float64{.1, .2, .3, .4, .5},
	}

	tail := h.Tail(2)
	if tail.Len() != 2 || tail.Energy[0] != 4 || tail.Magnetization[1] != .5 {
		t.Errorf("unexpected tail %+v", tail)
	}
	if tail.Step(0) != 8 {
		t.Errorf("expected tail to start at step 8, got %d", tail.Step(0))
	}
	if h.Tail(10).Len() != 5 {
		t.Error("Tail larger than history should return everything")
	}
}

func TestHistoryPolicyIsUnbounded(t *testing.T) {
	tests := []struct {
		p    HistoryPolicy
		want bool
	}{
		{HistoryUnbounded(), true},
		{HistoryStride(1), true},
		{HistoryStride(2), false},
		{HistoryWindow(10), false},
	}
	for _, tt := range tests {
		if got := tt.p.IsUnbounded(); got != tt.want {
			t.Errorf("%+v.IsUnbounded() = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestSpinFlip(t *testing.T) {
	s := Up
	s.Flip()
	if s != Down {
		t.Errorf("expected Down after flip, got %v", s)
	}
	s.Flip()
	if s != Up || s.Int() != 1 || s.String() != "+" {
		t.Errorf("expected Up after second flip, got %v", s)
	}
}
