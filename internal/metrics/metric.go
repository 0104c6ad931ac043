package metrics

import "github.com/san-kum/ising/internal/lattice"

// Metric is an estimator fed with every sample a lattice records.
type Metric interface {
	lattice.Observer
	Name() string
	Value() float64
	Reset()
}

// moments accumulates the raw moments needed by the estimators.
type moments struct {
	n               int
	sum, sum2, sum4 float64
	sumAbs          float64
}

func (m *moments) add(x float64) {
	x2 := x * x
	m.n++
	m.sum += x
	m.sumAbs += abs(x)
	m.sum2 += x2
	m.sum4 += x2 * x2
}

func (m *moments) mean() float64    { return m.div(m.sum) }
func (m *moments) meanAbs() float64 { return m.div(m.sumAbs) }
func (m *moments) mean2() float64   { return m.div(m.sum2) }
func (m *moments) mean4() float64   { return m.div(m.sum4) }

func (m *moments) div(s float64) float64 {
	if m.n == 0 {
		return 0
	}
	return s / float64(m.n)
}

func (m *moments) reset() { *m = moments{} }

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

type equilibrated struct {
	Metric
	discard int
}

// Equilibrated drops samples recorded before step discard, so burn-in does not
// bias m.
func Equilibrated(m Metric, discard int) Metric {
	if discard <= 0 {
		return m
	}
	return &equilibrated{Metric: m, discard: discard}
}

func (e *equilibrated) Observe(s lattice.Sample) {
	if s.Step < e.discard {
		return
	}
	e.Metric.Observe(s)
}
