package analysis

import "math"

// sokalWindow is the c in the self-consistent window M >= c·τ.
const sokalWindow = 5.0

func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// Variance is the population variance.
func Variance(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	mu := Mean(data)
	ss := 0.0
	for _, v := range data {
		d := v - mu
		ss += d * d
	}
	return ss / float64(len(data))
}

// Discard drops the first n entries, the burn-in. It never returns nil for a
// non-nil input.
func Discard(data []float64, n int) []float64 {
	if n <= 0 {
		return data
	}
	if n >= len(data) {
		return data[len(data):]
	}
	return data[n:]
}

// Autocorrelation returns the normalized autocorrelation ρ(0..maxLag) of the
// series, computed by FFT over a zero padded copy so the estimate is not
// circular. ρ(0) is 1 unless the series is constant, in which case every
// entry is 0.
func Autocorrelation(data []float64, maxLag int) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}
	if maxLag >= n || maxLag < 0 {
		maxLag = n - 1
	}

	mu := Mean(data)
	m := nextPow2(2 * n)
	in := make([]complex128, m)
	for i, v := range data {
		in[i] = complex(v-mu, 0)
	}

	power := fft(in)
	for i, v := range power {
		re, im := real(v), imag(v)
		power[i] = complex(re*re+im*im, 0)
	}
	acov := ifft(power)

	rho := make([]float64, maxLag+1)
	c0 := real(acov[0])
	if c0 <= 0 {
		return rho
	}
	for t := range rho {
		rho[t] = real(acov[t]) / c0
	}
	return rho
}

// IntegratedAutocorrTime estimates τ = 1/2 + Σ ρ(t), summed up to the first
// window M with M >= 5τ. A constant or single-sample series gives 1/2.
func IntegratedAutocorrTime(data []float64) float64 {
	rho := Autocorrelation(data, -1)
	if len(rho) < 2 || rho[0] == 0 {
		return 0.5
	}

	tau := 0.5
	for m := 1; m < len(rho); m++ {
		tau += rho[m]
		if float64(m) >= sokalWindow*tau {
			break
		}
	}
	return math.Max(tau, 0.5)
}

// Summary describes one observable series after burn-in.
type Summary struct {
	N                int     `json:"n"`
	Mean             float64 `json:"mean"`
	Variance         float64 `json:"variance"`
	Min              float64 `json:"min"`
	Max              float64 `json:"max"`
	Tau              float64 `json:"tau"`
	EffectiveSamples float64 `json:"effective_samples"`
	StdErr           float64 `json:"stderr"`
}

// Summarize computes the mean and its autocorrelation corrected error.
func Summarize(data []float64) Summary {
	s := Summary{N: len(data)}
	if s.N == 0 {
		return s
	}

	s.Mean = Mean(data)
	s.Variance = Variance(data)
	s.Min, s.Max = data[0], data[0]
	for _, v := range data[1:] {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Tau = IntegratedAutocorrTime(data)
	s.EffectiveSamples = float64(s.N) / (2 * s.Tau)
	s.StdErr = math.Sqrt(s.Variance / s.EffectiveSamples)
	return s
}
