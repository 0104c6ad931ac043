package analysis

import (
	"math"
	"math/cmplx"
)

func FFT(data []float64) []complex128 {
	in := make([]complex128, len(data))
	for i, v := range data {
		in[i] = complex(v, 0)
	}
	return fft(in)
}

func fft(data []complex128) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		copy(result, data)
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := fft(even)
	fodd := fft(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// ifft inverts fft through the conjugate identity.
func ifft(data []complex128) []complex128 {
	n := len(data)
	conj := make([]complex128, n)
	for i, v := range data {
		conj[i] = cmplx.Conj(v)
	}
	out := fft(conj)
	for i, v := range out {
		out[i] = cmplx.Conj(v) / complex(float64(n), 0)
	}
	return out
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PowerSpectrum returns |X_k|² for the lower half of the spectrum of the mean
// removed series, zero padded to a power of two.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	padded := make([]float64, nextPow2(len(data)))
	mu := Mean(data)
	for i, v := range data {
		padded[i] = v - mu
	}

	spectrum := FFT(padded)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		a := cmplx.Abs(spectrum[i])
		ps[i] = a * a
	}

	return ps
}
