// Package analysis provides time-series tools for Monte Carlo output.
//
// Successive Metropolis samples are correlated, so the naive error of a mean
// underestimates the truth. The package estimates how strongly:
//
//   - [Autocorrelation]: normalized autocorrelation function via FFT
//   - [IntegratedAutocorrTime]: τ with a self-consistent summation window
//   - [Summarize]: mean, variance, τ and the corrected standard error
//   - [PowerSpectrum]: spectral density of a series
//
// # Burn-in
//
// Drop the equilibration segment before summarizing:
//
//	e := analysis.Discard(history.Energy, 10000)
//	s := analysis.Summarize(e)
//	fmt.Printf("E = %.4f ± %.4f (τ = %.1f)\n", s.Mean, s.StdErr, s.Tau)
package analysis
