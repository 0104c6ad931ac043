package lattice

import "testing"

func benchmarkStep(b *testing.B, size int, p HistoryPolicy) {
	l, err := New(size, 2.269, 1.0, WithSeed(1), WithHistory(p))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Step()
	}
}

func BenchmarkStep16(b *testing.B)        { benchmarkStep(b, 16, HistoryWindow(1024)) }
func BenchmarkStep64(b *testing.B)        { benchmarkStep(b, 64, HistoryWindow(1024)) }
func BenchmarkStep64Stride(b *testing.B)  { benchmarkStep(b, 64, HistoryPolicy{Window: 1024, Stride: 4096}) }
func BenchmarkStep128Stride(b *testing.B) { benchmarkStep(b, 128, HistoryPolicy{Window: 1024, Stride: 16384}) }

func BenchmarkTotalEnergy(b *testing.B) {
	l, err := New(64, 2.269, 1.0, WithSeed(1))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = l.TotalEnergy()
	}
}
