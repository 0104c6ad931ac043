package lattice_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ising/internal/lattice"
)

func sweeps(l *lattice.Lattice, n int) {
	for i := 0; i < n; i++ {
		l.Sweep()
	}
}

func meanAbs(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += math.Abs(x)
	}
	return sum / float64(len(xs))
}

var _ = Describe("Metropolis dynamics", func() {
	DescribeTable("closed-form observables of cold starts",
		func(size int, coupling float64, init lattice.InitMode, energy, magnetization float64) {
			l, err := lattice.New(size, 1.0, coupling, lattice.WithInit(init))
			Expect(err).NotTo(HaveOccurred())
			Expect(l.TotalEnergy()).To(Equal(energy))
			Expect(l.Magnetization()).To(Equal(magnetization))
		},
		Entry("2x2 ferromagnet, all up", 2, 1.0, lattice.InitUp, -8.0, 1.0),
		Entry("2x2 ferromagnet, all down", 2, 1.0, lattice.InitDown, -8.0, -1.0),
		Entry("10x10 ferromagnet", 10, 1.0, lattice.InitUp, -200.0, 1.0),
		Entry("10x10 antiferromagnet", 10, -1.0, lattice.InitUp, 200.0, 1.0),
		Entry("uncoupled", 6, 0.0, lattice.InitDown, 0.0, -1.0),
	)

	Context("in the zero temperature limit", func() {
		It("never raises the energy along a trajectory", func() {
			l, err := lattice.New(12, 1e-9, 1.0, lattice.WithSeed(21))
			Expect(err).NotTo(HaveOccurred())
			sweeps(l, 20)

			e := l.EnergyHistory()
			Expect(e).To(HaveLen(20 * 144))
			for i := 1; i < len(e); i++ {
				Expect(e[i]).To(BeNumerically("<=", e[i-1]), "step %d", i)
			}
		})
	})

	Context("well below the critical temperature", func() {
		It("keeps a cold-started ferromagnet ordered", func() {
			l, err := lattice.New(10, 1.0, 1.0, lattice.WithSeed(3), lattice.WithInit(lattice.InitUp))
			Expect(err).NotTo(HaveOccurred())
			sweeps(l, 50)
			Expect(l.Magnetization()).To(BeNumerically(">", 0.9))
		})

		It("relaxes an aligned antiferromagnet towards the checkerboard", func() {
			l, err := lattice.New(8, 0.5, -1.0, lattice.WithSeed(4), lattice.WithInit(lattice.InitUp))
			Expect(err).NotTo(HaveOccurred())
			Expect(l.TotalEnergy() / 64).To(Equal(2.0))
			sweeps(l, 200)
			Expect(l.TotalEnergy() / 64).To(BeNumerically("<", -0.5))
		})
	})

	Context("well above the critical temperature", func() {
		It("disorders a cold start", func() {
			l, err := lattice.New(16, 10.0, 1.0, lattice.WithSeed(5), lattice.WithInit(lattice.InitUp))
			Expect(err).NotTo(HaveOccurred())
			sweeps(l, 200)

			m := l.MagnetizationHistory()
			Expect(meanAbs(m[len(m)/2:])).To(BeNumerically("<", 0.25))
		})
	})

	It("keeps energy per site within the coupling bounds", func() {
		l, err := lattice.New(8, 2.269, 1.5, lattice.WithSeed(6))
		Expect(err).NotTo(HaveOccurred())
		sweeps(l, 30)
		for _, e := range l.EnergyHistory() {
			Expect(math.Abs(e / 64)).To(BeNumerically("<=", 2*1.5))
		}
		for _, m := range l.MagnetizationHistory() {
			Expect(m).To(BeNumerically(">=", -1.0))
			Expect(m).To(BeNumerically("<=", 1.0))
		}
	})

	It("reports acceptance consistently with its counters", func() {
		l, err := lattice.New(6, 2.0, 1.0, lattice.WithSeed(8))
		Expect(err).NotTo(HaveOccurred())
		sweeps(l, 10)
		Expect(l.Steps()).To(Equal(360))
		Expect(l.AcceptanceRate()).To(BeNumerically("~", float64(l.Accepted())/360, 1e-12))
		Expect(l.AcceptanceRate()).To(BeNumerically(">", 0))
	})
})
