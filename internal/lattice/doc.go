// Package lattice implements the 2D Ising model on a periodic square lattice.
//
// The package holds the simulation engine and nothing else:
//
//   - [Spin]: a ±1 magnetic moment
//   - [Lattice]: an L×L toroidal grid of spins with temperature and coupling
//   - [Lattice.Step]: one single-spin-flip Metropolis trial
//   - [History]: energy and magnetization recorded after every step
//
// # Example
//
//	l, err := lattice.New(50, 2.0, 1.0, lattice.WithSeed(42))
//	if err != nil {
//	    return err
//	}
//	for i := 0; i < 100; i++ {
//	    l.Step()
//	}
//	e, m := l.TotalEnergy(), l.Magnetization()
//
// # Randomness
//
// Every lattice owns its random source. Pass [WithSeed] or [WithRand] to make
// a trajectory reproducible.
//
// # Thread Safety
//
// Lattice instances are NOT thread-safe. A lattice must be stepped and read
// from one goroutine at a time; independent runs should use independent
// lattices.
package lattice
