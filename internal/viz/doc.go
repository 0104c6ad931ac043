// Package viz provides the terminal view of a running lattice.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live lattice with temperature, coupling and speed controls
//   - [RenderLattice]: half-block renderer, two lattice rows per line
//   - [RunInteractive]: preset launcher in front of the live view
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single tick while paused
//	R     - Rebuild the lattice at the current T and J
//	Tab   - Cycle parameters
//	↑/↓   - Adjust the selected parameter
//	T     - Cycle color themes
//	?     - Show help overlay
//
// Temperature is held in [0.1, 10], coupling in [-2, 2] and steps per tick in
// [1, 500]. Changing T or J applies to the next step and keeps the plotted
// history; reset starts a fresh lattice and history.
package viz
