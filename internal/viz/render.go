package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/ising/internal/lattice"
)

const halfBlock = "▀"

// RenderLattice draws two lattice rows per terminal line using the upper half
// block: foreground is the upper spin, background the lower. Zero limits mean
// no clipping.
func RenderLattice(l *lattice.Lattice, theme Theme, maxRows, maxCols int) string {
	n := l.Size()
	rows, cols := n, n
	if maxRows > 0 {
		rows = min(rows, 2*maxRows)
	}
	if maxCols > 0 {
		cols = min(cols, maxCols)
	}

	colors := [2]lipgloss.Color{theme.SpinDown, theme.SpinUp}
	var cells [2][2]string
	for top := 0; top < 2; top++ {
		for bottom := 0; bottom < 2; bottom++ {
			cells[top][bottom] = lipgloss.NewStyle().
				Foreground(colors[top]).
				Background(colors[bottom]).
				Render(halfBlock)
		}
	}
	var lone [2]string
	for top := 0; top < 2; top++ {
		lone[top] = lipgloss.NewStyle().Foreground(colors[top]).Render(halfBlock)
	}

	var sb strings.Builder
	for i := 0; i < rows; i += 2 {
		for j := 0; j < cols; j++ {
			top := spinIndex(l.At(i, j))
			if i+1 < rows {
				sb.WriteString(cells[top][spinIndex(l.At(i+1, j))])
			} else {
				sb.WriteString(lone[top])
			}
		}
		if i+2 < rows {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func spinIndex(s lattice.Spin) int {
	if s == lattice.Up {
		return 1
	}
	return 0
}
