package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/ising/internal/lattice"
)

const (
	DefaultUpColor   = "#f5f5f5"
	DefaultDownColor = "#1e3a8a"
)

// LatticeToSVG draws one square per spin, row 0 at the top.
func LatticeToSVG(spins [][]lattice.Spin, cell float64, upColor, downColor string) string {
	if len(spins) == 0 {
		return ""
	}
	if upColor == "" {
		upColor = DefaultUpColor
	}
	if downColor == "" {
		downColor = DefaultDownColor
	}

	n := len(spins)
	side := float64(n) * cell

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" shape-rendering="crispEdges">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, side, side, side, side, downColor, upColor))

	// background is the down colour, so only up spins are drawn
	for i, row := range spins {
		for j, s := range row {
			if s != lattice.Up {
				continue
			}
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>
`, float64(j)*cell, float64(i)*cell, cell, cell))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots a recorded observable against step number. Entry i sits
// at step start+i*stride.
func SeriesToSVG(values []float64, start, stride, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}
	if stride <= 0 {
		stride = 1
	}

	minX, maxX := float64(start), float64(start+(len(values)-1)*stride)
	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range values {
		x := (float64(start+i*stride) - minX) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
