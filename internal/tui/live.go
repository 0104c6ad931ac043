package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/ising/internal/lattice"
)

const (
	barWidth   = 24
	clearLine  = "\r\033[2K"
	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"
)

// ProgressRenderer redraws a single status line for a batch run, at most
// frameRate times a second.
type ProgressRenderer struct {
	out       io.Writer
	total     int
	frameRate int
	lastFrame time.Time
	start     int
}

// NewProgressRenderer reports progress of total steps counted from the
// lattice step count start.
func NewProgressRenderer(out io.Writer, start, total, frameRate int) *ProgressRenderer {
	if frameRate <= 0 {
		frameRate = 10
	}
	return &ProgressRenderer{out: out, start: start, total: total, frameRate: frameRate}
}

func (r *ProgressRenderer) OnTick(l *lattice.Lattice, _ int) {
	if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()
	fmt.Fprint(r.out, clearLine+r.line(l))
}

func (r *ProgressRenderer) line(l *lattice.Lattice) string {
	done := l.Steps() - r.start
	frac := 0.0
	if r.total > 0 {
		frac = min(float64(done)/float64(r.total), 1)
	}
	filled := int(frac * barWidth)
	bar := strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)

	sites := float64(l.Size() * l.Size())
	return fmt.Sprintf("[%s] %3.0f%%  step %d/%d  E/site %+.4f  m %+.4f  acc %4.1f%%",
		bar, 100*frac, done, r.total, l.TotalEnergy()/sites, l.Magnetization(), 100*l.AcceptanceRate())
}

func (r *ProgressRenderer) Start() { fmt.Fprint(r.out, hideCursor) }

// Stop clears the status line and restores the cursor.
func (r *ProgressRenderer) Stop() { fmt.Fprint(r.out, clearLine+showCursor) }
