package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ising/internal/config"
	"github.com/san-kum/ising/internal/lattice"
	"github.com/san-kum/ising/internal/sim"
)

const (
	historyCapacity = 600
	frameInterval   = time.Second / 30

	MinTemperature = 0.1
	MaxTemperature = 10.0
	MinCoupling    = -2.0
	MaxCoupling    = 2.0

	temperatureStep = 0.05
	couplingStep    = 0.05
)

const (
	paramTemperature = iota
	paramCoupling
	paramStepsPerTick
	numParams
)

var paramNames = [numParams]string{"T", "J", "steps/tick"}

var (
	panelStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2).Width(48)
	headerStyle      = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type TickMsg time.Time

// Builder makes a fresh lattice at the given temperature and coupling. It is
// called once at start and again on every reset.
type Builder func(temperature, coupling float64) (*lattice.Lattice, error)

// LatticeBuilder builds lattices from cfg with a bounded history. Each call
// after the first advances a non-zero seed so resets differ but a seeded
// session stays reproducible.
func LatticeBuilder(cfg *config.Config) Builder {
	base := *cfg
	calls := int64(0)
	return func(temperature, coupling float64) (*lattice.Lattice, error) {
		c := base
		c.Temperature = temperature
		c.Coupling = coupling
		if c.Seed != 0 {
			c.Seed += calls
		}
		calls++
		return c.NewLattice(lattice.WithHistory(lattice.HistoryWindow(historyCapacity)))
	}
}

// Model is the live view: the lattice, the controls and the two series.
type Model struct {
	build         Builder
	lat           *lattice.Lattice
	temperature   float64
	coupling      float64
	stepsPerTick  int
	running       bool
	selected      int
	ticks         int
	showHelp      bool
	observers     []sim.TickObserver
	err           error
	width, height int
}

func NewModel(build Builder, temperature, coupling float64, stepsPerTick int) (Model, error) {
	m := Model{
		build:        build,
		temperature:  clamp(temperature, MinTemperature, MaxTemperature),
		coupling:     clamp(coupling, MinCoupling, MaxCoupling),
		stepsPerTick: clampInt(stepsPerTick, config.MinStepsPerTick, config.MaxStepsPerTick),
		running:      true,
	}
	l, err := build(m.temperature, m.coupling)
	if err != nil {
		return Model{}, err
	}
	m.lat = l
	return m, nil
}

// AddObserver registers o to be called after every tick that stepped.
func (m *Model) AddObserver(o sim.TickObserver) { m.observers = append(m.observers, o) }

func (m Model) Lattice() *lattice.Lattice { return m.lat }
func (m Model) Temperature() float64      { return m.temperature }
func (m Model) Coupling() float64         { return m.coupling }
func (m Model) StepsPerTick() int         { return m.stepsPerTick }
func (m Model) Running() bool             { return m.running }

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the lattice.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.advance()
			}
		case "r":
			m.reset()
		case "tab":
			m.selected = (m.selected + 1) % numParams
		case "shift+tab":
			m.selected = (m.selected + numParams - 1) % numParams
		case "up", "k":
			m.adjustParam(1)
		case "down", "j":
			m.adjustParam(-1)
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			names := ThemeNames()
			for i, name := range names {
				if name == CurrentTheme.Name {
					SetTheme(names[(i+1)%len(names)])
					break
				}
			}
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

// advance performs one tick of stepsPerTick trials.
func (m *Model) advance() {
	for i := 0; i < m.stepsPerTick; i++ {
		m.lat.Step()
	}
	for _, o := range m.observers {
		o.OnTick(m.lat, m.ticks)
	}
	m.ticks++
}

func (m *Model) adjustParam(dir int) {
	switch m.selected {
	case paramTemperature:
		m.temperature = clamp(round2(m.temperature+float64(dir)*temperatureStep), MinTemperature, MaxTemperature)
		m.setErr(m.lat.SetTemperature(m.temperature))
	case paramCoupling:
		m.coupling = clamp(round2(m.coupling+float64(dir)*couplingStep), MinCoupling, MaxCoupling)
		m.setErr(m.lat.SetCoupling(m.coupling))
	case paramStepsPerTick:
		if dir > 0 {
			m.stepsPerTick *= 2
		} else {
			m.stepsPerTick /= 2
		}
		m.stepsPerTick = clampInt(m.stepsPerTick, config.MinStepsPerTick, config.MaxStepsPerTick)
	}
}

// reset rebuilds the lattice at the current controls, discarding its history.
func (m *Model) reset() {
	l, err := m.build(m.temperature, m.coupling)
	if err != nil {
		m.err = err
		return
	}
	m.lat = l
	m.ticks = 0
	m.err = nil
}

func (m *Model) setErr(err error) {
	if err != nil {
		m.err = err
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	maxRows, maxCols := 0, 0
	if m.height > 0 {
		maxRows = m.height - 2
	}
	if m.width > 0 {
		maxCols = m.width - panelStyle.GetWidth() - 4
	}
	grid := lipgloss.NewStyle().Padding(0, 1).Render(RenderLattice(m.lat, CurrentTheme, maxRows, maxCols))

	var s strings.Builder
	s.WriteString(headerStyle.Foreground(CurrentTheme.Accent).Render(fmt.Sprintf("ISING %d×%d", m.lat.Size(), m.lat.Size())) + "\n")
	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	s.WriteString(status + "\n\n")

	sites := float64(m.lat.Size() * m.lat.Size())
	s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d", m.lat.Steps())) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.1f (%.3f/site)", m.lat.TotalEnergy(), m.lat.TotalEnergy()/sites)) + "\n")
	s.WriteString(labelStyle.Render("Magnet.") + valueStyle.Render(fmt.Sprintf("%+.3f", m.lat.Magnetization())) + "\n")
	s.WriteString(labelStyle.Render("Accept") + ProgressBar(m.lat.AcceptanceRate(), 20) + valueStyle.Render(fmt.Sprintf(" %.1f%%", 100*m.lat.AcceptanceRate())) + "\n")

	s.WriteString("\nPARAMETERS\n")
	for i := 0; i < numParams; i++ {
		line := m.paramLine(i)
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + Subtle.Render(line) + "\n")
		}
	}

	energy := m.lat.EnergyHistory()
	if len(energy) > 1 {
		for i := range energy {
			energy[i] /= sites
		}
		chart := asciigraph.Plot(energy, asciigraph.Height(5), asciigraph.Width(36), asciigraph.Caption("Energy / site"))
		s.WriteString("\n" + graphStyle.Render(chart) + "\n")
	}
	mag := m.lat.MagnetizationHistory()
	if len(mag) > 1 {
		chart := asciigraph.Plot(mag, asciigraph.Height(5), asciigraph.Width(36), asciigraph.Caption("Magnetization"))
		s.WriteString("\n" + graphStyle.Render(chart) + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + errStyle.Render(m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit\nTab:Param ↑↓:Tune T:Theme ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, grid, panelStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  N        - Single tick when paused  ║
║  R        - Reset lattice            ║
║  Q        - Quit                     ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter       ║
║  Down/J   - Decrease parameter       ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func (m Model) paramLine(i int) string {
	const barWidth = 10
	var val, lo, hi float64
	var text string
	switch i {
	case paramTemperature:
		val, lo, hi = m.temperature, MinTemperature, MaxTemperature
		text = fmt.Sprintf("%.2f", val)
	case paramCoupling:
		val, lo, hi = m.coupling, MinCoupling, MaxCoupling
		text = fmt.Sprintf("%+.2f", val)
	case paramStepsPerTick:
		// log scale, matching the doubling steps
		val = math.Log2(float64(m.stepsPerTick))
		lo, hi = 0, math.Log2(config.MaxStepsPerTick)
		text = fmt.Sprintf("%d", m.stepsPerTick)
	}
	ratio := clamp((val-lo)/(hi-lo), 0, 1)
	filled := int(ratio * barWidth)
	bar := "[" + strings.Repeat("=", filled) + strings.Repeat("-", barWidth-filled) + "]"
	return fmt.Sprintf("%-10s %s %s", paramNames[i], bar, text)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// round2 keeps repeated ±0.05 steps from drifting off the grid.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Run starts the live view on the alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
