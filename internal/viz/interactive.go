package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/ising/internal/config"
	"github.com/san-kum/ising/internal/sim"
)

var presetInfo = map[string]string{
	"ordered":    "ferromagnet below Tc",
	"critical":   "Onsager critical point",
	"disordered": "paramagnet, hot start",
	"antiferro":  "checkerboard order, J<0",
	"quench":     "domain coarsening",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

type field struct {
	name string
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
	step float64
}

var configFields = []field{
	{"size", func(c *config.Config) float64 { return float64(c.Size) }, func(c *config.Config, v float64) { c.Size = max(int(v), 1) }, 2},
	{"temperature", func(c *config.Config) float64 { return c.Temperature }, func(c *config.Config, v float64) { c.Temperature = clamp(v, MinTemperature, MaxTemperature) }, 0.1},
	{"coupling", func(c *config.Config) float64 { return c.Coupling }, func(c *config.Config, v float64) { c.Coupling = clamp(v, MinCoupling, MaxCoupling) }, 0.1},
	{"steps/tick", func(c *config.Config) float64 { return float64(c.StepsPerTick) }, func(c *config.Config, v float64) {
		c.StepsPerTick = clampInt(int(v), config.MinStepsPerTick, config.MaxStepsPerTick)
	}, 10},
	{"seed", func(c *config.Config) float64 { return float64(c.Seed) }, func(c *config.Config, v float64) { c.Seed = int64(v) }, 1},
}

// model is the launcher: pick a preset, tweak it, then run the live view.
type model struct {
	state, cursor int
	presets       []string
	cfg           *config.Config
	fieldCursor   int
	editing       bool
	editBuf       string
	observers     []sim.TickObserver
	err           error
	width, height int
	liveModel     Model
}

func NewInteractiveApp(observers ...sim.TickObserver) *model {
	return &model{
		state:     stateMenu,
		presets:   config.ListPresets(),
		observers: observers,
		width:     80, height: 24,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
		return m, nil
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.cfg = config.GetPreset(m.presets[m.cursor])
		m.state, m.fieldCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	f := configFields[m.fieldCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%g", &val); err == nil {
				f.set(m.cfg, val)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
	case "down", "j":
		if m.fieldCursor < len(configFields)-1 {
			m.fieldCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, fmt.Sprintf("%g", f.get(m.cfg))
	case "s":
		cmd := m.start()
		return m, cmd
	case "left", "h":
		f.set(m.cfg, f.get(m.cfg)-f.step)
	case "right", "l":
		f.set(m.cfg, f.get(m.cfg)+f.step)
	}
	return m, nil
}

func (m *model) start() tea.Cmd {
	live, err := NewModel(LatticeBuilder(m.cfg), m.cfg.Temperature, m.cfg.Coupling, m.cfg.StepsPerTick)
	if err != nil {
		m.err = err
		return nil
	}
	for _, o := range m.observers {
		live.AddObserver(o)
	}
	live.width, live.height = m.width, m.height
	m.liveModel = live
	m.state = stateSim
	return m.liveModel.Init()
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder
	sub := lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	b.WriteString("\n\n    " + GradientText("ISING", "#00cccc", "#ff88ff") + "\n    " + sub.Render("2d lattice, metropolis dynamics") + "\n    " + Separator(31) + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true).Render("▸"), lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true).Render(fmt.Sprintf("%-12s", name)), lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff")).Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", lipgloss.NewStyle().Foreground(lipgloss.Color("#555566")).Render(fmt.Sprintf("  %-12s", name)), lipgloss.NewStyle().Foreground(lipgloss.Color("#444455")).Render(desc)))
		}
	}
	b.WriteString("\n    " + KeyHint.Render("j/k") + Subtle.Render(" navigate  ") + KeyHint.Render("enter") + Subtle.Render(" select  ") + KeyHint.Render("q") + Subtle.Render(" quit") + "\n")
	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder
	name := m.presets[m.cursor]
	h, sub := lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true), lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	b.WriteString("\n\n    " + h.Render(strings.ToUpper(name)) + "\n    " + sub.Render(presetInfo[name]) + "\n    " + Separator(31) + "\n\n")
	for i, f := range configFields {
		valStr := fmt.Sprintf("%10g", f.get(m.cfg))
		if m.editing && i == m.fieldCursor {
			valStr = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		if i == m.fieldCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true).Render("▸"), lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true).Render(fmt.Sprintf("%-12s", f.name)), lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff")).Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", lipgloss.NewStyle().Foreground(lipgloss.Color("#555566")).Render(fmt.Sprintf("  %-12s", f.name)), lipgloss.NewStyle().Foreground(lipgloss.Color("#444455")).Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + KeyHint.Render("j/k") + Subtle.Render(" select  ") + KeyHint.Render("h/l") + Subtle.Render(" adjust  ") + KeyHint.Render("s") + Subtle.Render(" start  ") + KeyHint.Render("esc") + Subtle.Render(" back") + "\n")
	return b.String()
}

func RunInteractive(observers ...sim.TickObserver) error {
	_, err := tea.NewProgram(NewInteractiveApp(observers...), tea.WithAltScreen()).Run()
	return err
}
