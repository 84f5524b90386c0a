// Package scopeui is the Bubbletea front end for the bandscope demo. It
// polls the analyzer once per display frame and renders the four band
// meters plus the weighted level.
package scopeui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-reactive/analyzer"
)

const (
	barCount = 5

	minSensitivity = 0.1
	maxSensitivity = 8.0
	maxSmoothing   = 0.95

	springFrequency = 6.0
	springDamping   = 0.6
)

var barLabels = [barCount]string{"bass", "low-mid", "high-mid", "treble", "level"}

type tickMsg time.Time

// startedMsg carries the result of an asynchronous Start attempt.
type startedMsg bool

// Model is the Bubbletea model for the bandscope TUI.
type Model struct {
	an       *analyzer.Analyzer
	fps      int
	springs  springField
	heights  [barCount]float64
	width    int
	quitting bool
}

// NewModel creates the TUI model around a configured analyzer.
func NewModel(an *analyzer.Analyzer, fps int) Model {
	if fps <= 0 {
		fps = 60
	}
	m := Model{
		an:      an,
		fps:     fps,
		springs: newSpringField(fps, springFrequency, springDamping),
	}
	m.springs.resize(barCount)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(startCmd(m.an), tickCmd(m.fps))
}

// startCmd runs Start off the UI goroutine; acquisition may block on a
// permission prompt.
func startCmd(an *analyzer.Analyzer) tea.Cmd {
	return func() tea.Msg {
		return startedMsg(an.Start())
	}
}

func tickCmd(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case startedMsg:
		return m, nil

	case tickMsg:
		arr := m.an.BandsArray()
		level := m.an.Level()
		targets := [barCount]float64{arr[0], arr[1], arr[2], arr[3], level}
		for i, target := range targets {
			m.heights[i] = m.springs.step(i, target)
		}
		return m, tickCmd(m.fps)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.an.Dispose()
		return m, tea.Quit

	case " ":
		if m.an.State() == analyzer.StateActive {
			m.an.Stop()
			m.springs.zero()
			m.heights = [barCount]float64{}
			return m, nil
		}
		return m, startCmd(m.an)

	case "+", "=":
		m.adjustSensitivity(0.1)
	case "-":
		m.adjustSensitivity(-0.1)
	case "]":
		m.adjustSmoothing(0.05)
	case "[":
		m.adjustSmoothing(-0.05)
	}
	return m, nil
}

func (m Model) adjustSensitivity(delta float64) {
	v := m.an.Config().Sensitivity + delta
	if v < minSensitivity {
		v = minSensitivity
	}
	if v > maxSensitivity {
		v = maxSensitivity
	}
	m.an.SetConfig(analyzer.ConfigUpdate{Sensitivity: &v})
}

func (m Model) adjustSmoothing(delta float64) {
	v := m.an.Config().Smoothing + delta
	if v < 0 {
		v = 0
	}
	if v > maxSmoothing {
		v = maxSmoothing
	}
	m.an.SetConfig(analyzer.ConfigUpdate{Smoothing: &v})
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "242", Dark: "246"})
	faultStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "247", Dark: "241"})
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	barWidth := m.width - 12
	if barWidth < 10 {
		barWidth = 40
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("bandscope"))
	b.WriteString("  ")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	for i, label := range barLabels {
		b.WriteString(renderBar(label, m.heights[i], barWidth, barStyles[i]))
		b.WriteString("\n")
	}

	cfg := m.an.Config()
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("sensitivity %.1f  smoothing %.2f  fft %d", cfg.Sensitivity, cfg.Smoothing, cfg.TransformSize)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space start/stop · +/- sensitivity · [/] smoothing · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) statusLine() string {
	state := m.an.State()
	switch state {
	case analyzer.StateDenied, analyzer.StateError:
		msg := m.an.Err()
		if msg == "" {
			return faultStyle.Render(state.String())
		}
		return faultStyle.Render(state.String() + ": " + msg)
	default:
		return statusStyle.Render(state.String())
	}
}
