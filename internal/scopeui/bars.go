package scopeui

import (
	"strings"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
)

// springField drives the bar heights toward their targets with a little
// overshoot so the meters feel physical instead of snapping.
type springField struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

func newSpringField(fps int, frequency, damping float64) springField {
	return springField{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

func (s *springField) resize(n int) {
	if len(s.pos) == n {
		return
	}
	s.pos = make([]float64, n)
	s.vel = make([]float64, n)
}

func (s *springField) step(i int, target float64) float64 {
	p, v := s.spring.Update(s.pos[i], s.vel[i], target)
	s.pos[i] = p
	s.vel[i] = v
	return p
}

func (s *springField) zero() {
	for i := range s.pos {
		s.pos[i] = 0
		s.vel[i] = 0
	}
}

var (
	labelStyle = lipgloss.NewStyle().Width(9).Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "250"})
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "253", Dark: "238"})

	barStyles = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("205")), // bass
		lipgloss.NewStyle().Foreground(lipgloss.Color("209")), // low-mid
		lipgloss.NewStyle().Foreground(lipgloss.Color("220")), // high-mid
		lipgloss.NewStyle().Foreground(lipgloss.Color("84")),  // treble
		lipgloss.NewStyle().Foreground(lipgloss.Color("75")),  // level
	}
)

// renderBar draws a single horizontal meter, v in [0, 1] mapped onto
// width cells.
func renderBar(label string, v float64, width int, style lipgloss.Style) string {
	if width < 1 {
		width = 1
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	filled := int(v*float64(width) + 0.5)
	if filled > width {
		filled = width
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(label))
	b.WriteString(style.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))
	return b.String()
}
