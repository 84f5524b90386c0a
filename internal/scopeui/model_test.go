package scopeui

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwbudde/algo-reactive/analyzer"
	"github.com/cwbudde/algo-reactive/spectrum"
)

type stubProvider struct{}

func (stubProvider) Samples(dst []float64) (int, error) {
	for i := range dst {
		dst[i] = 0
	}
	return len(dst), nil
}

func (stubProvider) SampleRate() float64 { return 44100 }
func (stubProvider) Release() error     { return nil }

type stubSource struct {
	mags []float64
}

func (s *stubSource) ReadSpectrum() ([]float64, error) { return s.mags, nil }
func (s *stubSource) SampleRate() float64              { return 44100 }
func (s *stubSource) BinCount() int                    { return len(s.mags) }
func (s *stubSource) Resize(int) error                 { return nil }
func (s *stubSource) Release() error                   { return nil }

// stubScheduler collects frame callbacks for the test to run by hand.
type stubScheduler struct {
	mu      sync.Mutex
	pending []func()
}

func (s *stubScheduler) Schedule(fn func()) func() {
	s.mu.Lock()
	s.pending = append(s.pending, fn)
	s.mu.Unlock()
	return func() {}
}

func (s *stubScheduler) fire() {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return
	}
	fn := s.pending[0]
	s.pending = s.pending[1:]
	s.mu.Unlock()
	fn()
}

func newTestAnalyzer(sched *stubScheduler, opts ...analyzer.Option) *analyzer.Analyzer {
	src := &stubSource{mags: fullScale(1024)}
	base := []analyzer.Option{
		analyzer.WithDeviceOpener(func() (spectrum.SampleProvider, error) {
			return stubProvider{}, nil
		}),
		analyzer.WithSourceFactory(func(spectrum.SampleProvider, int) (spectrum.Source, error) {
			return src, nil
		}),
		analyzer.WithScheduler(sched),
	}
	return analyzer.New(append(base, opts...)...)
}

func fullScale(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = 1
	}
	return s
}

func TestModelTickTracksAnalyzer(t *testing.T) {
	sched := &stubScheduler{}
	an := newTestAnalyzer(sched, analyzer.WithSmoothing(0))
	defer an.Dispose()

	if !an.Start() {
		t.Fatalf("Start() = false")
	}
	sched.fire()

	m := NewModel(an, 60)
	for i := 0; i < 120; i++ {
		m, _ = m.handleMsg(tickMsg(time.Now()))
	}

	if m.heights[4] < 0.9 {
		t.Fatalf("level bar = %g after settling on a full-scale signal", m.heights[4])
	}
	for i := 0; i < 4; i++ {
		if m.heights[i] < 0.9 {
			t.Fatalf("bar %d = %g after settling on a full-scale signal", i, m.heights[i])
		}
	}
}

func TestModelQuitDisposes(t *testing.T) {
	sched := &stubScheduler{}
	an := newTestAnalyzer(sched)
	an.Start()

	m := NewModel(an, 60)
	next, cmd := m.handleMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("quit key returned nil command")
	}
	if !next.quitting {
		t.Fatalf("quit key did not mark the model quitting")
	}
	if got := an.State(); got != analyzer.StateInactive {
		t.Fatalf("State() after quit = %v, want %v", got, analyzer.StateInactive)
	}
	if next.View() != "" {
		t.Fatalf("View() while quitting = %q, want empty", next.View())
	}
}

func TestModelSpaceTogglesCapture(t *testing.T) {
	sched := &stubScheduler{}
	an := newTestAnalyzer(sched)
	defer an.Dispose()
	an.Start()

	m := NewModel(an, 60)
	m, cmd := m.handleMsg(tea.KeyMsg{Type: tea.KeySpace})
	if cmd != nil {
		t.Fatalf("space while active returned a command")
	}
	if got := an.State(); got != analyzer.StateInactive {
		t.Fatalf("State() after toggle = %v, want %v", got, analyzer.StateInactive)
	}

	_, cmd = m.handleMsg(tea.KeyMsg{Type: tea.KeySpace})
	if cmd == nil {
		t.Fatalf("space while inactive returned nil command")
	}
	if msg := cmd(); msg != startedMsg(true) {
		t.Fatalf("restart command returned %v, want startedMsg(true)", msg)
	}
	if got := an.State(); got != analyzer.StateActive {
		t.Fatalf("State() after restart = %v, want %v", got, analyzer.StateActive)
	}
}

func TestModelSensitivityClamps(t *testing.T) {
	sched := &stubScheduler{}
	an := newTestAnalyzer(sched)
	defer an.Dispose()

	m := NewModel(an, 60)
	for i := 0; i < 200; i++ {
		m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	}
	if got := an.Config().Sensitivity; got > maxSensitivity {
		t.Fatalf("Sensitivity = %g, want <= %g", got, maxSensitivity)
	}

	for i := 0; i < 200; i++ {
		m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	}
	if got := an.Config().Sensitivity; got < minSensitivity {
		t.Fatalf("Sensitivity = %g, want >= %g", got, minSensitivity)
	}
}

func TestModelSmoothingClamps(t *testing.T) {
	sched := &stubScheduler{}
	an := newTestAnalyzer(sched)
	defer an.Dispose()

	m := NewModel(an, 60)
	for i := 0; i < 100; i++ {
		m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{']'}})
	}
	if got := an.Config().Smoothing; got > maxSmoothing {
		t.Fatalf("Smoothing = %g, want <= %g", got, maxSmoothing)
	}

	for i := 0; i < 100; i++ {
		m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'['}})
	}
	if got := an.Config().Smoothing; got < 0 {
		t.Fatalf("Smoothing = %g, want >= 0", got)
	}
}

func TestModelViewShowsStateAndBars(t *testing.T) {
	sched := &stubScheduler{}
	an := newTestAnalyzer(sched)
	defer an.Dispose()

	m := NewModel(an, 60)
	out := m.View()

	if !strings.Contains(out, "inactive") {
		t.Errorf("View() missing state, got:\n%s", out)
	}
	for _, label := range barLabels {
		if !strings.Contains(out, label) {
			t.Errorf("View() missing %q bar", label)
		}
	}

	an.Start()
	if out = m.View(); !strings.Contains(out, "active") {
		t.Errorf("View() missing active state, got:\n%s", out)
	}
}
