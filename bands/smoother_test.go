package bands

import (
	"math"
	"testing"
)

func TestSmootherGainClampsUpperOnly(t *testing.T) {
	s := NewSmoother(2.0, 0)

	out := s.Apply(Reading{Bass: 0.6})
	if out.Bass != 1 {
		t.Fatalf("gained bass must clamp to 1.0: got=%f", out.Bass)
	}
	if out.LowMid != 0 {
		t.Fatalf("zero input stays zero: got=%f", out.LowMid)
	}
}

func TestSmootherZeroSmoothingHasNoLag(t *testing.T) {
	s := NewSmoother(1.0, 0)

	out := s.Apply(Reading{Bass: 0.25, LowMid: 0.5, HighMid: 0.75, Treble: 1, Level: 0.4})
	want := Reading{Bass: 0.25, LowMid: 0.5, HighMid: 0.75, Treble: 1, Level: 0.4}
	if out != want {
		t.Fatalf("smoothing=0 must pass gained values through: %+v", out)
	}
}

func TestSmootherBoundedStep(t *testing.T) {
	const smoothing = 0.8
	s := NewSmoother(1.0, smoothing)

	inputs := []Reading{
		{Bass: 1, LowMid: 1, HighMid: 1, Treble: 1, Level: 1},
		{},
		{Bass: 1, Level: 0.7},
		{LowMid: 0.3, Treble: 0.9},
		{},
	}

	prev := s.Current()
	for i, in := range inputs {
		out := s.Apply(in)

		fields := [][2]float64{
			{prev.Bass, out.Bass},
			{prev.LowMid, out.LowMid},
			{prev.HighMid, out.HighMid},
			{prev.Treble, out.Treble},
			{prev.Level, out.Level},
		}
		for _, f := range fields {
			if d := math.Abs(f[1] - f[0]); d > (1-smoothing)+1e-12 {
				t.Fatalf("frame %d: step %f exceeds bound %f", i, d, 1-smoothing)
			}
		}
		prev = out
	}
}

func TestSmootherSilenceSettlesToZero(t *testing.T) {
	s := NewSmoother(1.0, 0.8)

	for i := 0; i < 20; i++ {
		s.Apply(Reading{Bass: 1, LowMid: 1, HighMid: 1, Treble: 1, Level: 1})
	}
	var out Reading
	for i := 0; i < 60; i++ {
		out = s.Apply(Reading{})
	}

	for _, v := range []float64{out.Bass, out.LowMid, out.HighMid, out.Treble, out.Level} {
		if v > 1e-4 {
			t.Fatalf("EMA must settle toward 0 under silence: %+v", out)
		}
		if v < 0 {
			t.Fatalf("EMA must never undershoot 0: %+v", out)
		}
	}
}

func TestSmootherCoercesNonFinite(t *testing.T) {
	s := NewSmoother(1.0, 0)

	out := s.Apply(Reading{
		Bass:    math.NaN(),
		LowMid:  math.Inf(1),
		HighMid: math.Inf(-1),
		Treble:  0.5,
		Level:   math.NaN(),
	})
	if out.Bass != 0 || out.LowMid != 0 || out.HighMid != 0 || out.Level != 0 {
		t.Fatalf("non-finite inputs must coerce to 0: %+v", out)
	}
	if out.Treble != 0.5 {
		t.Fatalf("finite input unaffected: %+v", out)
	}
}

func TestSmootherLevelUsesOwnState(t *testing.T) {
	s := NewSmoother(1.0, 0.5)

	// Only Level is driven; the band fields must stay at zero and Level
	// must follow its own EMA, not a function of the smoothed bands.
	out := s.Apply(Reading{Level: 1})
	if out.Bass != 0 || out.LowMid != 0 || out.HighMid != 0 || out.Treble != 0 {
		t.Fatalf("band fields must be independent of level: %+v", out)
	}
	if math.Abs(out.Level-0.5) > 1e-12 {
		t.Fatalf("level EMA: got=%f want=0.5", out.Level)
	}

	out = s.Apply(Reading{Level: 1})
	if math.Abs(out.Level-0.75) > 1e-12 {
		t.Fatalf("level EMA: got=%f want=0.75", out.Level)
	}
}

func TestSmootherSettersIgnoreInvalid(t *testing.T) {
	s := NewSmoother(0, -1)

	// Constructor falls back to defaults for out-of-range values.
	out := s.Apply(Reading{Bass: 1})
	if math.Abs(out.Bass-0.2) > 1e-12 {
		t.Fatalf("default sensitivity/smoothing expected: got=%f want=0.2", out.Bass)
	}

	s.SetSensitivity(math.NaN())
	s.SetSensitivity(-2)
	s.SetSmoothing(1)
	s.SetSmoothing(math.NaN())

	out = s.Apply(Reading{Bass: 1})
	if math.Abs(out.Bass-(0.8*0.2+0.2)) > 1e-12 {
		t.Fatalf("invalid setter values must be ignored: got=%f", out.Bass)
	}
}

func TestSmootherReset(t *testing.T) {
	s := NewSmoother(1.0, 0.8)
	s.Apply(Reading{Bass: 1, Level: 1})

	s.Reset()
	if s.Current() != (Reading{}) {
		t.Fatalf("Reset must zero the EMA memory: %+v", s.Current())
	}
}
