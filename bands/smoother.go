package bands

import "math"

// Smoother applies sensitivity gain and exponential-moving-average
// smoothing to raw band readings, keeping the per-field EMA memory across
// frames. Each of the five fields is smoothed independently against its
// own previous value; in particular Level tracks its own EMA state rather
// than being recomputed from the smoothed bands.
//
// Gain clamps on the upper bound only: aggregator output is already
// non-negative, so the asymmetric clamp is sufficient.
type Smoother struct {
	sensitivity float64
	smoothing   float64
	prev        Reading
}

// NewSmoother creates a smoother with the given gain and EMA decay
// factor. Out-of-range values fall back to the defaults 1.0 and 0.8.
func NewSmoother(sensitivity, smoothing float64) *Smoother {
	s := &Smoother{sensitivity: 1.0, smoothing: 0.8}
	s.SetSensitivity(sensitivity)
	s.SetSmoothing(smoothing)
	return s
}

// SetSensitivity updates the gain. Non-positive or non-finite values are
// ignored.
func (s *Smoother) SetSensitivity(v float64) {
	if v > 0 && !math.IsInf(v, 0) {
		s.sensitivity = v
	}
}

// SetSmoothing updates the EMA decay factor. Values outside [0, 1) are
// ignored.
func (s *Smoother) SetSmoothing(v float64) {
	if v >= 0 && v < 1 {
		s.smoothing = v
	}
}

// Apply gains and smooths one raw reading, advancing the EMA memory. The
// result, and therefore every observable reading, stays within [0, 1].
func (s *Smoother) Apply(raw Reading) Reading {
	out := Reading{
		Bass:    s.step(s.prev.Bass, raw.Bass),
		LowMid:  s.step(s.prev.LowMid, raw.LowMid),
		HighMid: s.step(s.prev.HighMid, raw.HighMid),
		Treble:  s.step(s.prev.Treble, raw.Treble),
		Level:   s.step(s.prev.Level, raw.Level),
	}
	s.prev = out
	return out
}

// Current returns the last smoothed reading without advancing state.
func (s *Smoother) Current() Reading { return s.prev }

// Reset zeroes the EMA memory.
func (s *Smoother) Reset() { s.prev = Reading{} }

func (s *Smoother) step(prev, raw float64) float64 {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		raw = 0
	}
	gained := raw * s.sensitivity
	if gained > 1 {
		gained = 1
	}
	return s.smoothing*prev + (1-s.smoothing)*gained
}
