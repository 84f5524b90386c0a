package analyzer

import "time"

// FrameScheduler runs a callback once before the host presents its next
// frame. Schedule returns a cancel func; cancel prevents a run that has
// not started yet, while a callback already executing may still complete
// (the analyzer's generation counter makes such stragglers no-ops).
type FrameScheduler interface {
	Schedule(fn func()) (cancel func())
}

// defaultFrameInterval approximates a 60 fps display cadence for hosts
// without a real frame clock.
const defaultFrameInterval = time.Second / 60

type tickScheduler struct {
	interval time.Duration
}

// NewTickScheduler returns a wall-clock FrameScheduler firing one-shot
// callbacks every interval. Non-positive intervals fall back to ~60 fps.
func NewTickScheduler(interval time.Duration) FrameScheduler {
	if interval <= 0 {
		interval = defaultFrameInterval
	}
	return &tickScheduler{interval: interval}
}

func (t *tickScheduler) Schedule(fn func()) func() {
	timer := time.AfterFunc(t.interval, fn)
	return func() { timer.Stop() }
}
