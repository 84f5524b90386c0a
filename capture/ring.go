package capture

import "sync"

// sampleRing is a fixed-capacity ring of the most recent input samples.
// The PortAudio callback writes, the frame loop reads; both sides hold
// the mutex only long enough to copy.
type sampleRing struct {
	mu     sync.Mutex
	data   []float64
	write  int
	filled int
}

func newSampleRing(capacity int) *sampleRing {
	if capacity < 1 {
		capacity = 1
	}
	return &sampleRing{data: make([]float64, capacity)}
}

// push appends a block of samples, overwriting the oldest.
func (r *sampleRing) push(in []float32) {
	r.mu.Lock()
	for _, s := range in {
		r.data[r.write] = float64(s)
		r.write++
		if r.write == len(r.data) {
			r.write = 0
		}
		if r.filled < len(r.data) {
			r.filled++
		}
	}
	r.mu.Unlock()
}

// latest copies the most recent len(dst) samples into dst in time order,
// zero-filling the head when fewer have been captured. It returns the
// number of captured samples copied.
func (r *sampleRing) latest(dst []float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(dst)
	avail := r.filled
	if avail > n {
		avail = n
	}

	for i := 0; i < n-avail; i++ {
		dst[i] = 0
	}

	idx := r.write
	for i := n - 1; i >= n-avail; i-- {
		idx--
		if idx < 0 {
			idx = len(r.data) - 1
		}
		dst[i] = r.data[idx]
	}

	return avail
}
