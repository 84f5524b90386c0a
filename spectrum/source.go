package spectrum

// minTransformSize is the smallest supported transform; anything coarser
// cannot resolve even one band.
const minTransformSize = 32

// Source supplies a periodically refreshed magnitude spectrum with a
// fixed sample rate. ReadSpectrum must not block in steady state; a read
// that cannot complete is an error, never a stall.
type Source interface {
	// ReadSpectrum returns BinCount magnitudes normalized to [0, 1] full
	// scale. The returned slice is reused and only valid until the next
	// call.
	ReadSpectrum() ([]float64, error)

	// SampleRate returns the sample rate in Hz of the signal feeding the
	// transform.
	SampleRate() float64

	// BinCount returns the number of one-sided spectrum bins, which is
	// transformSize/2.
	BinCount() int

	// Resize re-plans the transform for a new size. The underlying
	// device is untouched.
	Resize(transformSize int) error

	// Release frees the source and its underlying device. Idempotent.
	Release() error
}

// SampleProvider is the capture capability a [Source] reads time-domain
// samples from. *capture.Device satisfies it.
type SampleProvider interface {
	Samples(dst []float64) (int, error)
	SampleRate() float64
	Release() error
}

// ValidTransformSize reports whether n is a supported transform size: a
// power of two no smaller than 32.
func ValidTransformSize(n int) bool {
	return n >= minTransformSize && n&(n-1) == 0
}
