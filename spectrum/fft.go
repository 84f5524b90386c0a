package spectrum

import (
	"fmt"
	"math"
	"sync"

	dspspectrum "github.com/cwbudde/algo-dsp/dsp/spectrum"
	"github.com/cwbudde/algo-dsp/dsp/window"
	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// FFTSource computes a windowed forward FFT over the most recent samples
// of a [SampleProvider] each frame. A periodic Hann window keeps leakage
// low without hurting the coherent-gain normalization; magnitudes are
// scaled so a full-scale bin-aligned sine reads 1.0.
type FFTSource struct {
	mu       sync.Mutex
	provider SampleProvider
	released bool

	fftSize int
	plan    *algofft.Plan[complex128]
	win     []float64
	winGain float64

	timeBuf []float64
	input   []complex128
	output  []complex128
	re      []float64
	im      []float64
	mags    []float64
}

// NewFFTSource creates a source over provider with the given transform
// size. Bin count is transformSize/2.
func NewFFTSource(provider SampleProvider, transformSize int) (*FFTSource, error) {
	if provider == nil {
		return nil, fmt.Errorf("spectrum: nil sample provider")
	}

	s := &FFTSource{provider: provider}
	if err := s.Resize(transformSize); err != nil {
		return nil, err
	}

	return s, nil
}

// Resize re-plans the FFT and resizes all internal buffers. Safe while
// reads are in flight; the provider is untouched.
func (s *FFTSource) Resize(transformSize int) error {
	if !ValidTransformSize(transformSize) {
		return fmt.Errorf("spectrum: transform size must be a power of two >= %d: %d", minTransformSize, transformSize)
	}

	plan, err := algofft.NewPlan64(transformSize)
	if err != nil {
		return fmt.Errorf("spectrum: create fft plan: %w", err)
	}

	win := window.Generate(window.TypeHann, transformSize, window.WithPeriodic())
	if len(win) != transformSize {
		return fmt.Errorf("spectrum: invalid window size: %d", len(win))
	}

	sum := 0.0
	for _, w := range win {
		sum += w
	}

	binCount := transformSize / 2

	s.mu.Lock()
	defer s.mu.Unlock()

	s.fftSize = transformSize
	s.plan = plan
	s.win = win
	s.winGain = sum / float64(transformSize)
	s.timeBuf = make([]float64, transformSize)
	s.input = make([]complex128, transformSize)
	s.output = make([]complex128, transformSize)
	s.re = make([]float64, binCount)
	s.im = make([]float64, binCount)
	s.mags = make([]float64, binCount)

	return nil
}

// SampleRate returns the provider's sample rate in Hz.
func (s *FFTSource) SampleRate() float64 { return s.provider.SampleRate() }

// BinCount returns the current one-sided bin count.
func (s *FFTSource) BinCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fftSize / 2
}

// ReadSpectrum pulls the latest samples, windows and transforms them, and
// returns normalized one-sided magnitudes. The slice is reused across
// calls.
func (s *FFTSource) ReadSpectrum() ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil, fmt.Errorf("spectrum: source released")
	}

	if _, err := s.provider.Samples(s.timeBuf); err != nil {
		return nil, fmt.Errorf("spectrum: read samples: %w", err)
	}

	vecmath.MulBlockInPlace(s.timeBuf, s.win)

	for i, v := range s.timeBuf {
		s.input[i] = complex(v, 0)
	}

	if err := s.plan.Forward(s.output, s.input); err != nil {
		return nil, fmt.Errorf("spectrum: forward fft: %w", err)
	}

	for i := range s.re {
		s.re[i] = real(s.output[i])
		s.im[i] = imag(s.output[i])
	}
	dspspectrum.MagnitudeFromParts(s.mags, s.re, s.im)

	// Coherent-gain normalization: a full-scale bin-aligned sine maps to
	// 1.0. Interior one-sided bins carry the mirrored half, hence the
	// factor 2; DC does not.
	const eps = 1e-12
	norm := float64(s.fftSize) * math.Max(s.winGain, eps)
	for i, m := range s.mags {
		m /= norm
		if i > 0 {
			m *= 2
		}
		if m > 1 {
			m = 1
		}
		s.mags[i] = m
	}

	return s.mags, nil
}

// Release frees the source and releases the underlying provider.
// Idempotent.
func (s *FFTSource) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil
	}
	s.released = true

	return s.provider.Release()
}
