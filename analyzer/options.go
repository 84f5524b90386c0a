package analyzer

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-reactive/capture"
	"github.com/cwbudde/algo-reactive/spectrum"
)

// defaultSampleRate is used when the default capture opener acquires the
// device.
const defaultSampleRate = 44100.0

// Config holds the analyzer tuning parameters.
type Config struct {
	// Sensitivity is the multiplicative gain applied to raw band values
	// before the upper clamp to 1.0. Must be positive and finite.
	Sensitivity float64

	// Smoothing is the EMA decay factor in [0, 1); higher values respond
	// more slowly.
	Smoothing float64

	// TransformSize is the frequency-transform resolution; bin count is
	// TransformSize/2. Must be a power of two >= 32.
	TransformSize int
}

// DefaultConfig returns the analyzer defaults.
func DefaultConfig() Config {
	return Config{
		Sensitivity:   1.0,
		Smoothing:     0.8,
		TransformSize: 2048,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if err := validateSensitivity(c.Sensitivity); err != nil {
		return err
	}
	if err := validateSmoothing(c.Smoothing); err != nil {
		return err
	}
	return validateTransformSize(c.TransformSize)
}

func validateSensitivity(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("analyzer: sensitivity must be a positive finite value: %f", v)
	}
	return nil
}

func validateSmoothing(v float64) error {
	if math.IsNaN(v) || v < 0 || v >= 1 {
		return fmt.Errorf("analyzer: smoothing must lie in [0, 1): %f", v)
	}
	return nil
}

func validateTransformSize(n int) error {
	if !spectrum.ValidTransformSize(n) {
		return fmt.Errorf("analyzer: transform size must be a power of two >= 32: %d", n)
	}
	return nil
}

// ConfigUpdate is a partial configuration change; nil fields keep their
// current values.
type ConfigUpdate struct {
	Sensitivity   *float64
	Smoothing     *float64
	TransformSize *int
}

// DeviceOpener acquires the capture device. It is the only operation in
// the pipeline allowed to block. Failures wrapping
// capture.ErrPermissionDenied surface as StateDenied, everything else as
// StateError.
type DeviceOpener func() (spectrum.SampleProvider, error)

// SourceFactory builds the spectrum source over an acquired device.
type SourceFactory func(p spectrum.SampleProvider, transformSize int) (spectrum.Source, error)

type options struct {
	cfg       Config
	opener    DeviceOpener
	factory   SourceFactory
	scheduler FrameScheduler
}

// Option configures a new Analyzer.
type Option func(*options)

// WithSensitivity sets the gain applied to raw band values. Invalid
// values are ignored.
func WithSensitivity(v float64) Option {
	return func(o *options) {
		if validateSensitivity(v) == nil {
			o.cfg.Sensitivity = v
		}
	}
}

// WithSmoothing sets the EMA decay factor. Values outside [0, 1) are
// ignored.
func WithSmoothing(v float64) Option {
	return func(o *options) {
		if validateSmoothing(v) == nil {
			o.cfg.Smoothing = v
		}
	}
}

// WithTransformSize sets the transform resolution. Invalid sizes are
// ignored.
func WithTransformSize(n int) Option {
	return func(o *options) {
		if validateTransformSize(n) == nil {
			o.cfg.TransformSize = n
		}
	}
}

// WithDeviceOpener overrides how the capture device is acquired.
func WithDeviceOpener(open DeviceOpener) Option {
	return func(o *options) {
		if open != nil {
			o.opener = open
		}
	}
}

// WithSourceFactory overrides how the spectrum source is built over the
// acquired device.
func WithSourceFactory(build SourceFactory) Option {
	return func(o *options) {
		if build != nil {
			o.factory = build
		}
	}
}

// WithScheduler overrides the frame-scheduling primitive.
func WithScheduler(s FrameScheduler) Option {
	return func(o *options) {
		if s != nil {
			o.scheduler = s
		}
	}
}

func applyOptions(opts ...Option) options {
	o := options{
		cfg: DefaultConfig(),
		opener: func() (spectrum.SampleProvider, error) {
			return capture.Open(defaultSampleRate)
		},
		factory: func(p spectrum.SampleProvider, transformSize int) (spectrum.Source, error) {
			return spectrum.NewFFTSource(p, transformSize)
		},
		scheduler: NewTickScheduler(defaultFrameInterval),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
