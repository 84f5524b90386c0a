//go:build portaudio
// +build portaudio

package capture

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"
)

const (
	framesPerBuffer = 1024

	// Enough history for the largest supported transform size.
	ringCapacity = 32768
)

// Available reports whether an input device exists. It does not request
// permission and holds no resources after returning.
func Available() bool {
	if err := portaudio.Initialize(); err != nil {
		return false
	}
	defer portaudio.Terminate()

	dev, err := portaudio.DefaultInputDevice()
	return err == nil && dev != nil
}

// Device is an open default-input stream feeding an internal sample ring.
// A Device is exclusively owned by one analyzer instance.
type Device struct {
	stream     *portaudio.Stream
	sampleRate float64
	ring       *sampleRing

	mu       sync.Mutex
	released bool
}

// Open initializes PortAudio and opens and starts the default mono input
// stream at sampleRate. This is the sole blocking acquisition call;
// permission-class failures wrap [ErrPermissionDenied], everything else
// is an acquisition error. On failure no resources remain held.
func Open(sampleRate float64) (*Device, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("capture: sample rate must be > 0: %f", sampleRate)
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("capture: initialize: %w", err)
	}

	d := &Device{
		sampleRate: sampleRate,
		ring:       newSampleRing(ringCapacity),
	}

	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, framesPerBuffer, d.callback)
	if err != nil {
		portaudio.Terminate()
		return nil, classifyOpenError(err)
	}
	d.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("capture: start stream: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"sampleRate": sampleRate,
		"buffer":     framesPerBuffer,
	}).Debug("capture: input stream started")

	return d, nil
}

func (d *Device) callback(in []float32) {
	d.ring.push(in)
}

// SampleRate returns the stream sample rate in Hz.
func (d *Device) SampleRate() float64 { return d.sampleRate }

// Samples copies the most recent len(dst) samples into dst, zero-filling
// when the ring holds fewer, and returns how many captured samples were
// copied. It never blocks. After Release it returns [ErrReleased].
func (d *Device) Samples(dst []float64) (int, error) {
	d.mu.Lock()
	released := d.released
	d.mu.Unlock()

	if released {
		return 0, ErrReleased
	}
	return d.ring.latest(dst), nil
}

// Release stops and closes the stream and terminates PortAudio. It is
// idempotent and safe to call concurrently with Samples.
func (d *Device) Release() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return nil
	}
	d.released = true

	var first error
	if d.stream != nil {
		if err := d.stream.Stop(); err != nil {
			first = fmt.Errorf("capture: stop stream: %w", err)
		}
		if err := d.stream.Close(); err != nil && first == nil {
			first = fmt.Errorf("capture: close stream: %w", err)
		}
		d.stream = nil
	}
	if err := portaudio.Terminate(); err != nil && first == nil {
		first = fmt.Errorf("capture: terminate: %w", err)
	}

	logrus.Debug("capture: input stream released")

	return first
}
