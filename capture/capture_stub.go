//go:build !portaudio
// +build !portaudio

package capture

import "fmt"

// Device stub when the PortAudio backend is not built in.
type Device struct{}

// Available reports no input device without the PortAudio backend.
func Available() bool { return false }

// Open fails; rebuild with -tags portaudio for real capture.
func Open(sampleRate float64) (*Device, error) {
	return nil, fmt.Errorf("capture: portaudio backend not built in: rebuild with -tags portaudio")
}

func (d *Device) SampleRate() float64 { return 0 }

func (d *Device) Samples(dst []float64) (int, error) { return 0, ErrReleased }

func (d *Device) Release() error { return nil }
