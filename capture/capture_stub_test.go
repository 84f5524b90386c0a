//go:build !portaudio
// +build !portaudio

package capture

import "testing"

func TestStubBackend(t *testing.T) {
	if Available() {
		t.Fatalf("Available() = true without the portaudio backend")
	}
	if _, err := Open(44100); err == nil {
		t.Fatalf("Open() = nil error without the portaudio backend")
	}
}
