// Package capture acquires the host's default audio input device and
// exposes its most recent samples to a per-frame reader.
//
// Opening the device is the only blocking operation in the analyzer
// pipeline, and the only point at which the platform may deny access.
// After Open everything is non-blocking: PortAudio delivers samples via
// callback into an internal ring, and Samples copies out of that ring
// without waiting.
//
// The PortAudio backend needs cgo and the C library; it is selected with
// the "portaudio" build tag. Without the tag a stub compiles in whose
// Available always reports false.
package capture
