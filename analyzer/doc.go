// Package analyzer drives the audio-reactive band pipeline: it owns the
// capture device and the spectrum source, runs the per-frame loop, and
// exposes smoothed bass/low-mid/high-mid/treble/level values for visual
// consumers to poll at animation-frame rate.
//
// Environmental failures never surface as errors from the public API;
// they are encoded in the lifecycle [State] (plus an optional message)
// and pushed to OnStateChange subscribers. Only configuration mistakes,
// which are caller-contract violations, return errors directly.
package analyzer
