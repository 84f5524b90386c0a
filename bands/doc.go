// Package bands aggregates a magnitude spectrum into perceptually named
// frequency bands (bass, low-mid, high-mid, treble) plus an overall level,
// and provides the gain/EMA smoothing that turns raw band energies into
// stable, animation-ready values.
//
// Aggregation is a pure function of one spectrum frame; all temporal state
// lives in [Smoother], so the two halves are independently testable.
package bands
