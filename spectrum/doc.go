// Package spectrum turns a live capture device into a per-frame magnitude
// spectrum.
//
// The FFT itself comes from algo-fft; windowing and complex-to-magnitude
// kernels come from algo-dsp. This package owns only the per-frame
// plumbing: pulling the latest samples, windowing, transforming, and
// normalizing the one-sided magnitudes to [0, 1] full scale.
package spectrum
