package bands

import "math"

// Band identifies one aggregated frequency range.
type Band int

const (
	Bass Band = iota
	LowMid
	HighMid
	Treble

	bandCount = 4
)

// Band edges in Hz. These are fixed constants of the analyzer contract,
// not tunables.
var bandEdges = [bandCount][2]float64{
	{20, 250},
	{250, 1000},
	{1000, 4000},
	{4000, 20000},
}

// Level weighting applied to the raw band values.
const (
	levelBassWeight    = 0.4
	levelLowMidWeight  = 0.3
	levelHighMidWeight = 0.2
	levelTrebleWeight  = 0.1
)

// Range returns the band's frequency range in Hz.
func (b Band) Range() (minHz, maxHz float64) {
	if b < 0 || b >= bandCount {
		return 0, 0
	}
	return bandEdges[b][0], bandEdges[b][1]
}

// String returns the band's conventional name.
func (b Band) String() string {
	switch b {
	case Bass:
		return "bass"
	case LowMid:
		return "low-mid"
	case HighMid:
		return "high-mid"
	case Treble:
		return "treble"
	}
	return "unknown"
}

// Reading holds one frame of band values. All fields lie in [0, 1].
type Reading struct {
	Bass    float64
	LowMid  float64
	HighMid float64
	Treble  float64
	Level   float64
}

// Array returns the four band values ordered bass, low-mid, high-mid,
// treble, a convenience flattening for numeric consumers.
func (r Reading) Array() [4]float64 {
	return [4]float64{r.Bass, r.LowMid, r.HighMid, r.Treble}
}

// Aggregate maps one magnitude spectrum frame to raw band values.
//
// The spectrum is one-sided with binCount bins covering DC to Nyquist
// (sampleRate/2); magnitudes are full-scale normalized so 1.0 is the
// maximum representable value. Each band is the arithmetic mean of the
// magnitudes over its inclusive bin range [floor(minHz/w), min(ceil(maxHz/w),
// binCount-1)] with w the bin width. A band whose bin range degenerates
// (transform too coarse to resolve it) reads as 0. The spectrum slice may
// be shorter than binCount after a resize race; missing bins contribute 0
// and are never read out of bounds.
//
// Level is the fixed weighted sum 0.4*bass + 0.3*lowMid + 0.2*highMid +
// 0.1*treble of the raw, pre-gain, pre-smoothing band values.
func Aggregate(spectrum []float64, binCount int, sampleRate float64) Reading {
	if binCount <= 0 || sampleRate <= 0 {
		return Reading{}
	}

	binWidth := sampleRate / 2 / float64(binCount)

	var values [bandCount]float64
	for b := Band(0); b < bandCount; b++ {
		values[b] = bandMean(spectrum, binCount, binWidth, bandEdges[b])
	}

	r := Reading{
		Bass:    values[Bass],
		LowMid:  values[LowMid],
		HighMid: values[HighMid],
		Treble:  values[Treble],
	}
	r.Level = levelBassWeight*r.Bass + levelLowMidWeight*r.LowMid +
		levelHighMidWeight*r.HighMid + levelTrebleWeight*r.Treble

	return r
}

func bandMean(spectrum []float64, binCount int, binWidth float64, edges [2]float64) float64 {
	minBin := int(edges[0] / binWidth)
	maxBin := int(math.Ceil(edges[1] / binWidth))
	if maxBin > binCount-1 {
		maxBin = binCount - 1
	}
	if minBin >= maxBin {
		return 0
	}

	sum := 0.0
	for i := minBin; i <= maxBin && i < len(spectrum); i++ {
		sum += spectrum[i]
	}

	return clamp(sum/float64(maxBin-minBin+1), 0, 1)
}

func clamp(v, minV, maxV float64) float64 {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
