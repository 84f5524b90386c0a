package bands_test

import (
	"fmt"

	"github.com/cwbudde/algo-reactive/bands"
)

func ExampleAggregate() {
	// A coarse 8-bin spectrum with energy only in the lowest bin.
	spectrum := []float64{1, 0, 0, 0, 0, 0, 0, 0}

	r := bands.Aggregate(spectrum, len(spectrum), 44100)
	fmt.Printf("bass=%.2f treble=%.2f\n", r.Bass, r.Treble)
	// Output: bass=0.50 treble=0.00
}

func ExampleSmoother() {
	s := bands.NewSmoother(1.0, 0.5)

	for i := 0; i < 3; i++ {
		out := s.Apply(bands.Reading{Bass: 1})
		fmt.Printf("%.3f\n", out.Bass)
	}
	// Output:
	// 0.500
	// 0.750
	// 0.875
}
