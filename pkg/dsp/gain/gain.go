// Package gain provides amplitude and gain-related DSP operations.
package gain

import (
	"math"
)

// MinDB is the minimum dB value (effectively -infinity)
const MinDB = -200.0

// LinearToDb converts a linear amplitude value to decibels.
// Returns MinDB for values <= 0.
func LinearToDb(linear float64) float64 {
	if linear <= 0 {
		return MinDB
	}
	return 20.0 * math.Log10(linear)
}

// DbToLinear converts a decibel value to linear amplitude.
// Values <= MinDB return 0.
func DbToLinear(db float64) float64 {
	if db <= MinDB {
		return 0
	}
	return math.Pow(10.0, db/20.0)
}

// ApplyBuffer applies gain to an entire buffer in-place.
func ApplyBuffer(buffer []float32, gain float32) {
	for i := range buffer {
		buffer[i] *= gain
	}
}

// Fade applies a linear fade between two gain values in-place. The first
// sample gets startGain and the last gets exactly endGain; a single sample
// gets endGain.
func Fade(buffer []float32, startGain, endGain float32) {
	n := len(buffer)
	switch {
	case n == 0:
		return
	case n == 1 || startGain == endGain:
		ApplyBuffer(buffer, endGain)
		return
	}

	last := n - 1
	delta := (endGain - startGain) / float32(last)
	for i := 0; i < last; i++ {
		buffer[i] *= startGain + delta*float32(i)
	}
	buffer[last] *= endGain
}
