// Package sensing provides the measurement-reporting applications of the
// simulator: periodic transmitters that model sensor motes and a gateway
// that accumulates the delivered readings.
package sensing

import (
	"fmt"
	"math/rand"
)

// A ReadingSource draws simulated measurement values uniformly from a
// bounded range. The random source is explicitly seeded so that runs are
// reproducible.
type ReadingSource struct {
	rng      *rand.Rand
	min, max float64
}

// NewReadingSource creates a ReadingSource for values in [min, max).
func NewReadingSource(seed int64, min, max float64) *ReadingSource {
	if max < min {
		panic("reading range is inverted")
	}

	return &ReadingSource{
		rng: rand.New(rand.NewSource(seed)),
		min: min,
		max: max,
	}
}

// Next draws the next measurement value.
func (s *ReadingSource) Next() float64 {
	return s.min + s.rng.Float64()*(s.max-s.min)
}

// FormatReading renders a measurement value as one report payload, e.g.
// "pH: 6.84312".
func FormatReading(v float64) []byte {
	return fmt.Appendf(nil, "pH: %.5f", v)
}
