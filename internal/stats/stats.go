// Package stats provides the descriptive statistics and string similarity
// primitives the rule engine builds on.
package stats

import (
	"math"
	"sort"
)

// Summary holds the descriptive statistics of a numeric sample.
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Q1     float64
	Median float64
	Q3     float64
}

// Describe computes a Summary. An empty sample yields a zero Summary.
func Describe(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	var sq float64
	for _, v := range sorted {
		d := v - mean
		sq += d * d
	}

	return Summary{
		Count:  n,
		Mean:   mean,
		StdDev: math.Sqrt(sq / float64(n)),
		Min:    sorted[0],
		Max:    sorted[n-1],
		Q1:     percentile(sorted, 0.25),
		Median: percentile(sorted, 0.5),
		Q3:     percentile(sorted, 0.75),
	}
}

// percentile computes a linearly interpolated percentile of a sorted sample.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// IQR returns the interquartile range of a Summary.
func (s Summary) IQR() float64 {
	return s.Q3 - s.Q1
}

// OutlierBounds returns the fence values [Q1-k*IQR, Q3+k*IQR].
func (s Summary) OutlierBounds(k float64) (lower, upper float64) {
	iqr := s.IQR()
	return s.Q1 - k*iqr, s.Q3 + k*iqr
}

// Deviations returns how many standard deviations v sits from the mean,
// or 0 when the sample has no spread.
func (s Summary) Deviations(v float64) float64 {
	if s.StdDev == 0 {
		return 0
	}
	return math.Abs(v-s.Mean) / s.StdDev
}
