package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	s := Describe([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	assert.Equal(t, 9, s.Count)
	assert.InDelta(t, 5.0, s.Mean, 1e-9)
	assert.InDelta(t, 1.0, s.Min, 1e-9)
	assert.InDelta(t, 9.0, s.Max, 1e-9)
	assert.InDelta(t, 3.0, s.Q1, 1e-9)
	assert.InDelta(t, 5.0, s.Median, 1e-9)
	assert.InDelta(t, 7.0, s.Q3, 1e-9)
	assert.InDelta(t, 4.0, s.IQR(), 1e-9)
}

func TestDescribeInterpolation(t *testing.T) {
	s := Describe([]float64{1, 2, 3, 4})
	assert.InDelta(t, 1.75, s.Q1, 1e-9)
	assert.InDelta(t, 2.5, s.Median, 1e-9)
	assert.InDelta(t, 3.25, s.Q3, 1e-9)
}

func TestDescribeEmpty(t *testing.T) {
	s := Describe(nil)
	assert.Equal(t, 0, s.Count)
	assert.Equal(t, 0.0, s.Mean)
}

func TestOutlierBounds(t *testing.T) {
	s := Describe([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	lower, upper := s.OutlierBounds(1.5)
	assert.InDelta(t, -3.0, lower, 1e-9)
	assert.InDelta(t, 13.0, upper, 1e-9)
}

func TestDeviations(t *testing.T) {
	s := Summary{Mean: 10, StdDev: 2}
	assert.InDelta(t, 3.0, s.Deviations(16), 1e-9)
	assert.InDelta(t, 3.0, s.Deviations(4), 1e-9)

	flat := Summary{Mean: 10, StdDev: 0}
	assert.Equal(t, 0.0, flat.Deviations(100))
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{a: "", b: "", want: 0},
		{a: "abc", b: "", want: 3},
		{a: "abc", b: "abc", want: 0},
		{a: "kitten", b: "sitting", want: 3},
		{a: "Budi Santoso", b: "Budi Santosa", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("abc", "abc"))
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))
	assert.InDelta(t, 11.0/12.0, Similarity("Budi Santoso", "Budi Santosa"), 1e-9)
}
