package analysis

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram counts x in bins equal-width bins over [0, 1]. Values outside
// the unit interval are dropped.
func Histogram(x []float64, bins int) []float64 {
	if bins < 1 {
		bins = 1
	}
	sorted := make([]float64, 0, len(x))
	for _, v := range x {
		if v >= 0 && v < 1 {
			sorted = append(sorted, v)
		}
	}
	sort.Float64s(sorted)

	dividers := floats.Span(make([]float64, bins+1), 0, 1)
	return stat.Histogram(nil, dividers, sorted, nil)
}

// Density scales histogram counts so a uniform sample gives 1 per bin.
func Density(counts []float64) []float64 {
	total := floats.Sum(counts)
	out := make([]float64, len(counts))
	if total == 0 {
		return out
	}
	scale := float64(len(counts)) / total
	for i, c := range counts {
		out[i] = c * scale
	}
	return out
}
