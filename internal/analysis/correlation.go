package analysis

import (
	"fmt"

	"github.com/san-kum/copulab/internal/correlation"
	"github.com/san-kum/copulab/internal/metrics"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// EmpiricalCorrelation returns the correlation matrix of samples under
// convention t. Kendall is quadratic in the sample count.
func EmpiricalCorrelation(samples [][]float64, t correlation.Type) (*mat.SymDense, error) {
	if len(samples) < 2 {
		return nil, fmt.Errorf("need at least 2 samples, got %d", len(samples))
	}
	d := len(samples[0])
	cols := make([][]float64, d)
	for j := range cols {
		cols[j] = make([]float64, len(samples))
	}
	for i, u := range samples {
		if len(u) != d {
			return nil, fmt.Errorf("sample %d has dimension %d, want %d", i, len(u), d)
		}
		for j, v := range u {
			cols[j][i] = v
		}
	}

	switch t {
	case correlation.PearsonLinear:
		return pairwise(cols, func(x, y []float64) float64 { return stat.Correlation(x, y, nil) }), nil
	case correlation.KendallRank:
		return pairwise(cols, func(x, y []float64) float64 { return stat.Kendall(x, y, nil) }), nil
	case correlation.SpearmanRank:
		ranked := make([][]float64, d)
		for j, c := range cols {
			ranked[j] = metrics.Ranks(c)
		}
		return pairwise(ranked, func(x, y []float64) float64 { return stat.Correlation(x, y, nil) }), nil
	}
	return nil, fmt.Errorf("%w: %v", correlation.ErrUnsupportedConversion, t)
}

func pairwise(cols [][]float64, fn func(x, y []float64) float64) *mat.SymDense {
	d := len(cols)
	out := correlation.Identity(d)
	for i := 0; i < d; i++ {
		for j := i + 1; j < d; j++ {
			out.SetSym(i, j, fn(cols[i], cols[j]))
		}
	}
	return out
}
