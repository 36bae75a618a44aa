package metrics

import "github.com/san-kum/copulab/internal/sim"

// DefaultTailQuantile is the tail cut-off used by DefaultMetrics.
const DefaultTailQuantile = 0.05

// DefaultMetrics returns pairwise Pearson and Kendall correlations,
// per-coordinate uniformity and the tail dependence of the first pair.
func DefaultMetrics(dim int) []sim.Metric {
	ms := make([]sim.Metric, 0, dim*(dim-1)+dim+2)
	for i := 0; i < dim; i++ {
		for j := i + 1; j < dim; j++ {
			ms = append(ms, NewPearsonPair(i, j), NewKendallPair(i, j))
		}
	}
	for i := 0; i < dim; i++ {
		ms = append(ms, NewUniformity(i))
	}
	if dim >= 2 {
		ms = append(ms,
			NewTailDependence(0, 1, DefaultTailQuantile, true),
			NewTailDependence(0, 1, DefaultTailQuantile, false))
	}
	return ms
}
