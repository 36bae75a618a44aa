package metrics

import (
	"fmt"

	"github.com/san-kum/copulab/internal/sim"
)

// TailDependence estimates P(Uj beyond q | Ui beyond q) for the lower
// tail (u < q) or the upper tail (u > 1-q).
type TailDependence struct {
	name  string
	i, j  int
	q     float64
	lower bool
	hits  int
	joint int
}

func NewTailDependence(i, j int, q float64, lower bool) *TailDependence {
	side := "upper"
	if lower {
		side = "lower"
	}
	return &TailDependence{
		name:  fmt.Sprintf("lambda_%s_%d_%d", side, i, j),
		i:     i,
		j:     j,
		q:     q,
		lower: lower,
	}
}

func (t *TailDependence) Name() string { return t.name }

func (t *TailDependence) in(v float64) bool {
	if t.lower {
		return v < t.q
	}
	return v > 1-t.q
}

func (t *TailDependence) Observe(u sim.Sample, _ int) {
	if len(u) <= t.i || len(u) <= t.j {
		return
	}
	if t.in(u[t.i]) {
		t.hits++
		if t.in(u[t.j]) {
			t.joint++
		}
	}
}

func (t *TailDependence) Value() float64 {
	if t.hits == 0 {
		return 0
	}
	return float64(t.joint) / float64(t.hits)
}

func (t *TailDependence) Reset() {
	t.hits = 0
	t.joint = 0
}
