package metrics

import (
	"fmt"
	"math"

	"github.com/san-kum/copulab/internal/sim"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PearsonPair tracks the linear correlation of coordinates i and j with
// streaming co-moments.
type PearsonPair struct {
	name     string
	i, j     int
	n        float64
	meanX    float64
	meanY    float64
	m2X, m2Y float64
	coMoment float64
}

func NewPearsonPair(i, j int) *PearsonPair {
	return &PearsonPair{name: fmt.Sprintf("pearson_%d_%d", i, j), i: i, j: j}
}

func (p *PearsonPair) Name() string { return p.name }

func (p *PearsonPair) Observe(u sim.Sample, _ int) {
	if len(u) <= p.i || len(u) <= p.j {
		return
	}
	x, y := u[p.i], u[p.j]
	p.n++
	dx := x - p.meanX
	p.meanX += dx / p.n
	dy := y - p.meanY
	p.meanY += dy / p.n
	p.m2X += dx * (x - p.meanX)
	p.m2Y += dy * (y - p.meanY)
	p.coMoment += dx * (y - p.meanY)
}

func (p *PearsonPair) Value() float64 {
	if p.n < 2 || p.m2X == 0 || p.m2Y == 0 {
		return 0
	}
	return p.coMoment / math.Sqrt(p.m2X*p.m2Y)
}

func (p *PearsonPair) Reset() {
	*p = PearsonPair{name: p.name, i: p.i, j: p.j}
}

// KendallWindow is the number of leading samples KendallPair buffers.
const KendallWindow = 5000

// rankPair buffers a coordinate pair for rank statistics, keeping at most
// limit samples when limit is positive.
type rankPair struct {
	name  string
	i, j  int
	limit int
	x, y  []float64
}

func (r *rankPair) Name() string { return r.name }

func (r *rankPair) Observe(u sim.Sample, _ int) {
	if len(u) <= r.i || len(u) <= r.j || (r.limit > 0 && len(r.x) >= r.limit) {
		return
	}
	r.x = append(r.x, u[r.i])
	r.y = append(r.y, u[r.j])
}

func (r *rankPair) Reset() {
	r.x = r.x[:0]
	r.y = r.y[:0]
}

// KendallPair is Kendall's tau of coordinates i and j over the first
// KendallWindow samples; the estimate is quadratic in the window.
type KendallPair struct {
	rankPair
}

func NewKendallPair(i, j int) *KendallPair {
	return &KendallPair{rankPair{name: fmt.Sprintf("kendall_%d_%d", i, j), i: i, j: j, limit: KendallWindow}}
}

func (k *KendallPair) Value() float64 {
	if len(k.x) < 2 {
		return 0
	}
	return stat.Kendall(k.x, k.y, nil)
}

// SpearmanPair is Spearman's rho of coordinates i and j.
type SpearmanPair struct {
	rankPair
}

func NewSpearmanPair(i, j int) *SpearmanPair {
	return &SpearmanPair{rankPair{name: fmt.Sprintf("spearman_%d_%d", i, j), i: i, j: j}}
}

func (s *SpearmanPair) Value() float64 {
	if len(s.x) < 2 {
		return 0
	}
	return Spearman(s.x, s.y)
}

// Spearman computes Spearman's rank correlation of x and y.
func Spearman(x, y []float64) float64 {
	return stat.Correlation(Ranks(x), Ranks(y), nil)
}

// Ranks returns the 1-based ranks of x. Ties get consecutive ranks.
func Ranks(x []float64) []float64 {
	sorted := make([]float64, len(x))
	copy(sorted, x)
	idx := make([]int, len(x))
	floats.Argsort(sorted, idx)
	ranks := make([]float64, len(x))
	for r, i := range idx {
		ranks[i] = float64(r + 1)
	}
	return ranks
}
