package metrics

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/copulab/internal/sim"
)

// Uniformity is the Kolmogorov-Smirnov distance between the empirical
// distribution of coordinate i and U(0, 1). Smaller is better.
type Uniformity struct {
	name string
	i    int
	x    []float64
}

func NewUniformity(i int) *Uniformity {
	return &Uniformity{name: fmt.Sprintf("ks_%d", i), i: i}
}

func (m *Uniformity) Name() string { return m.name }

func (m *Uniformity) Observe(u sim.Sample, _ int) {
	if len(u) > m.i {
		m.x = append(m.x, u[m.i])
	}
}

func (m *Uniformity) Value() float64 {
	return KSUniform(m.x)
}

func (m *Uniformity) Reset() { m.x = m.x[:0] }

// KSUniform returns sup |F_n(x) - x| over [0, 1].
func KSUniform(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	s := make([]float64, n)
	copy(s, x)
	sort.Float64s(s)
	var d float64
	for k, v := range s {
		lo := v - float64(k)/float64(n)
		hi := float64(k+1)/float64(n) - v
		d = math.Max(d, math.Max(lo, hi))
	}
	return d
}

// KSCritical is the asymptotic 5% critical value of the one-sample test.
func KSCritical(n int) float64 {
	if n <= 0 {
		return math.Inf(1)
	}
	return 1.358 / math.Sqrt(float64(n))
}
