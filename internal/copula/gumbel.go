package copula

import (
	"math"

	"github.com/san-kum/copulab/internal/correlation"
	"github.com/san-kum/copulab/internal/rng"
	"gonum.org/v1/gonum/mat"
)

type gumbelFamily struct{}

func (gumbelFamily) family() Family { return FamilyGumbel }

func (gumbelFamily) thetaFromKendall(tau float64) float64 { return GumbelThetaFromKendall(tau) }

func (gumbelFamily) kendall(theta float64) float64 { return 1 - 1/theta }

func (gumbelFamily) checkTheta(theta float64) error {
	if !(theta >= 1) || math.IsInf(theta, 0) {
		return &ParameterError{Family: FamilyGumbel, Param: "theta", Value: theta, Reason: "must be finite and >= 1"}
	}
	return nil
}

// GumbelThetaFromKendall returns 1/(1-τ).
func GumbelThetaFromKendall(tau float64) float64 {
	return 1 / (1 - tau)
}

// Gumbel is the bivariate Gumbel copula, with upper tail dependence
// 2 - 2^(1/θ).
type Gumbel struct {
	archimedean
}

func newGumbel() *Gumbel {
	return &Gumbel{archimedean: newArchimedean(gumbelFamily{})}
}

// NewGumbel returns a Gumbel copula with parameter theta >= 1. A nil src
// selects the process default source.
func NewGumbel(theta float64, src rng.Source) (*Gumbel, error) {
	r, err := NewGumbelBuilder().SetCorrelationType(correlation.KendallRank).SetRandomSource(src).SetTheta(theta)
	if err != nil {
		return nil, err
	}
	return r.Build()
}

// NewGumbelBuilder starts a Gumbel copula build.
func NewGumbelBuilder() ArchimedeanBuilder[*Gumbel] {
	g := newGumbel()
	return newArchimedeanBuilder(g, &g.archimedean)
}

func (g *Gumbel) Family() Family { return FamilyGumbel }

// Generator is φ(t) = (-ln t)^θ.
func (g *Gumbel) Generator(t float64) float64 {
	return math.Pow(-math.Log(t), g.theta)
}

// InverseGenerator is φ⁻¹(s) = exp(-s^(1/θ)).
func (g *Gumbel) InverseGenerator(s float64) float64 {
	return math.Exp(-math.Pow(s, 1/g.theta))
}

// Sample uses the Marshall-Olkin construction: with S positive α-stable
// (α = 1/θ, Laplace transform exp(-s^α)) and E1, E2 standard exponential,
// Ui = φ⁻¹(Ei/S).
func (g *Gumbel) Sample() []float64 {
	if g.theta-1 < eps {
		return []float64{rng.OpenUnit(g.rnd), rng.OpenUnit(g.rnd)}
	}
	alpha := 1 / g.theta
	logS := g.logStable(alpha)
	out := make([]float64, 2)
	for i := range out {
		logT := math.Log(rng.Exp(g.rnd)) - logS
		out[i] = openUnit(math.Exp(-math.Exp(alpha * logT)))
	}
	return out
}

// logStable draws log S by Kanter's representation
// S = (A(U)/W)^((1-α)/α), U ~ U(0, π), W ~ Exp(1).
func (g *Gumbel) logStable(alpha float64) float64 {
	u := math.Pi * rng.OpenUnit(g.rnd)
	w := rng.Exp(g.rnd)
	logA := alpha/(1-alpha)*math.Log(math.Sin(alpha*u)) +
		math.Log(math.Sin((1-alpha)*u)) -
		math.Log(math.Sin(u))/(1-alpha)
	return (1 - alpha) / alpha * (logA - math.Log(w))
}

func (g *Gumbel) SampleN(n int) *mat.Dense { return sampleN(g, n) }

// CDF is C(u, v) = φ⁻¹(φ(u) + φ(v)).
func (g *Gumbel) CDF(u, v float64) float64 {
	return g.InverseGenerator(g.Generator(u) + g.Generator(v))
}
