package copula

import (
	"math"

	"github.com/san-kum/copulab/internal/correlation"
	"github.com/san-kum/copulab/internal/rng"
	"gonum.org/v1/gonum/mat"
)

type claytonFamily struct{}

func (claytonFamily) family() Family { return FamilyClayton }

func (claytonFamily) thetaFromKendall(tau float64) float64 { return ClaytonThetaFromKendall(tau) }

func (claytonFamily) kendall(theta float64) float64 { return theta / (theta + 2) }

func (claytonFamily) checkTheta(theta float64) error {
	if !(theta >= 0) || math.IsInf(theta, 0) {
		return &ParameterError{Family: FamilyClayton, Param: "theta", Value: theta, Reason: "must be finite and >= 0"}
	}
	return nil
}

// ClaytonThetaFromKendall returns 2τ/(1-τ).
func ClaytonThetaFromKendall(tau float64) float64 {
	return 2 * tau / (1 - tau)
}

// Clayton is the bivariate Clayton copula, with lower tail dependence
// 2^(-1/θ).
type Clayton struct {
	archimedean
}

func newClayton() *Clayton {
	return &Clayton{archimedean: newArchimedean(claytonFamily{})}
}

// NewClayton returns a Clayton copula with parameter theta. A nil src
// selects the process default source.
func NewClayton(theta float64, src rng.Source) (*Clayton, error) {
	r, err := NewClaytonBuilder().SetCorrelationType(correlation.KendallRank).SetRandomSource(src).SetTheta(theta)
	if err != nil {
		return nil, err
	}
	return r.Build()
}

// NewClaytonBuilder starts a Clayton copula build.
func NewClaytonBuilder() ArchimedeanBuilder[*Clayton] {
	c := newClayton()
	return newArchimedeanBuilder(c, &c.archimedean)
}

func (c *Clayton) Family() Family { return FamilyClayton }

// Generator is φ(t) = (t^-θ - 1)/θ, or -ln t in the independence limit.
func (c *Clayton) Generator(t float64) float64 {
	if math.Abs(c.theta) < eps {
		return -math.Log(t)
	}
	return (math.Pow(t, -c.theta) - 1) / c.theta
}

// InverseGenerator is φ⁻¹(s) = (1 + θs)^(-1/θ).
func (c *Clayton) InverseGenerator(s float64) float64 {
	if math.Abs(c.theta) < eps {
		return math.Exp(-s)
	}
	return math.Pow(1+c.theta*s, -1/c.theta)
}

// Sample draws (u1, u2) by inverting the conditional distribution of u2
// given u1.
func (c *Clayton) Sample() []float64 {
	u1 := rng.OpenUnit(c.rnd)
	w := rng.OpenUnit(c.rnd)
	if math.Abs(c.theta) < eps {
		return []float64{u1, w}
	}
	th := c.theta
	u2 := u1 * math.Pow(math.Pow(w, -th/(1+th))-1+math.Pow(u1, th), -1/th)
	return []float64{u1, openUnit(u2)}
}

func (c *Clayton) SampleN(n int) *mat.Dense { return sampleN(c, n) }

// CDF is C(u, v) = φ⁻¹(φ(u) + φ(v)).
func (c *Clayton) CDF(u, v float64) float64 {
	return c.InverseGenerator(c.Generator(u) + c.Generator(v))
}
