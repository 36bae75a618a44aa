package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/copulab/internal/copula"
	"github.com/san-kum/copulab/internal/correlation"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TheoreticalKendall returns the Kendall's tau matrix implied by c.
// Archimedean copulas already store Kendall's tau.
func TheoreticalKendall(c copula.Copula) *mat.SymDense {
	rho := c.Rho()
	if rho == nil || c.Family().IsArchimedean() {
		return rho
	}
	d := rho.SymmetricDim()
	out := correlation.Identity(d)
	for i := 0; i < d; i++ {
		for j := i + 1; j < d; j++ {
			out.SetSym(i, j, correlation.PearsonToKendall(rho.At(i, j)))
		}
	}
	return out
}

// TailDependence holds the lower and upper tail dependence coefficients of a
// coordinate pair.
type TailDependence struct {
	Lower, Upper float64
}

// TheoreticalTailDependence returns the tail dependence of coordinates i
// and j of c.
func TheoreticalTailDependence(c copula.Copula, i, j int) (TailDependence, error) {
	d := c.Dimension()
	if i < 0 || j < 0 || i >= d || j >= d || i == j {
		return TailDependence{}, fmt.Errorf("invalid pair (%d, %d) for dimension %d", i, j, d)
	}
	params := c.Params()
	switch c.Family() {
	case copula.FamilyGaussian:
		return TailDependence{}, nil
	case copula.FamilyStudentT:
		l := StudentTTail(c.Rho().At(i, j), params["nu"])
		return TailDependence{Lower: l, Upper: l}, nil
	case copula.FamilyClayton:
		theta := params["theta"]
		if theta <= 0 {
			return TailDependence{}, nil
		}
		return TailDependence{Lower: math.Pow(2, -1/theta)}, nil
	case copula.FamilyGumbel:
		return TailDependence{Upper: 2 - math.Pow(2, 1/params["theta"])}, nil
	}
	return TailDependence{}, fmt.Errorf("%w: family %q", copula.ErrNotImplemented, c.Family())
}

// StudentTTail is 2 t_{ν+1}(-sqrt((ν+1)(1-ρ)/(1+ρ))).
func StudentTTail(rho, nu float64) float64 {
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: nu + 1}
	return 2 * t.CDF(-math.Sqrt((nu+1)*(1-rho)/(1+rho)))
}
