package copula

import (
	"fmt"
	"math"

	"github.com/san-kum/copulab/internal/correlation"
	"github.com/san-kum/copulab/internal/rng"
	"gonum.org/v1/gonum/mat"
)

// eps is the threshold below which θ is treated as its independence limit.
const eps = 0x1p-52

// generatorFamily holds the closed forms of one Archimedean family.
type generatorFamily interface {
	family() Family
	thetaFromKendall(tau float64) float64
	kendall(theta float64) float64
	checkTheta(theta float64) error
}

// archimedean is the shared state of the bivariate Archimedean copulas.
// rho holds Kendall's tau: these families have no closed-form Pearson
// correlation.
type archimedean struct {
	base
	gen   generatorFamily
	theta float64
	set   bool
}

func newArchimedean(gen generatorFamily) archimedean {
	return archimedean{base: newBase(), gen: gen}
}

// Theta returns the dependence parameter θ.
func (a *archimedean) Theta() float64 { return a.theta }

// Kendall returns the theoretical Kendall's tau implied by θ.
func (a *archimedean) Kendall() float64 { return a.gen.kendall(a.theta) }

func (a *archimedean) Params() map[string]float64 {
	return map[string]float64{"theta": a.theta}
}

func (a *archimedean) SetRandomSource(src rng.Source) { a.useSource(src) }

func (a *archimedean) assign(m mat.Matrix) error {
	if m == nil {
		return fmt.Errorf("%w: nil matrix", ErrInvalidCorrelationMatrix)
	}
	if r, c := m.Dims(); r != 2 || c != 2 {
		return fmt.Errorf("%w: %s copula of dimension %d", ErrNotImplemented, a.gen.family(), r)
	}
	if err := correlation.Validate(m); err != nil {
		return err
	}
	if a.corrType != correlation.KendallRank {
		return fmt.Errorf("%w: %s copula from %s correlation", ErrUnsupportedConversion, a.gen.family(), a.corrType)
	}
	theta := a.gen.thetaFromKendall(m.At(0, 1))
	if err := a.gen.checkTheta(theta); err != nil {
		return err
	}
	a.rho = correlation.FromScalar(m.At(0, 1))
	a.theta = theta
	a.set = true
	return nil
}

func (a *archimedean) setTheta(theta float64) error {
	if err := a.gen.checkTheta(theta); err != nil {
		return err
	}
	a.rho = correlation.FromScalar(a.gen.kendall(theta))
	a.theta = theta
	a.set = true
	return nil
}

// ArchimedeanBuilder is the start stage of a Clayton or Gumbel build.
type ArchimedeanBuilder[C Copula] struct {
	b *build[C]
	a *archimedean
}

func (s ArchimedeanBuilder[C]) SetCorrelationType(t correlation.Type) ArchimedeanRhoStage[C] {
	if s.b.usable() == nil {
		s.b.draft.declare(t)
	}
	return ArchimedeanRhoStage[C]{b: s.b, a: s.a}
}

// ArchimedeanRhoStage takes either a 2x2 Kendall matrix or θ directly.
type ArchimedeanRhoStage[C Copula] struct {
	b *build[C]
	a *archimedean
}

// SetRho derives θ from the Kendall's tau in m.
func (s ArchimedeanRhoStage[C]) SetRho(m mat.Matrix) (Ready[C], error) {
	if err := s.b.usable(); err != nil {
		return Ready[C]{}, err
	}
	if err := s.b.draft.assign(m); err != nil {
		return Ready[C]{}, err
	}
	return Ready[C]{b: s.b}, nil
}

func (s ArchimedeanRhoStage[C]) SetRhoScalar(tau float64) (Ready[C], error) {
	return s.SetRho(correlation.FromScalar(tau))
}

// SetTheta sets θ directly, bypassing any correlation matrix.
func (s ArchimedeanRhoStage[C]) SetTheta(theta float64) (Ready[C], error) {
	if err := s.b.usable(); err != nil {
		return Ready[C]{}, err
	}
	if err := s.a.setTheta(theta); err != nil {
		return Ready[C]{}, err
	}
	return Ready[C]{b: s.b}, nil
}

func (s ArchimedeanRhoStage[C]) SetRandomSource(src rng.Source) ArchimedeanRhoStage[C] {
	if s.b.usable() == nil {
		s.b.draft.useSource(src)
	}
	return s
}

func newArchimedeanBuilder[C Copula](c C, a *archimedean) ArchimedeanBuilder[C] {
	b := &build[C]{
		draft: a,
		finish: func() (C, error) {
			if !a.set {
				var zero C
				return zero, &ParameterError{Family: a.gen.family(), Param: "theta", Value: math.NaN(), Reason: "not set"}
			}
			return c, nil
		},
	}
	return ArchimedeanBuilder[C]{b: b, a: a}
}
