package copula

import (
	"fmt"

	"github.com/san-kum/copulab/internal/correlation"
	"github.com/san-kum/copulab/internal/rng"
	"gonum.org/v1/gonum/mat"
)

// Marginal is a continuous univariate distribution used to map a latent
// coordinate onto (0, 1).
type Marginal interface {
	CDF(x float64) float64
}

type latent interface {
	Rand(x []float64) []float64
}

// ellipticalKind supplies the latent generator and marginal transform of an
// elliptical family. ready reports whether every family parameter is set.
type ellipticalKind interface {
	latent(mu []float64, sigma *mat.SymDense, src rng.Source) (latent, bool)
	marginal(src rng.Source) Marginal
	ready() bool
}

type elliptical struct {
	base
	kind      ellipticalKind
	gen       latent
	transform Marginal
}

func newElliptical(kind ellipticalKind) elliptical {
	e := elliptical{base: newBase(), kind: kind}
	e.transform = kind.marginal(e.src)
	return e
}

// Transform returns the marginal distribution applied to latent coordinates.
func (e *elliptical) Transform() Marginal { return e.transform }

// assign converts m to Pearson under the declared type, validates it and
// commits it together with a fresh generator. On error nothing changes.
func (e *elliptical) assign(m mat.Matrix) error {
	if err := correlation.Validate(m); err != nil {
		return err
	}
	rho, err := correlation.ToPearson(m, e.corrType)
	if err != nil {
		return err
	}
	if err := correlation.Validate(rho); err != nil {
		return fmt.Errorf("after %s conversion: %w", e.corrType, err)
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(rho); !ok {
		return fmt.Errorf("%w: %w", ErrInvalidCorrelationMatrix, ErrNotPositiveDefinite)
	}

	var gen latent
	if e.kind.ready() {
		g, ok := e.kind.latent(make([]float64, rho.SymmetricDim()), rho, e.src)
		if !ok {
			return fmt.Errorf("%w: %w", ErrInvalidCorrelationMatrix, ErrNotPositiveDefinite)
		}
		gen = g
	}
	e.rho = rho
	e.gen = gen
	return nil
}

// rebuild recreates the generator and transform from the committed state.
func (e *elliptical) rebuild() error {
	e.transform = e.kind.marginal(e.src)
	if e.rho == nil || !e.kind.ready() {
		e.gen = nil
		return nil
	}
	g, ok := e.kind.latent(make([]float64, e.rho.SymmetricDim()), e.rho, e.src)
	if !ok {
		return fmt.Errorf("%w: %w", ErrInvalidCorrelationMatrix, ErrNotPositiveDefinite)
	}
	e.gen = g
	return nil
}

func (e *elliptical) useSource(src rng.Source) {
	e.base.useSource(src)
	// rho already factorized once, so the rebuild cannot fail here
	_ = e.rebuild()
}

// SetRandomSource replaces the stream of the latent generator and the
// marginal transform.
func (e *elliptical) SetRandomSource(src rng.Source) {
	e.useSource(src)
}

func (e *elliptical) Sample() []float64 {
	if e.gen == nil {
		return nil
	}
	x := e.gen.Rand(nil)
	for i, v := range x {
		x[i] = openUnit(e.transform.CDF(v))
	}
	return x
}
