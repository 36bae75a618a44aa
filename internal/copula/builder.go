package copula

import (
	"fmt"

	"github.com/san-kum/copulab/internal/correlation"
	"github.com/san-kum/copulab/internal/rng"
	"gonum.org/v1/gonum/mat"
)

// draft is the mutable side of a copula while a builder owns it.
type draft interface {
	declare(t correlation.Type)
	assign(m mat.Matrix) error
	useSource(src rng.Source)
}

type build[C Copula] struct {
	draft  draft
	finish func() (C, error)
	built  bool
}

func (b *build[C]) usable() error {
	if b == nil {
		return fmt.Errorf("%w: zero-value stage", ErrBuilderOrder)
	}
	if b.built {
		return fmt.Errorf("%w: stage reused after Build", ErrBuilderOrder)
	}
	return nil
}

// Builder is the start stage. Its only step is SetCorrelationType.
type Builder[C Copula, N any] struct {
	b    *build[C]
	next func(*build[C]) N
}

// SetCorrelationType declares how the matrix passed to SetRho is to be read.
func (s Builder[C, N]) SetCorrelationType(t correlation.Type) RhoStage[C, N] {
	if s.b.usable() == nil {
		s.b.draft.declare(t)
	}
	return RhoStage[C, N]{b: s.b, next: s.next}
}

// RhoStage accepts the correlation matrix of an elliptical copula.
type RhoStage[C Copula, N any] struct {
	b    *build[C]
	next func(*build[C]) N
}

// SetRho validates m, converts it to Pearson and validates the result. The
// draft is only modified when every step succeeds.
func (s RhoStage[C, N]) SetRho(m mat.Matrix) (N, error) {
	var zero N
	if err := s.b.usable(); err != nil {
		return zero, err
	}
	if err := s.b.draft.assign(m); err != nil {
		return zero, err
	}
	return s.next(s.b), nil
}

// SetRhoScalar is SetRho with the 2x2 matrix [[1, rho], [rho, 1]].
func (s RhoStage[C, N]) SetRhoScalar(rho float64) (N, error) {
	return s.SetRho(correlation.FromScalar(rho))
}

func (s RhoStage[C, N]) SetRandomSource(src rng.Source) RhoStage[C, N] {
	if s.b.usable() == nil {
		s.b.draft.useSource(src)
	}
	return s
}

// Ready is the final stage.
type Ready[C Copula] struct {
	b *build[C]
}

func readyStage[C Copula](b *build[C]) Ready[C] {
	return Ready[C]{b: b}
}

func (s Ready[C]) SetRandomSource(src rng.Source) Ready[C] {
	if s.b.usable() == nil {
		s.b.draft.useSource(src)
	}
	return s
}

// Build returns the copula. Every stage of this builder is unusable
// afterwards.
func (s Ready[C]) Build() (C, error) {
	var zero C
	if err := s.b.usable(); err != nil {
		return zero, err
	}
	c, err := s.b.finish()
	if err != nil {
		return zero, err
	}
	s.b.built = true
	return c, nil
}
