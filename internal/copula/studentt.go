package copula

import (
	"math"

	"github.com/san-kum/copulab/internal/rng"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

type studentKind struct {
	nu float64
}

func (k *studentKind) latent(mu []float64, sigma *mat.SymDense, src rng.Source) (latent, bool) {
	return distmv.NewStudentsT(mu, sigma, k.nu, src)
}

func (k *studentKind) marginal(src rng.Source) Marginal {
	nu := k.nu
	if nu <= 0 {
		nu = 1
	}
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: nu, Src: src}
}

func (k *studentKind) ready() bool { return k.nu > 0 }

// StudentT is the elliptical copula of a multivariate Student-t
// distribution with ν degrees of freedom.
type StudentT struct {
	elliptical
	dof *studentKind
}

func newStudentT() *StudentT {
	k := &studentKind{}
	return &StudentT{elliptical: newElliptical(k), dof: k}
}

func (t *StudentT) Family() Family { return FamilyStudentT }

// DegreesOfFreedom returns ν, or 0 before it has been set.
func (t *StudentT) DegreesOfFreedom() float64 { return t.dof.nu }

func (t *StudentT) Params() map[string]float64 {
	return map[string]float64{"nu": t.dof.nu}
}

func (t *StudentT) SampleN(n int) *mat.Dense { return sampleN(t, n) }

func (t *StudentT) setDegreesOfFreedom(nu float64) error {
	if !(nu > 0) || math.IsInf(nu, 0) {
		return &ParameterError{Family: FamilyStudentT, Param: "nu", Value: nu, Reason: "must be positive and finite"}
	}
	prev := t.dof.nu
	t.dof.nu = nu
	if err := t.rebuild(); err != nil {
		t.dof.nu = prev
		_ = t.rebuild()
		return err
	}
	return nil
}

// DegreesOfFreedomStage follows SetRho for the t copula.
type DegreesOfFreedomStage struct {
	b *build[*StudentT]
	t *StudentT
}

// SetDegreesOfFreedom sets ν and rebuilds the generator and transform.
func (s DegreesOfFreedomStage) SetDegreesOfFreedom(nu float64) (Ready[*StudentT], error) {
	if err := s.b.usable(); err != nil {
		return Ready[*StudentT]{}, err
	}
	if err := s.t.setDegreesOfFreedom(nu); err != nil {
		return Ready[*StudentT]{}, err
	}
	return Ready[*StudentT]{b: s.b}, nil
}

func (s DegreesOfFreedomStage) SetRandomSource(src rng.Source) DegreesOfFreedomStage {
	if s.b.usable() == nil {
		s.b.draft.useSource(src)
	}
	return s
}

// NewStudentTBuilder starts a t copula build.
func NewStudentTBuilder() Builder[*StudentT, DegreesOfFreedomStage] {
	t := newStudentT()
	b := &build[*StudentT]{
		draft: t,
		finish: func() (*StudentT, error) {
			if !t.dof.ready() {
				return nil, &ParameterError{Family: FamilyStudentT, Param: "nu", Value: t.dof.nu, Reason: "not set"}
			}
			return t, nil
		},
	}
	next := func(b *build[*StudentT]) DegreesOfFreedomStage {
		return DegreesOfFreedomStage{b: b, t: t}
	}
	return Builder[*StudentT, DegreesOfFreedomStage]{b: b, next: next}
}
