package copula

import (
	"math"
	"math/rand/v2"

	"github.com/san-kum/copulab/internal/correlation"
	"github.com/san-kum/copulab/internal/rng"
	"gonum.org/v1/gonum/mat"
)

// Family names a copula family.
type Family string

const (
	FamilyGaussian Family = "gaussian"
	FamilyStudentT Family = "t"
	FamilyClayton  Family = "clayton"
	FamilyGumbel   Family = "gumbel"
)

// Families lists every supported family.
func Families() []Family {
	return []Family{FamilyGaussian, FamilyStudentT, FamilyClayton, FamilyGumbel}
}

// IsArchimedean reports whether f is a bivariate Archimedean family.
func (f Family) IsArchimedean() bool {
	return f == FamilyClayton || f == FamilyGumbel
}

// Copula is a fully parametrized, immutable copula. Only the random source
// may be replaced after Build.
type Copula interface {
	Family() Family
	Dimension() int
	// Rho returns a copy of the stored correlation matrix.
	Rho() *mat.SymDense
	// CorrelationType is the convention the caller declared.
	CorrelationType() correlation.Type
	// Params returns family parameters such as "nu" or "theta".
	Params() map[string]float64
	RandomSource() rng.Source
	// SetRandomSource replaces the stream of the copula and every internal
	// generator. A nil source selects rng.Default.
	SetRandomSource(src rng.Source)
	// Sample draws one vector with coordinates in (0, 1).
	Sample() []float64
	// SampleN draws n vectors as the rows of an n x Dimension matrix.
	SampleN(n int) *mat.Dense
}

type base struct {
	rho      *mat.SymDense
	corrType correlation.Type
	src      rng.Source
	rnd      *rand.Rand
}

func newBase() base {
	src := rng.Default()
	return base{src: src, rnd: rand.New(src)}
}

func (b *base) Dimension() int {
	if b.rho == nil {
		return 0
	}
	return b.rho.SymmetricDim()
}

func (b *base) Rho() *mat.SymDense {
	if b.rho == nil {
		return nil
	}
	out := mat.NewSymDense(b.rho.SymmetricDim(), nil)
	out.CopySym(b.rho)
	return out
}

func (b *base) CorrelationType() correlation.Type { return b.corrType }
func (b *base) RandomSource() rng.Source          { return b.src }

func (b *base) declare(t correlation.Type) { b.corrType = t }

func (b *base) useSource(src rng.Source) {
	b.src = rng.OrDefault(src)
	b.rnd = rand.New(b.src)
}

func sampleN(c Copula, n int) *mat.Dense {
	d := c.Dimension()
	if n <= 0 || d == 0 {
		return &mat.Dense{}
	}
	out := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		out.SetRow(i, c.Sample())
	}
	return out
}

var belowOne = math.Nextafter(1, 0)

// openUnit keeps CDF tails that round to 0 or 1 inside (0, 1).
func openUnit(u float64) float64 {
	switch {
	case u <= 0:
		return math.SmallestNonzeroFloat64
	case u >= 1:
		return belowOne
	}
	return u
}
