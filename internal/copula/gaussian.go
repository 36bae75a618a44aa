package copula

import (
	"github.com/san-kum/copulab/internal/rng"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

type normalKind struct{}

func (normalKind) latent(mu []float64, sigma *mat.SymDense, src rng.Source) (latent, bool) {
	return distmv.NewNormal(mu, sigma, src)
}

func (normalKind) marginal(src rng.Source) Marginal {
	return distuv.Normal{Mu: 0, Sigma: 1, Src: src}
}

func (normalKind) ready() bool { return true }

// Gaussian is the elliptical copula of a multivariate normal distribution.
type Gaussian struct {
	elliptical
}

func newGaussian() *Gaussian {
	return &Gaussian{elliptical: newElliptical(normalKind{})}
}

func (g *Gaussian) Family() Family { return FamilyGaussian }

func (g *Gaussian) Params() map[string]float64 { return map[string]float64{} }

func (g *Gaussian) SampleN(n int) *mat.Dense { return sampleN(g, n) }

// NewGaussianBuilder starts a Gaussian copula build.
func NewGaussianBuilder() Builder[*Gaussian, Ready[*Gaussian]] {
	g := newGaussian()
	b := &build[*Gaussian]{
		draft:  g,
		finish: func() (*Gaussian, error) { return g, nil },
	}
	return Builder[*Gaussian, Ready[*Gaussian]]{b: b, next: readyStage[*Gaussian]}
}
