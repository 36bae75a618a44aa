package copula_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/copulab/internal/copula"
	"github.com/san-kum/copulab/internal/correlation"
	"github.com/san-kum/copulab/internal/rng"
	"gonum.org/v1/gonum/mat"
)

var _ = Describe("Builders", func() {
	Describe("Gaussian", func() {
		It("stores the Pearson equivalent of a Spearman matrix", func() {
			m := mat.NewSymDense(3, []float64{
				1, 0.3, 0.4,
				0.3, 1, 0.2,
				0.4, 0.2, 1,
			})
			r, err := copula.NewGaussianBuilder().
				SetCorrelationType(correlation.SpearmanRank).
				SetRho(m)
			Expect(err).NotTo(HaveOccurred())
			g, err := r.SetRandomSource(rng.New(1)).Build()
			Expect(err).NotTo(HaveOccurred())

			want := correlation.SpearmanMatrixToPearson(m)
			Expect(mat.EqualApprox(g.Rho(), want, 1e-10)).To(BeTrue())
			Expect(g.Dimension()).To(Equal(3))
			Expect(g.CorrelationType()).To(Equal(correlation.SpearmanRank))
			Expect(g.Family()).To(Equal(copula.FamilyGaussian))
		})

		It("converts the 3x3 Spearman matrix element-wise", func() {
			m := mat.NewSymDense(3, []float64{
				1, 0.5, 0.1,
				0.5, 1, 0,
				0.1, 0, 1,
			})
			r, err := copula.NewGaussianBuilder().
				SetCorrelationType(correlation.SpearmanRank).
				SetRho(m)
			Expect(err).NotTo(HaveOccurred())
			g, err := r.Build()
			Expect(err).NotTo(HaveOccurred())

			want := mat.NewSymDense(3, []float64{
				1, 0.517638090205041, 0.104671912485888,
				0.517638090205041, 1, 0,
				0.104671912485888, 0, 1,
			})
			Expect(mat.EqualApprox(g.Rho(), want, 1e-10)).To(BeTrue())
			for i := 0; i < 3; i++ {
				Expect(g.Rho().At(i, i)).To(Equal(1.0))
			}
		})

		It("returns a copy of rho", func() {
			r, err := copula.NewGaussianBuilder().SetCorrelationType(correlation.PearsonLinear).SetRhoScalar(0.5)
			Expect(err).NotTo(HaveOccurred())
			g, err := r.Build()
			Expect(err).NotTo(HaveOccurred())

			g.Rho().SetSym(0, 1, 0.9)
			Expect(g.Rho().At(0, 1)).To(Equal(0.5))
		})

		It("rejects an invalid matrix without touching the draft", func() {
			stage := copula.NewGaussianBuilder().SetCorrelationType(correlation.PearsonLinear)
			_, err := stage.SetRho(mat.NewDense(2, 2, []float64{1.1, 0.5, 0.5, 1}))
			Expect(err).To(MatchError(copula.ErrInvalidCorrelationMatrix))

			r, err := stage.SetRhoScalar(0.25)
			Expect(err).NotTo(HaveOccurred())
			g, err := r.Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Rho().At(0, 1)).To(Equal(0.25))
		})

		It("rejects a matrix that is not positive definite", func() {
			m := mat.NewSymDense(3, []float64{
				1, 0.9, -0.9,
				0.9, 1, 0.9,
				-0.9, 0.9, 1,
			})
			_, err := copula.NewGaussianBuilder().SetCorrelationType(correlation.PearsonLinear).SetRho(m)
			Expect(err).To(MatchError(copula.ErrInvalidCorrelationMatrix))
			Expect(err).To(MatchError(copula.ErrNotPositiveDefinite))
		})
	})

	Describe("StudentT", func() {
		It("requires positive finite degrees of freedom", func() {
			stage, err := copula.NewStudentTBuilder().SetCorrelationType(correlation.PearsonLinear).SetRhoScalar(0.3)
			Expect(err).NotTo(HaveOccurred())

			for _, nu := range []float64{0, -2, math.NaN(), math.Inf(1)} {
				_, err := stage.SetDegreesOfFreedom(nu)
				Expect(err).To(MatchError(copula.ErrParameterDomain))
				var pe *copula.ParameterError
				Expect(err).To(BeAssignableToTypeOf(pe))
			}

			r, err := stage.SetDegreesOfFreedom(4)
			Expect(err).NotTo(HaveOccurred())
			c, err := r.Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(c.DegreesOfFreedom()).To(Equal(4.0))
			Expect(c.Params()).To(HaveKeyWithValue("nu", 4.0))
		})
	})

	Describe("Archimedean", func() {
		It("derives theta from Kendall's tau", func() {
			r, err := copula.NewClaytonBuilder().SetCorrelationType(correlation.KendallRank).SetRhoScalar(0.3)
			Expect(err).NotTo(HaveOccurred())
			c, err := r.Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Theta()).To(BeNumerically("~", 0.857142857142857, 1e-12))
			Expect(c.Kendall()).To(BeNumerically("~", 0.3, 1e-12))

			gr, err := copula.NewGumbelBuilder().SetCorrelationType(correlation.KendallRank).SetRhoScalar(0.3)
			Expect(err).NotTo(HaveOccurred())
			g, err := gr.Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Theta()).To(BeNumerically("~", 1.428571428571429, 1e-12))
		})

		It("refuses non-Kendall input", func() {
			for _, t := range []correlation.Type{correlation.PearsonLinear, correlation.SpearmanRank} {
				_, err := copula.NewClaytonBuilder().SetCorrelationType(t).SetRhoScalar(0.3)
				Expect(err).To(MatchError(copula.ErrUnsupportedConversion))
				_, err = copula.NewGumbelBuilder().SetCorrelationType(t).SetRhoScalar(0.3)
				Expect(err).To(MatchError(copula.ErrUnsupportedConversion))
			}
		})

		It("is bivariate only", func() {
			_, err := copula.NewClaytonBuilder().SetCorrelationType(correlation.KendallRank).SetRho(correlation.Identity(3))
			Expect(err).To(MatchError(copula.ErrNotImplemented))
		})

		It("checks the theta domain", func() {
			_, err := copula.NewClaytonBuilder().SetCorrelationType(correlation.KendallRank).SetRhoScalar(-0.2)
			Expect(err).To(MatchError(copula.ErrParameterDomain))
			_, err = copula.NewGumbelBuilder().SetCorrelationType(correlation.KendallRank).SetTheta(0.5)
			Expect(err).To(MatchError(copula.ErrParameterDomain))
			_, err = copula.NewClayton(-1, nil)
			Expect(err).To(MatchError(copula.ErrParameterDomain))
			_, err = copula.NewGumbel(math.Inf(1), nil)
			Expect(err).To(MatchError(copula.ErrParameterDomain))
		})

		It("builds directly from theta", func() {
			c, err := copula.NewClayton(2, rng.New(3))
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Theta()).To(Equal(2.0))
			Expect(c.Dimension()).To(Equal(2))
			Expect(c.Rho().At(0, 1)).To(BeNumerically("~", 0.5, 1e-12))
		})
	})

	Describe("ordering", func() {
		It("rejects zero-value stages", func() {
			_, err := copula.RhoStage[*copula.Gaussian, copula.Ready[*copula.Gaussian]]{}.SetRhoScalar(0.1)
			Expect(err).To(MatchError(copula.ErrBuilderOrder))

			_, err = copula.Ready[*copula.Gaussian]{}.Build()
			Expect(err).To(MatchError(copula.ErrBuilderOrder))

			_, err = copula.DegreesOfFreedomStage{}.SetDegreesOfFreedom(3)
			Expect(err).To(MatchError(copula.ErrBuilderOrder))

			_, err = copula.ArchimedeanRhoStage[*copula.Clayton]{}.SetTheta(1)
			Expect(err).To(MatchError(copula.ErrBuilderOrder))

			var start copula.Builder[*copula.Gaussian, copula.Ready[*copula.Gaussian]]
			_, err = start.SetCorrelationType(correlation.PearsonLinear).SetRhoScalar(0.1)
			Expect(err).To(MatchError(copula.ErrBuilderOrder))
		})

		It("rejects stages reused after Build", func() {
			stage := copula.NewGaussianBuilder().SetCorrelationType(correlation.PearsonLinear)
			r, err := stage.SetRhoScalar(0.4)
			Expect(err).NotTo(HaveOccurred())
			g, err := r.Build()
			Expect(err).NotTo(HaveOccurred())

			_, err = r.Build()
			Expect(err).To(MatchError(copula.ErrBuilderOrder))
			_, err = stage.SetRhoScalar(0.9)
			Expect(err).To(MatchError(copula.ErrBuilderOrder))
			Expect(g.Rho().At(0, 1)).To(Equal(0.4))

			a, err := copula.NewGumbelBuilder().SetCorrelationType(correlation.KendallRank).SetTheta(2)
			Expect(err).NotTo(HaveOccurred())
			_, err = a.Build()
			Expect(err).NotTo(HaveOccurred())
			_, err = a.Build()
			Expect(err).To(MatchError(copula.ErrBuilderOrder))
		})
	})
})
