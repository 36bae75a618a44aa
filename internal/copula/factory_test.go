package copula_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/copulab/internal/copula"
	"github.com/san-kum/copulab/internal/correlation"
	"github.com/san-kum/copulab/internal/rng"
	"gonum.org/v1/gonum/mat"
)

var _ = Describe("Factories", func() {
	DescribeTable("NewFactory",
		func(t correlation.Type) {
			f, err := copula.NewFactory(t)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.CorrelationType()).To(Equal(t))
		},
		Entry("pearson", correlation.PearsonLinear),
		Entry("kendall", correlation.KendallRank),
		Entry("spearman", correlation.SpearmanRank),
	)

	It("rejects unknown correlation types", func() {
		_, err := copula.NewFactory(correlation.Type(42))
		Expect(err).To(MatchError(copula.ErrUnsupportedConversion))
	})

	It("converts rho for the t copula", func() {
		c, err := copula.FromKendall{}.StudentT(correlation.FromScalar(0.5), 4, rng.New(1))
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Rho().At(0, 1)).To(BeNumerically("~", 0.707106781186547, 1e-12))
		Expect(c.CorrelationType()).To(Equal(correlation.KendallRank))
	})

	It("converts rho for the Gaussian copula", func() {
		c, err := copula.FromSpearman{}.Gaussian(correlation.FromScalar(0.5), rng.New(1))
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Rho().At(0, 1)).To(BeNumerically("~", 0.517638090205041, 1e-12))
	})

	It("refuses Archimedean families from Pearson or Spearman", func() {
		for _, f := range []copula.Factory{copula.FromPearson{}, copula.FromSpearman{}} {
			c, err := f.Clayton(correlation.FromScalar(0.3), nil)
			Expect(err).To(MatchError(copula.ErrUnsupportedConversion))
			Expect(c).To(BeNil())
			c, err = f.Gumbel(correlation.FromScalar(0.3), nil)
			Expect(err).To(MatchError(copula.ErrUnsupportedConversion))
			Expect(c).To(BeNil())
		}
	})

	It("rejects negative Kendall's tau for Archimedean families", func() {
		c, err := copula.FromKendall{}.Clayton(correlation.FromScalar(-0.3), rng.New(1))
		Expect(err).To(MatchError(copula.ErrParameterDomain))
		Expect(c == nil).To(BeTrue())

		c, err = copula.FromKendall{}.Gumbel(correlation.FromScalar(-0.3), rng.New(1))
		Expect(err).To(MatchError(copula.ErrParameterDomain))
		Expect(c == nil).To(BeTrue())
	})

	It("takes the independence branch for Clayton at tau zero", func() {
		c, err := copula.FromKendall{}.Clayton(correlation.FromScalar(0), rng.New(1))
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Params()["theta"]).To(Equal(0.0))
		for i := 0; i < 100; i++ {
			u := c.Sample()
			Expect(u).To(HaveLen(2))
			for _, v := range u {
				Expect(v).To(BeNumerically(">", 0))
				Expect(v).To(BeNumerically("<", 1))
			}
		}
	})

	It("returns a nil interface on failure", func() {
		c, err := copula.FromPearson{}.Gaussian(mat.NewDense(2, 3, nil), nil)
		Expect(err).To(MatchError(copula.ErrInvalidCorrelationMatrix))
		Expect(c == nil).To(BeTrue())
	})

	Describe("New", func() {
		It("prefers theta for Archimedean families", func() {
			c, err := copula.New(copula.Settings{Family: copula.FamilyGumbel, Theta: 3}, rng.New(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Params()).To(HaveKeyWithValue("theta", 3.0))
		})

		It("builds elliptical families from rho", func() {
			c, err := copula.New(copula.Settings{
				Family:           copula.FamilyStudentT,
				CorrelationType:  correlation.PearsonLinear,
				Rho:              correlation.Identity(4),
				DegreesOfFreedom: 3,
			}, rng.New(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Dimension()).To(Equal(4))
		})
	})

	DescribeTable("ParseFamily",
		func(in string, want copula.Family) {
			got, err := copula.ParseFamily(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("normal", "normal", copula.FamilyGaussian),
		Entry("student-t", "student-t", copula.FamilyStudentT),
		Entry("clayton", "clayton", copula.FamilyClayton),
		Entry("gumbel", "gumbel", copula.FamilyGumbel),
	)
})
