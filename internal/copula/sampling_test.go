package copula_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/copulab/internal/copula"
	"github.com/san-kum/copulab/internal/correlation"
	"github.com/san-kum/copulab/internal/rng"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

func mustGaussian(rho float64, seed uint64) copula.Copula {
	c, err := copula.FromPearson{}.Gaussian(correlation.FromScalar(rho), rng.New(seed))
	Expect(err).NotTo(HaveOccurred())
	return c
}

func column(m *mat.Dense, j int) []float64 {
	return mat.Col(nil, j, m)
}

var _ = Describe("Sampling", func() {
	DescribeTable("stays inside the open unit hypercube",
		func(build func() (copula.Copula, error)) {
			c, err := build()
			Expect(err).NotTo(HaveOccurred())
			m := c.SampleN(2000)
			r, d := m.Dims()
			Expect(r).To(Equal(2000))
			Expect(d).To(Equal(c.Dimension()))
			for i := 0; i < r; i++ {
				for j := 0; j < d; j++ {
					Expect(m.At(i, j)).To(And(BeNumerically(">", 0), BeNumerically("<", 1)))
				}
			}
		},
		Entry("gaussian", func() (copula.Copula, error) {
			return copula.FromPearson{}.Gaussian(correlation.FromScalar(0.95), rng.New(11))
		}),
		Entry("t", func() (copula.Copula, error) {
			return copula.FromPearson{}.StudentT(correlation.FromScalar(-0.7), 2, rng.New(12))
		}),
		Entry("clayton", func() (copula.Copula, error) { return copula.NewClayton(8, rng.New(13)) }),
		Entry("gumbel", func() (copula.Copula, error) { return copula.NewGumbel(6, rng.New(14)) }),
		Entry("clayton independence", func() (copula.Copula, error) { return copula.NewClayton(0, rng.New(15)) }),
		Entry("gumbel independence", func() (copula.Copula, error) { return copula.NewGumbel(1, rng.New(16)) }),
	)

	It("recovers the Gaussian correlation from 10^5 draws", func() {
		m := mustGaussian(0.5, 2024).SampleN(100000)
		u, v := column(m, 0), column(m, 1)

		Expect(stat.Correlation(u, v, nil)).To(BeNumerically("~", correlation.PearsonToSpearman(0.5), 0.01))

		for i := range u {
			u[i] = distuv.UnitNormal.Quantile(u[i])
			v[i] = distuv.UnitNormal.Quantile(v[i])
		}
		Expect(stat.Correlation(u, v, nil)).To(BeNumerically("~", 0.5, 0.01))
	})

	It("keeps Clayton at theta 0 independent", func() {
		c, err := copula.NewClayton(0, rng.New(5))
		Expect(err).NotTo(HaveOccurred())
		m := c.SampleN(20000)
		Expect(stat.Correlation(column(m, 0), column(m, 1), nil)).To(BeNumerically("~", 0, 0.03))
	})

	DescribeTable("matches the target Kendall's tau",
		func(f copula.Family, tau float64) {
			var (
				c   copula.Copula
				err error
			)
			switch f {
			case copula.FamilyClayton:
				c, err = copula.FromKendall{}.Clayton(correlation.FromScalar(tau), rng.New(99))
			case copula.FamilyGumbel:
				c, err = copula.FromKendall{}.Gumbel(correlation.FromScalar(tau), rng.New(99))
			default:
				c, err = copula.FromKendall{}.Gaussian(correlation.FromScalar(tau), rng.New(99))
			}
			Expect(err).NotTo(HaveOccurred())
			m := c.SampleN(2000)
			Expect(stat.Kendall(column(m, 0), column(m, 1), nil)).To(BeNumerically("~", tau, 0.05))
		},
		Entry("clayton 0.3", copula.FamilyClayton, 0.3),
		Entry("clayton 0.6", copula.FamilyClayton, 0.6),
		Entry("gumbel 0.3", copula.FamilyGumbel, 0.3),
		Entry("gumbel 0.6", copula.FamilyGumbel, 0.6),
		Entry("gaussian 0.4", copula.FamilyGaussian, 0.4),
	)

	It("clusters Clayton in the lower tail and Gumbel in the upper tail", func() {
		const n, q = 20000, 0.05
		tail := func(m *mat.Dense, lower bool) float64 {
			var both, one int
			for i := 0; i < n; i++ {
				u, v := m.At(i, 0), m.At(i, 1)
				if lower {
					u, v = 1-u, 1-v
				}
				if u > 1-q {
					one++
					if v > 1-q {
						both++
					}
				}
			}
			return float64(both) / float64(one)
		}

		cl, err := copula.NewClayton(2, rng.New(21))
		Expect(err).NotTo(HaveOccurred())
		gu, err := copula.NewGumbel(2, rng.New(22))
		Expect(err).NotTo(HaveOccurred())
		cm, gm := cl.SampleN(n), gu.SampleN(n)

		Expect(tail(cm, true)).To(BeNumerically(">", tail(cm, false)+0.15))
		Expect(tail(gm, false)).To(BeNumerically(">", tail(gm, true)+0.15))
	})

	Describe("random source", func() {
		It("is deterministic for a fixed seed", func() {
			a := mustGaussian(0.3, 42).SampleN(50)
			b := mustGaussian(0.3, 42).SampleN(50)
			Expect(mat.Equal(a, b)).To(BeTrue())

			c1, _ := copula.NewGumbel(2, rng.New(8))
			c2, _ := copula.NewGumbel(2, rng.New(8))
			Expect(mat.Equal(c1.SampleN(50), c2.SampleN(50))).To(BeTrue())
		})

		It("cascades a replaced source to the generators", func() {
			fresh := mustGaussian(0.3, 7).Sample()

			c := mustGaussian(0.3, 1)
			c.SampleN(10)
			c.SetRandomSource(rng.New(7))
			Expect(c.Sample()).To(Equal(fresh))

			t, err := copula.FromPearson{}.StudentT(correlation.FromScalar(0.3), 5, rng.New(7))
			Expect(err).NotTo(HaveOccurred())
			want := t.Sample()
			t.SetRandomSource(rng.New(7))
			Expect(t.Sample()).To(Equal(want))
		})

		It("falls back to the process default on nil", func() {
			c := mustGaussian(0.3, 1)
			c.SetRandomSource(nil)
			Expect(c.RandomSource()).To(BeIdenticalTo(rng.Default()))
			Expect(c.Sample()).To(HaveLen(2))
		})
	})

	Describe("generators", func() {
		It("inverts", func() {
			cl, _ := copula.NewClayton(1.5, nil)
			gu, _ := copula.NewGumbel(2.5, nil)
			cl0, _ := copula.NewClayton(0, nil)
			for _, t := range []float64{0.05, 0.3, 0.5, 0.9} {
				Expect(cl.InverseGenerator(cl.Generator(t))).To(BeNumerically("~", t, 1e-12))
				Expect(gu.InverseGenerator(gu.Generator(t))).To(BeNumerically("~", t, 1e-12))
				Expect(cl0.Generator(t)).To(BeNumerically("~", -math.Log(t), 1e-15))
			}
			Expect(cl.Generator(1)).To(Equal(0.0))
			Expect(gu.Generator(1)).To(Equal(0.0))
		})
	})
})
