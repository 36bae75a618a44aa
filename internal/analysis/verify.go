package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/copulab/internal/copula"
	"github.com/san-kum/copulab/internal/correlation"
	"github.com/san-kum/copulab/internal/metrics"
)

// Check compares one empirical statistic with its target.
type Check struct {
	Name      string
	Target    float64
	Empirical float64
	Tolerance float64
}

func (c Check) Pass() bool {
	return math.Abs(c.Empirical-c.Target) <= c.Tolerance
}

func (c Check) String() string {
	status := "ok"
	if !c.Pass() {
		status = "FAIL"
	}
	return fmt.Sprintf("%-22s target %8.4f  empirical %8.4f  tol %.4f  %s",
		c.Name, c.Target, c.Empirical, c.Tolerance, status)
}

// AllPass reports whether every check passed.
func AllPass(checks []Check) bool {
	for _, c := range checks {
		if !c.Pass() {
			return false
		}
	}
	return true
}

// MaxKendallSamples caps the rows used for the quadratic Kendall estimate.
const MaxKendallSamples = metrics.KendallWindow

// Verify checks samples against c: pairwise Kendall's tau, marginal
// uniformity, lag-1 serial independence and, for copulas with a bivariate
// CDF, the joint tail probabilities at DefaultTailQuantile.
func Verify(c copula.Copula, samples [][]float64) []Check {
	n := len(samples)
	if n < 2 {
		return nil
	}
	checks := make([]Check, 0)

	sub := samples
	if len(sub) > MaxKendallSamples {
		sub = sub[:MaxKendallSamples]
	}
	tol := 4 * math.Sqrt(2*(2*float64(len(sub))+5)/(9*float64(len(sub))*float64(len(sub)-1)))
	if emp, err := EmpiricalCorrelation(sub, correlation.KendallRank); err == nil {
		target := TheoreticalKendall(c)
		d := target.SymmetricDim()
		for i := 0; i < d; i++ {
			for j := i + 1; j < d; j++ {
				checks = append(checks, Check{
					Name:      fmt.Sprintf("kendall[%d,%d]", i, j),
					Target:    target.At(i, j),
					Empirical: emp.At(i, j),
					Tolerance: tol,
				})
			}
		}
	}

	d := len(samples[0])
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		for i, u := range samples {
			col[i] = u[j]
		}
		checks = append(checks, Check{
			Name:      fmt.Sprintf("ks[%d]", j),
			Target:    0,
			Empirical: metrics.KSUniform(col),
			Tolerance: 1.5 * metrics.KSCritical(n),
		})
		if ac := Autocorrelation(col, 1); len(ac) == 2 {
			checks = append(checks, Check{
				Name:      fmt.Sprintf("lag1[%d]", j),
				Target:    0,
				Empirical: ac[1],
				Tolerance: 4 / math.Sqrt(float64(n)),
			})
		}
	}

	if cdf, ok := c.(BivariateCDF); ok && d == 2 {
		q := metrics.DefaultTailQuantile
		lower := metrics.NewTailDependence(0, 1, q, true)
		upper := metrics.NewTailDependence(0, 1, q, false)
		for i, u := range samples {
			lower.Observe(u, i)
			upper.Observe(u, i)
		}
		lt, ut := TailProbabilities(cdf, q)
		checks = append(checks,
			Check{Name: "tail_lower", Target: lt, Empirical: lower.Value(), Tolerance: binomialTolerance(lt, float64(n)*q)},
			Check{Name: "tail_upper", Target: ut, Empirical: upper.Value(), Tolerance: binomialTolerance(ut, float64(n)*q)})
	}
	return checks
}

// BivariateCDF is implemented by copulas with a closed-form distribution
// function.
type BivariateCDF interface {
	CDF(u, v float64) float64
}

// TailProbabilities returns P(V < q | U < q) and P(V > 1-q | U > 1-q).
func TailProbabilities(c BivariateCDF, q float64) (lower, upper float64) {
	lower = c.CDF(q, q) / q
	upper = (1 - 2*(1-q) + c.CDF(1-q, 1-q)) / q
	return lower, upper
}

func binomialTolerance(p, n float64) float64 {
	if n < 1 {
		return 1
	}
	return 4*math.Sqrt(p*(1-p)/n) + 0.02
}
