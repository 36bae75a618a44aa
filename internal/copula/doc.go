// Package copula samples correlated uniform vectors from parametric copulas.
//
// Two families are provided, each behind the [Copula] interface:
//
//   - Elliptical: [Gaussian] and [StudentT], parametrized by a correlation
//     matrix of any dimension. A latent multivariate normal or Student-t
//     draw is mapped through its marginal CDF.
//   - Archimedean: [Clayton] and [Gumbel], bivariate, parametrized by a
//     scalar θ derived from Kendall's tau or set directly.
//
// # Construction
//
// Copulas are assembled through staged builders whose stage types only
// expose the next legal step, so calling stages out of order does not
// compile:
//
//	g, err := copula.NewGaussianBuilder().
//	    SetCorrelationType(correlation.SpearmanRank).
//	    SetRho(m)
//	if err != nil {
//	    return err
//	}
//	c, err := g.SetRandomSource(rng.New(42)).Build()
//
// Validation and conversion happen inside SetRho; a failing stage leaves
// the draft untouched. The [Factory] implementations wrap the builders for
// one-call construction.
//
// # Thread Safety
//
// A Copula owns a single random stream shared with its internal generators
// and is NOT safe for concurrent use. Give each goroutine its own instance
// and source, or hold a lock across every Sample/SampleN call.
package copula
