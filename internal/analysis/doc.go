// Package analysis inspects samples drawn from a copula.
//
// The package includes tools for checking a sample against the copula that
// produced it:
//
//   - [Histogram]: marginal histogram on [0, 1]
//   - [ScatterToASCII]: density-shaded scatter of two coordinates
//   - [EmpiricalCorrelation]: Pearson, Kendall or Spearman matrix of a sample
//   - [TheoreticalKendall], [TheoreticalTailDependence]: closed forms per family
//   - [Autocorrelation]: serial dependence of a coordinate across draws
//   - [Verify]: target against empirical dependence and uniformity
//
// # Verification
//
// A sample passes when every check is within tolerance:
//
//	checks := analysis.Verify(c, samples)
//	if !analysis.AllPass(checks) {
//	    // sample disagrees with the copula
//	}
package analysis
