// Package correlation validates correlation matrices and converts
// rank-based concordance measures to Pearson-linear correlations.
//
// Every input is a square [mat.Matrix] tagged with a [Type]:
//
//   - [PearsonLinear]: linear correlation, stored as-is
//   - [KendallRank]: Kendall's tau, mapped by sin(τπ/2)
//   - [SpearmanRank]: Spearman's rho, mapped by 2·sin(ρπ/6)
//
// # Validity
//
// [Validate] accepts a matrix only if every diagonal entry is exactly 1.0,
// the matrix is symmetric within an epsilon-scaled tolerance and every
// off-diagonal entry lies strictly inside (-1, 1). The converters reset the
// diagonal explicitly so their output always passes the exact diagonal check.
//
//	m := correlation.FromScalar(0.5)
//	pearson, err := correlation.ToPearson(m, correlation.SpearmanRank)
package correlation
