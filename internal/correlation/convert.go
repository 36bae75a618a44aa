package correlation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// KendallToPearson maps Kendall's tau to the linear correlation of an
// elliptical distribution.
func KendallToPearson(tau float64) float64 {
	return math.Sin(tau * math.Pi / 2)
}

// SpearmanToPearson maps Spearman's rho to the linear correlation of a
// Gaussian distribution.
func SpearmanToPearson(rho float64) float64 {
	return 2 * math.Sin(rho*math.Pi/6)
}

// PearsonToKendall is the inverse of KendallToPearson.
func PearsonToKendall(rho float64) float64 {
	return 2 / math.Pi * math.Asin(rho)
}

// PearsonToSpearman is the inverse of SpearmanToPearson.
func PearsonToSpearman(rho float64) float64 {
	return 6 / math.Pi * math.Asin(rho/2)
}

// KendallMatrixToPearson applies KendallToPearson to every off-diagonal entry.
func KendallMatrixToPearson(m mat.Matrix) *mat.SymDense {
	return mapOffDiagonal(m, KendallToPearson)
}

// SpearmanMatrixToPearson applies SpearmanToPearson to every off-diagonal entry.
func SpearmanMatrixToPearson(m mat.Matrix) *mat.SymDense {
	return mapOffDiagonal(m, SpearmanToPearson)
}

// ToPearson converts m, declared under t, to a Pearson-linear matrix. Only
// the upper triangle of m is read, so validate m first when its symmetry is
// in doubt. The result is always a fresh copy.
func ToPearson(m mat.Matrix, t Type) (*mat.SymDense, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil matrix", ErrInvalidMatrix)
	}
	if r, c := m.Dims(); r != c {
		return nil, fmt.Errorf("%w: shape %dx%d is not square", ErrInvalidMatrix, r, c)
	}

	switch t {
	case PearsonLinear:
		return Symmetric(m), nil
	case KendallRank:
		return KendallMatrixToPearson(m), nil
	case SpearmanRank:
		return SpearmanMatrixToPearson(m), nil
	default:
		return nil, fmt.Errorf("%w: %v to pearson", ErrUnsupportedConversion, t)
	}
}

// FromScalar promotes rho to the 2x2 matrix [[1, rho], [rho, 1]].
func FromScalar(rho float64) *mat.SymDense {
	return mat.NewSymDense(2, []float64{1, rho, rho, 1})
}

// Identity returns the d-dimensional independence matrix.
func Identity(d int) *mat.SymDense {
	m := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		m.SetSym(i, i, 1)
	}
	return m
}

// Symmetric copies m into a SymDense using the upper triangle. Callers must
// have checked symmetry first if the lower triangle matters.
func Symmetric(m mat.Matrix) *mat.SymDense {
	n, _ := m.Dims()
	out := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			out.SetSym(i, j, m.At(i, j))
		}
	}
	return out
}

// FromRows builds a square matrix from row slices. It only checks shape;
// use Validate for correlation semantics.
func FromRows(rows [][]float64) (*mat.Dense, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrInvalidMatrix)
	}
	data := make([]float64, 0, n*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrInvalidMatrix, i, len(row), n)
		}
		data = append(data, row...)
	}
	return mat.NewDense(n, n, data), nil
}

// Rows is the inverse of FromRows.
func Rows(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = make([]float64, c)
		for j := range out[i] {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}

func mapOffDiagonal(m mat.Matrix, fn func(float64) float64) *mat.SymDense {
	n, _ := m.Dims()
	out := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		out.SetSym(i, i, 1.0)
		for j := i + 1; j < n; j++ {
			out.SetSym(i, j, fn(m.At(i, j)))
		}
	}
	return out
}
