package correlation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// symmetryTolerance scales with the magnitude of the compared pair.
const symmetryTolerance = 10 * 0x1p-52

// Validate checks the structural validity of a correlation matrix. The
// diagonal comparison is exact: converters must emit 1.0, not sin(π/2).
func Validate(m mat.Matrix) error {
	if m == nil {
		return fmt.Errorf("%w: nil matrix", ErrInvalidMatrix)
	}
	r, c := m.Dims()
	if r == 0 || r != c {
		return fmt.Errorf("%w: shape %dx%d is not square", ErrInvalidMatrix, r, c)
	}

	for i := 0; i < r; i++ {
		if v := m.At(i, i); v != 1.0 {
			return fmt.Errorf("%w: diagonal [%d,%d] = %v", ErrInvalidMatrix, i, i, v)
		}
	}

	for i := 0; i < r; i++ {
		for j := i + 1; j < c; j++ {
			a, b := m.At(i, j), m.At(j, i)
			if !almostEqual(a, b) {
				return fmt.Errorf("%w: [%d,%d] = %v but [%d,%d] = %v", ErrInvalidMatrix, i, j, a, j, i, b)
			}
			// NaN fails both comparisons and lands here.
			if !(a > -1 && a < 1) {
				return fmt.Errorf("%w: [%d,%d] = %v outside (-1, 1)", ErrInvalidMatrix, i, j, a)
			}
		}
	}
	return nil
}

// IsValid reports whether Validate accepts m.
func IsValid(m mat.Matrix) bool {
	return Validate(m) == nil
}

func almostEqual(a, b float64) bool {
	if a == b {
		return true
	}
	if math.IsNaN(a) || math.IsNaN(b) {
		// Symmetric NaN pairs are rejected by the range check instead.
		return math.IsNaN(a) && math.IsNaN(b)
	}
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= symmetryTolerance*scale
}
