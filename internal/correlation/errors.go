package correlation

import "errors"

var (
	// ErrInvalidMatrix indicates a diagonal entry other than 1.0, an asymmetric
	// pair or an off-diagonal value outside (-1, 1), NaN included.
	ErrInvalidMatrix = errors.New("correlation: invalid correlation matrix")

	// ErrUnsupportedConversion indicates a correlation type with no defined
	// conversion to Pearson-linear correlation.
	ErrUnsupportedConversion = errors.New("correlation: unsupported correlation conversion")
)
