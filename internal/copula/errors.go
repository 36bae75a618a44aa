package copula

import (
	"errors"
	"fmt"

	"github.com/san-kum/copulab/internal/correlation"
)

// Domain errors for copula construction and sampling.
var (
	// ErrInvalidCorrelationMatrix indicates a matrix rejected by the
	// correlation validator or unusable as a covariance.
	ErrInvalidCorrelationMatrix = correlation.ErrInvalidMatrix

	// ErrUnsupportedConversion indicates a declared correlation type with no
	// closed-form mapping for the requested family.
	ErrUnsupportedConversion = correlation.ErrUnsupportedConversion

	// ErrParameterDomain indicates a family parameter outside its domain.
	ErrParameterDomain = errors.New("copula: parameter out of domain")

	// ErrNotImplemented indicates a family or path without a defined sampler.
	ErrNotImplemented = errors.New("copula: not implemented")

	// ErrNotPositiveDefinite indicates a structurally valid correlation
	// matrix that has no Cholesky factorization.
	ErrNotPositiveDefinite = errors.New("copula: correlation matrix not positive definite")

	// ErrBuilderOrder indicates a builder stage used out of order, either a
	// zero-value stage or one reused after Build.
	ErrBuilderOrder = errors.New("copula: builder stage out of order")
)

// ParameterError wraps ErrParameterDomain with the offending value.
type ParameterError struct {
	Family Family
	Param  string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%v: %s %s = %v: %s", ErrParameterDomain, e.Family, e.Param, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrParameterDomain
}
