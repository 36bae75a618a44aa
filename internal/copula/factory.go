package copula

import (
	"fmt"

	"github.com/san-kum/copulab/internal/correlation"
	"github.com/san-kum/copulab/internal/rng"
	"gonum.org/v1/gonum/mat"
)

// Factory builds copulas from correlation input of one fixed convention.
type Factory interface {
	CorrelationType() correlation.Type
	Gaussian(rho mat.Matrix, src rng.Source) (Copula, error)
	StudentT(rho mat.Matrix, nu float64, src rng.Source) (Copula, error)
	// Clayton and Gumbel read the off-diagonal of a 2x2 matrix as
	// Kendall's tau.
	Clayton(rho mat.Matrix, src rng.Source) (Copula, error)
	Gumbel(rho mat.Matrix, src rng.Source) (Copula, error)
}

// NewFactory returns the factory for t.
func NewFactory(t correlation.Type) (Factory, error) {
	switch t {
	case correlation.PearsonLinear:
		return FromPearson{}, nil
	case correlation.KendallRank:
		return FromKendall{}, nil
	case correlation.SpearmanRank:
		return FromSpearman{}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedConversion, t)
}

// FromPearson builds copulas from Pearson correlation matrices.
type FromPearson struct{}

func (FromPearson) CorrelationType() correlation.Type { return correlation.PearsonLinear }

func (FromPearson) Gaussian(rho mat.Matrix, src rng.Source) (Copula, error) {
	return gaussian(correlation.PearsonLinear, rho, src)
}

func (FromPearson) StudentT(rho mat.Matrix, nu float64, src rng.Source) (Copula, error) {
	return studentT(correlation.PearsonLinear, rho, nu, src)
}

func (FromPearson) Clayton(rho mat.Matrix, src rng.Source) (Copula, error) {
	return clayton(correlation.PearsonLinear, rho, src)
}

func (FromPearson) Gumbel(rho mat.Matrix, src rng.Source) (Copula, error) {
	return gumbel(correlation.PearsonLinear, rho, src)
}

// FromKendall builds copulas from Kendall's tau matrices.
type FromKendall struct{}

func (FromKendall) CorrelationType() correlation.Type { return correlation.KendallRank }

func (FromKendall) Gaussian(rho mat.Matrix, src rng.Source) (Copula, error) {
	return gaussian(correlation.KendallRank, rho, src)
}

func (FromKendall) StudentT(rho mat.Matrix, nu float64, src rng.Source) (Copula, error) {
	return studentT(correlation.KendallRank, rho, nu, src)
}

func (FromKendall) Clayton(rho mat.Matrix, src rng.Source) (Copula, error) {
	return clayton(correlation.KendallRank, rho, src)
}

func (FromKendall) Gumbel(rho mat.Matrix, src rng.Source) (Copula, error) {
	return gumbel(correlation.KendallRank, rho, src)
}

// FromSpearman builds copulas from Spearman's rho matrices.
type FromSpearman struct{}

func (FromSpearman) CorrelationType() correlation.Type { return correlation.SpearmanRank }

func (FromSpearman) Gaussian(rho mat.Matrix, src rng.Source) (Copula, error) {
	return gaussian(correlation.SpearmanRank, rho, src)
}

func (FromSpearman) StudentT(rho mat.Matrix, nu float64, src rng.Source) (Copula, error) {
	return studentT(correlation.SpearmanRank, rho, nu, src)
}

func (FromSpearman) Clayton(rho mat.Matrix, src rng.Source) (Copula, error) {
	return clayton(correlation.SpearmanRank, rho, src)
}

func (FromSpearman) Gumbel(rho mat.Matrix, src rng.Source) (Copula, error) {
	return gumbel(correlation.SpearmanRank, rho, src)
}

func gaussian(t correlation.Type, rho mat.Matrix, src rng.Source) (Copula, error) {
	r, err := NewGaussianBuilder().SetCorrelationType(t).SetRandomSource(src).SetRho(rho)
	if err != nil {
		return nil, fmt.Errorf("gaussian: %w", err)
	}
	c, err := r.Build()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func studentT(t correlation.Type, rho mat.Matrix, nu float64, src rng.Source) (Copula, error) {
	d, err := NewStudentTBuilder().SetCorrelationType(t).SetRandomSource(src).SetRho(rho)
	if err != nil {
		return nil, fmt.Errorf("t: %w", err)
	}
	r, err := d.SetDegreesOfFreedom(nu)
	if err != nil {
		return nil, err
	}
	c, err := r.Build()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func clayton(t correlation.Type, rho mat.Matrix, src rng.Source) (Copula, error) {
	r, err := NewClaytonBuilder().SetCorrelationType(t).SetRandomSource(src).SetRho(rho)
	if err != nil {
		return nil, fmt.Errorf("clayton: %w", err)
	}
	c, err := r.Build()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func gumbel(t correlation.Type, rho mat.Matrix, src rng.Source) (Copula, error) {
	r, err := NewGumbelBuilder().SetCorrelationType(t).SetRandomSource(src).SetRho(rho)
	if err != nil {
		return nil, fmt.Errorf("gumbel: %w", err)
	}
	c, err := r.Build()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Settings describes a copula in plain values, as read from config files and
// command-line flags.
type Settings struct {
	Family          Family
	CorrelationType correlation.Type
	// Rho is ignored for Archimedean families when Theta is positive.
	Rho              mat.Matrix
	DegreesOfFreedom float64
	Theta            float64
}

// New builds the copula described by s.
func New(s Settings, src rng.Source) (Copula, error) {
	if s.Family.IsArchimedean() && s.Theta > 0 {
		switch s.Family {
		case FamilyClayton:
			c, err := NewClayton(s.Theta, src)
			if err != nil {
				return nil, err
			}
			return c, nil
		case FamilyGumbel:
			g, err := NewGumbel(s.Theta, src)
			if err != nil {
				return nil, err
			}
			return g, nil
		}
	}
	f, err := NewFactory(s.CorrelationType)
	if err != nil {
		return nil, err
	}
	switch s.Family {
	case FamilyGaussian:
		return f.Gaussian(s.Rho, src)
	case FamilyStudentT:
		return f.StudentT(s.Rho, s.DegreesOfFreedom, src)
	case FamilyClayton:
		return f.Clayton(s.Rho, src)
	case FamilyGumbel:
		return f.Gumbel(s.Rho, src)
	}
	return nil, fmt.Errorf("%w: family %q", ErrNotImplemented, s.Family)
}

// ParseFamily resolves a family name. "student", "student-t" and "normal"
// are accepted aliases.
func ParseFamily(s string) (Family, error) {
	switch s {
	case "gaussian", "normal":
		return FamilyGaussian, nil
	case "t", "student", "student-t", "studentt":
		return FamilyStudentT, nil
	case "clayton":
		return FamilyClayton, nil
	case "gumbel":
		return FamilyGumbel, nil
	}
	return "", fmt.Errorf("%w: family %q", ErrNotImplemented, s)
}
