package correlation

import (
	"fmt"
	"strings"
)

// Type is the convention a correlation value was declared under.
type Type int

const (
	PearsonLinear Type = iota
	KendallRank
	SpearmanRank
)

func (t Type) String() string {
	switch t {
	case PearsonLinear:
		return "pearson"
	case KendallRank:
		return "kendall"
	case SpearmanRank:
		return "spearman"
	default:
		return fmt.Sprintf("correlation.Type(%d)", int(t))
	}
}

// ParseType accepts the String form of a Type plus a few common aliases.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pearson", "linear", "pearson_linear":
		return PearsonLinear, nil
	case "kendall", "tau", "kendall_rank":
		return KendallRank, nil
	case "spearman", "rho_s", "spearman_rank":
		return SpearmanRank, nil
	}
	return 0, fmt.Errorf("%w: unknown correlation type %q", ErrUnsupportedConversion, s)
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
