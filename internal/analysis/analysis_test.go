package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/copulab/internal/copula"
	"github.com/san-kum/copulab/internal/correlation"
	"github.com/san-kum/copulab/internal/rng"
	"gonum.org/v1/gonum/mat"
)

func rows(m *mat.Dense) [][]float64 {
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}

func TestHistogram(t *testing.T) {
	x := []float64{0.05, 0.15, 0.16, 0.55, 0.99, 1.2, -0.1}
	got := Histogram(x, 4)
	want := []float64{3, 0, 1, 1}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bin %d = %v, want %v", i, got[i], want[i])
		}
	}

	d := Density([]float64{2, 2, 2, 2})
	for i, v := range d {
		if v != 1 {
			t.Errorf("density[%d] = %v, want 1", i, v)
		}
	}
}

func TestScatterToASCII(t *testing.T) {
	s := NewScatter([][]float64{{0.05, 0.05}, {0.95, 0.95}, {0.95, 0.95}, {0.5}}, 0, 1)
	if len(s.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(s.Points))
	}
	out := ScatterToASCII(s, 10, 5)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.ContainsRune(lines[1], '●') {
		t.Errorf("top row should hold the densest cell:\n%s", out)
	}
	if strings.TrimSpace(strings.Trim(lines[5], "|")) == "" {
		t.Errorf("bottom row should hold a point:\n%s", out)
	}
	if ScatterToASCII(nil, 10, 5) != "" {
		t.Error("nil scatter should render empty")
	}
}

func TestEmpiricalCorrelation(t *testing.T) {
	samples := [][]float64{{0.1, 0.9, 0.2}, {0.2, 0.8, 0.3}, {0.3, 0.7, 0.1}, {0.4, 0.6, 0.4}}
	for _, ct := range []correlation.Type{correlation.PearsonLinear, correlation.KendallRank, correlation.SpearmanRank} {
		m, err := EmpiricalCorrelation(samples, ct)
		if err != nil {
			t.Fatalf("%v: %v", ct, err)
		}
		if math.Abs(m.At(0, 1)+1) > 1e-12 {
			t.Errorf("%v: anti-monotone pair = %v, want -1", ct, m.At(0, 1))
		}
		if m.At(2, 2) != 1 {
			t.Errorf("%v: diagonal = %v", ct, m.At(2, 2))
		}
	}

	if _, err := EmpiricalCorrelation(samples[:1], correlation.PearsonLinear); err == nil {
		t.Error("expected error for a single sample")
	}
	if _, err := EmpiricalCorrelation([][]float64{{0.1, 0.2}, {0.3}}, correlation.PearsonLinear); err == nil {
		t.Error("expected error for ragged samples")
	}
}

func TestTheoreticalTailDependence(t *testing.T) {
	cl, _ := copula.NewClayton(2, nil)
	gu, _ := copula.NewGumbel(2, nil)
	ga, _ := copula.FromPearson{}.Gaussian(correlation.FromScalar(0.7), nil)
	st, _ := copula.FromPearson{}.StudentT(correlation.FromScalar(0.5), 4, nil)

	tests := []struct {
		name  string
		c     copula.Copula
		lower float64
		upper float64
	}{
		{"clayton", cl, math.Pow(2, -0.5), 0},
		{"gumbel", gu, 0, 2 - math.Sqrt2},
		{"gaussian", ga, 0, 0},
		{"t", st, StudentTTail(0.5, 4), StudentTTail(0.5, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			td, err := TheoreticalTailDependence(tt.c, 0, 1)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(td.Lower-tt.lower) > 1e-12 || math.Abs(td.Upper-tt.upper) > 1e-12 {
				t.Errorf("got %+v, want lower %v upper %v", td, tt.lower, tt.upper)
			}
		})
	}

	if l := StudentTTail(0.5, 4); l <= 0 || l >= 1 {
		t.Errorf("t tail out of range: %v", l)
	}
	if _, err := TheoreticalTailDependence(cl, 0, 0); err == nil {
		t.Error("expected error for a diagonal pair")
	}
}

func TestTheoreticalKendall(t *testing.T) {
	ga, err := copula.FromKendall{}.Gaussian(correlation.FromScalar(0.4), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := TheoreticalKendall(ga).At(0, 1); math.Abs(got-0.4) > 1e-12 {
		t.Errorf("gaussian tau = %v, want 0.4", got)
	}
	cl, _ := copula.NewClayton(2, nil)
	if got := TheoreticalKendall(cl).At(0, 1); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("clayton tau = %v, want 0.5", got)
	}
}

func TestAutocorrelation(t *testing.T) {
	c, _ := copula.NewGumbel(1.5, rng.New(9))
	x := mat.Col(nil, 0, c.SampleN(4096))
	ac := Autocorrelation(x, 3)
	if len(ac) != 4 || math.Abs(ac[0]-1) > 1e-9 {
		t.Fatalf("autocorrelation = %v", ac)
	}
	for k := 1; k < len(ac); k++ {
		if math.Abs(ac[k]) > 0.06 {
			t.Errorf("lag %d = %v, want near 0", k, ac[k])
		}
	}

	alt := make([]float64, 64)
	for i := range alt {
		alt[i] = float64(i % 2)
	}
	if ac := Autocorrelation(alt, 1); ac[1] > -0.9 {
		t.Errorf("alternating lag 1 = %v, want near -1", ac[1])
	}
}

func TestVerify(t *testing.T) {
	cases := []struct {
		name string
		c    func() (copula.Copula, error)
	}{
		{"clayton", func() (copula.Copula, error) { return copula.NewClayton(3, rng.New(1)) }},
		{"gumbel", func() (copula.Copula, error) { return copula.NewGumbel(2, rng.New(2)) }},
		{"gaussian", func() (copula.Copula, error) {
			return copula.FromPearson{}.Gaussian(correlation.FromScalar(0.6), rng.New(3))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := tc.c()
			if err != nil {
				t.Fatal(err)
			}
			checks := Verify(c, rows(c.SampleN(4000)))
			if len(checks) == 0 {
				t.Fatal("no checks")
			}
			for _, ch := range checks {
				if !ch.Pass() {
					t.Errorf("%s", ch)
				}
			}
		})
	}

	cl, _ := copula.NewClayton(3, rng.New(1))
	indep, _ := copula.NewClayton(0, rng.New(1))
	if AllPass(Verify(cl, rows(indep.SampleN(4000)))) {
		t.Error("independent sample should fail against a dependent copula")
	}
}
