package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/copulab/internal/copula"
	"github.com/san-kum/copulab/internal/rng"
)

func gumbelBuild(src rng.Source) (copula.Copula, error) {
	return copula.NewGumbel(1.5, src)
}

func TestEnsembleRun(t *testing.T) {
	e := NewEnsemble(gumbelBuild, 4, 100).WithMetrics(func() []Metric {
		return []Metric{&countMetric{}}
	})

	result, err := e.Run(context.Background(), Config{Samples: 1001})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(result.Samples) != 1001 {
		t.Errorf("expected 1001 samples, got %d", len(result.Samples))
	}
	want := []uint64{100, 101, 102, 103}
	for i, s := range want {
		if result.Seeds[i] != s {
			t.Errorf("seed %d = %d, want %d", i, result.Seeds[i], s)
		}
	}
	if _, ok := result.Metrics["mean_u0"]; !ok {
		t.Error("merged metric missing")
	}
}

func TestEnsembleDeterministic(t *testing.T) {
	a, err := NewEnsemble(gumbelBuild, 3, 7).Run(context.Background(), Config{Samples: 60})
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewEnsemble(gumbelBuild, 3, 7).Run(context.Background(), Config{Samples: 60})
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Samples {
		for j := range a.Samples[i] {
			if a.Samples[i][j] != b.Samples[i][j] {
				t.Fatalf("sample %d differs: %v vs %v", i, a.Samples[i], b.Samples[i])
			}
		}
	}

	// The first worker's share matches a single sampler with the same seed.
	single, err := New(must(gumbelBuild(rng.New(7)))).Run(context.Background(), Config{Samples: 20})
	if err != nil {
		t.Fatal(err)
	}
	for i := range single.Samples {
		if single.Samples[i][0] != a.Samples[i][0] {
			t.Fatalf("worker 0 sample %d differs", i)
		}
	}
}

func TestEnsembleBuildError(t *testing.T) {
	boom := errors.New("boom")
	e := NewEnsemble(func(rng.Source) (copula.Copula, error) { return nil, boom }, 2, 0)
	if _, err := e.Run(context.Background(), Config{Samples: 10}); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestEnsembleMoreWorkersThanSamples(t *testing.T) {
	result, err := NewEnsemble(gumbelBuild, 8, 1).Run(context.Background(), Config{Samples: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Samples) != 3 || len(result.Seeds) != 3 {
		t.Errorf("got %d samples and %d seeds", len(result.Samples), len(result.Seeds))
	}
}

func must(c copula.Copula, err error) copula.Copula {
	if err != nil {
		panic(err)
	}
	return c
}
