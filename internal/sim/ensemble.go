package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/copulab/internal/copula"
	"github.com/san-kum/copulab/internal/logging"
	"github.com/san-kum/copulab/internal/rng"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BuildFunc creates one worker's copula around its own source.
type BuildFunc func(src rng.Source) (copula.Copula, error)

// Ensemble splits a run across workers, each with a private copula seeded
// seedStart + worker index. Samples are merged in worker order, so a fixed
// seed and worker count reproduce the same result.
type Ensemble struct {
	build     BuildFunc
	workers   int
	seedStart uint64
	metrics   func() []Metric
	log       *logging.Logger
}

func NewEnsemble(build BuildFunc, workers int, seedStart uint64) *Ensemble {
	if workers < 1 {
		workers = 1
	}
	return &Ensemble{build: build, workers: workers, seedStart: seedStart, log: logging.Nop()}
}

// WithMetrics sets a constructor for the metrics observed over the merged
// samples.
func (e *Ensemble) WithMetrics(fn func() []Metric) *Ensemble {
	e.metrics = fn
	return e
}

func (e *Ensemble) WithLogger(l *logging.Logger) *Ensemble {
	if l != nil {
		e.log = l.Named("ensemble")
	}
	return e
}

func (e *Ensemble) Workers() int { return e.workers }

func (e *Ensemble) Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Samples <= 0 {
		return nil, fmt.Errorf("samples must be positive, got %d", cfg.Samples)
	}
	workers := e.workers
	if workers > cfg.Samples {
		workers = cfg.Samples
	}

	start := time.Now()
	parts := make([]*Result, workers)
	seeds := make([]uint64, workers)
	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		n := cfg.Samples / workers
		if i < cfg.Samples%workers {
			n++
		}
		seeds[i] = e.seedStart + uint64(i)

		g.Go(func() error {
			c, err := e.build(rng.New(seeds[i]))
			if err != nil {
				return fmt.Errorf("worker %d: %w", i, err)
			}
			part := cfg
			part.Samples = n
			r, err := New(c).Run(gCtx, part)
			parts[i] = r
			if err != nil {
				return fmt.Errorf("worker %d: %w", i, err)
			}
			e.log.Debug("worker done", zap.Int("worker", i), zap.Uint64("seed", seeds[i]), zap.Int("samples", len(r.Samples)))
			return nil
		})
	}
	err := g.Wait()

	merged := &Result{
		Samples: make([]Sample, 0, cfg.Samples),
		Metrics: make(map[string]float64),
		Seeds:   seeds,
	}
	for _, p := range parts {
		if p == nil {
			continue
		}
		merged.Samples = append(merged.Samples, p.Samples...)
		merged.Errors = append(merged.Errors, p.Errors...)
	}
	if e.metrics != nil {
		ms := e.metrics()
		for _, m := range ms {
			m.Reset()
		}
		for i, u := range merged.Samples {
			for _, m := range ms {
				m.Observe(u, i)
			}
		}
		for _, m := range ms {
			merged.Metrics[m.Name()] = m.Value()
		}
	}
	merged.Elapsed = time.Since(start)
	return merged, err
}
