package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/copulab/internal/copula"
	"github.com/san-kum/copulab/internal/logging"
	"go.uber.org/zap"
)

type Sampler struct {
	copula    copula.Copula
	metrics   []Metric
	observers []Observer
	log       *logging.Logger
}

func New(c copula.Copula) *Sampler {
	return &Sampler{
		copula:    c,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       logging.Nop(),
	}
}

func (s *Sampler) WithLogger(l *logging.Logger) *Sampler {
	if l != nil {
		s.log = l.Named("sampler")
	}
	return s
}

func (s *Sampler) Copula() copula.Copula  { return s.copula }
func (s *Sampler) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Sampler) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run draws cfg.Samples vectors. On cancellation it returns the samples
// completed so far together with ctx.Err().
func (s *Sampler) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Samples: make([]Sample, 0, cfg.Samples),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	start := time.Now()
	var runErr error
	for i := 0; i < cfg.Samples; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		u := Sample(s.copula.Sample())
		if cfg.ValidateSamples && !u.InUnitCube() {
			result.Errors = append(result.Errors, SampleError{Index: i, Message: "outside the open unit hypercube"})
			break
		}
		for _, m := range s.metrics {
			m.Observe(u, i)
		}
		for _, obs := range s.observers {
			obs.OnSample(u, i)
		}
		result.Samples = append(result.Samples, u)
	}
	result.Elapsed = time.Since(start)

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.log.Debug("run finished",
		zap.String("family", string(s.copula.Family())),
		zap.Int("samples", len(result.Samples)),
		zap.Duration("elapsed", result.Elapsed),
		zap.Error(runErr))
	return result, runErr
}

// RunWithCallback streams samples to callback until it returns false, the
// context ends or cfg.Samples draws are made. cfg.Samples <= 0 streams
// without limit.
func (s *Sampler) RunWithCallback(ctx context.Context, cfg Config, callback func(u Sample, i int) bool) error {
	if s.copula == nil {
		return fmt.Errorf("sampler: nil copula")
	}
	for i := 0; cfg.Samples <= 0 || i < cfg.Samples; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		u := Sample(s.copula.Sample())
		if cfg.ValidateSamples && !u.InUnitCube() {
			return SampleError{Index: i, Message: "outside the open unit hypercube"}
		}
		if !callback(u, i) {
			return nil
		}
	}
	return nil
}

func (s *Sampler) validateConfig(cfg Config) error {
	if s.copula == nil {
		return fmt.Errorf("sampler: nil copula")
	}
	if cfg.Samples <= 0 {
		return fmt.Errorf("samples must be positive, got %d", cfg.Samples)
	}
	return nil
}
