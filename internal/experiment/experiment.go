// Package experiment turns a configuration into a reproducible sampling run.
package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/copulab/internal/config"
	"github.com/san-kum/copulab/internal/copula"
	"github.com/san-kum/copulab/internal/logging"
	"github.com/san-kum/copulab/internal/metrics"
	"github.com/san-kum/copulab/internal/rng"
	"github.com/san-kum/copulab/internal/sim"
	"github.com/san-kum/copulab/internal/storage"
	"go.uber.org/zap"
)

type Experiment struct {
	cfg      *config.Config
	seed     uint64
	settings copula.Settings
	probe    copula.Copula
	ensemble *sim.Ensemble
	log      *logging.Logger
}

// New copies cfg. A zero seed is replaced by a fresh one so that the saved
// run can still be reproduced.
func New(cfg *config.Config) *Experiment {
	c := cfg.Clone()
	seed := c.Seed
	if seed == 0 {
		seed = rng.Seed()
	}
	return &Experiment{cfg: c, seed: seed, log: logging.Nop()}
}

func (e *Experiment) WithLogger(l *logging.Logger) *Experiment {
	if l != nil {
		e.log = l.Named("experiment")
	}
	return e
}

// Setup validates the configuration and builds one copula up front, so
// parameter errors surface before any worker starts.
func (e *Experiment) Setup() error {
	s, err := e.cfg.Settings()
	if err != nil {
		return err
	}
	probe, err := copula.New(s, rng.New(e.seed))
	if err != nil {
		return err
	}
	e.settings, e.probe = s, probe

	dim := probe.Dimension()
	e.ensemble = sim.NewEnsemble(e.build, e.cfg.Workers, e.seed).
		WithMetrics(func() []sim.Metric { return metrics.DefaultMetrics(dim) }).
		WithLogger(e.log)
	return nil
}

func (e *Experiment) build(src rng.Source) (copula.Copula, error) {
	return copula.New(e.settings, src)
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.ensemble == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	e.log.Debug("run",
		zap.String("family", e.cfg.Family),
		zap.Int("samples", e.cfg.Samples),
		zap.Int("workers", e.cfg.Workers),
		zap.Uint64("seed", e.seed))
	return e.ensemble.Run(ctx, sim.Config{Samples: e.cfg.Samples, ValidateSamples: true})
}

// Copula returns the copula built by Setup, seeded like worker 0.
func (e *Experiment) Copula() copula.Copula { return e.probe }

func (e *Experiment) Seed() uint64 { return e.seed }

func (e *Experiment) Config() *config.Config { return e.cfg }

// Metadata describes result for storage.
func (e *Experiment) Metadata(result *sim.Result) storage.RunMetadata {
	meta := storage.MetadataFor(e.probe, e.seed, e.ensemble.Workers())
	if result != nil {
		meta.Samples = len(result.Samples)
		meta.ElapsedMS = float64(result.Elapsed.Microseconds()) / 1000
		meta.Metrics = result.Metrics
	}
	return meta
}
