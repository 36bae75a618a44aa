package automation

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/san-kum/copulab/internal/analysis"
	"github.com/san-kum/copulab/internal/config"
	"github.com/san-kum/copulab/internal/experiment"
	"github.com/san-kum/copulab/internal/logging"
	"github.com/san-kum/copulab/internal/metrics"
	"github.com/san-kum/copulab/internal/sim"
	"github.com/san-kum/copulab/internal/storage"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted batch of sampling runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset ("family/name") or the defaults and
// applies the explicit fields on top.
type ScenarioStep struct {
	Name             string      `yaml:"name"`
	Preset           string      `yaml:"preset"`
	Family           string      `yaml:"family"`
	CorrelationType  string      `yaml:"correlation_type"`
	Rho              [][]float64 `yaml:"rho,flow"`
	DegreesOfFreedom float64     `yaml:"degrees_of_freedom"`
	Theta            float64     `yaml:"theta"`
	Samples          int         `yaml:"samples"`
	Seed             uint64      `yaml:"seed"`
	Workers          int         `yaml:"workers"`
	Save             bool        `yaml:"save"`
	Verify           bool        `yaml:"verify"`
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Step   string
	RunID  string
	Meta   storage.RunMetadata
	Checks []analysis.Check
}

// Passed reports whether every verification check of the step passed.
func (r StepResult) Passed() bool { return analysis.AllPass(r.Checks) }

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Config resolves the step into a run configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		family, name, ok := strings.Cut(s.Preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset %q: want family/name", s.Preset)
		}
		cfg = config.GetPreset(family, name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", s.Preset)
		}
	}
	if s.Family != "" {
		cfg.Family = s.Family
	}
	if s.CorrelationType != "" {
		cfg.CorrelationType = s.CorrelationType
	}
	if s.Rho != nil {
		cfg.Rho = s.Rho
	}
	if s.DegreesOfFreedom != 0 {
		cfg.DegreesOfFreedom = s.DegreesOfFreedom
	}
	if s.Theta != 0 {
		cfg.Theta = s.Theta
	}
	if s.Samples != 0 {
		cfg.Samples = s.Samples
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Workers != 0 {
		cfg.Workers = s.Workers
	}
	return cfg, cfg.Validate()
}

func (s ScenarioStep) label(i int) string {
	if s.Name != "" {
		return s.Name
	}
	if s.Preset != "" {
		return s.Preset
	}
	return fmt.Sprintf("step-%d", i+1)
}

// Runner executes scenarios, saving runs to store when it is not nil.
type Runner struct {
	store *storage.Store
	log   *logging.Logger
}

func NewRunner(store *storage.Store, log *logging.Logger) *Runner {
	if log == nil {
		log = logging.Nop()
	}
	return &Runner{store: store, log: log.Named("scenario")}
}

// RunScenario executes the steps in order and stops at the first failure,
// returning the results completed so far.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		label := step.label(i)
		r.log.Info("step", zap.Int("index", i+1), zap.Int("of", len(scenario.Steps)), zap.String("name", label))

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, label, err)
		}
		exp := experiment.New(cfg).WithLogger(r.log)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d (%s) setup: %w", i+1, label, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d (%s) run: %w", i+1, label, err)
		}

		out := StepResult{Step: label, Meta: exp.Metadata(result)}
		if step.Verify {
			out.Checks = analysis.Verify(exp.Copula(), rows(result))
		}
		if step.Save && r.store != nil {
			id, err := r.store.Save(out.Meta, result)
			if err != nil {
				return results, fmt.Errorf("step %d (%s) save: %w", i+1, label, err)
			}
			out.RunID = id
			r.log.Info("saved", zap.String("run", id))
		}
		results = append(results, out)
	}

	return results, nil
}

// ParameterSweep runs a bivariate family across a range of Kendall's tau
// values and compares the empirical tau of every run with its target.
type ParameterSweep struct {
	Family           string
	DegreesOfFreedom float64
	TauMin, TauMax   float64
	NumSteps         int
	Samples          int
	Seed             uint64
	Workers          int
}

type SweepResult struct {
	Tau       float64
	Empirical float64
	Lower     float64
	Upper     float64
}

// RunSweep executes a parameter sweep.
func (r *Runner) RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	if math.Abs(sweep.TauMin) >= 1 || math.Abs(sweep.TauMax) >= 1 {
		return nil, fmt.Errorf("tau range [%g, %g] must lie inside (-1, 1)", sweep.TauMin, sweep.TauMax)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	step := (sweep.TauMax - sweep.TauMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		tau := sweep.TauMin + float64(i)*step

		cfg := config.DefaultConfig()
		cfg.Family = sweep.Family
		cfg.CorrelationType = "kendall"
		cfg.Rho = config.ScalarRho(tau)
		if sweep.DegreesOfFreedom > 0 {
			cfg.DegreesOfFreedom = sweep.DegreesOfFreedom
		}
		cfg.Samples = sweep.Samples
		cfg.Seed = sweep.Seed
		if sweep.Workers > 0 {
			cfg.Workers = sweep.Workers
		}

		exp := experiment.New(cfg).WithLogger(r.log)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("tau=%.4f: %w", tau, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("tau=%.4f: %w", tau, err)
		}

		results = append(results, SweepResult{
			Tau:       tau,
			Empirical: result.Metrics["kendall_0_1"],
			Lower:     result.Metrics["lambda_lower_0_1"],
			Upper:     result.Metrics["lambda_upper_0_1"],
		})
		r.log.Debug("sweep", zap.Int("step", i+1), zap.Int("of", sweep.NumSteps), zap.Float64("tau", tau))
	}

	return results, nil
}

// ReplicateConfig repeats one configuration over consecutive seeds.
type ReplicateConfig struct {
	Config *config.Config
	Trials int
	// Metric names the result metric to collect, kendall_0_1 by default.
	Metric string
}

// ReplicateResult holds the metric of every trial and its spread.
type ReplicateResult struct {
	Metric  string
	Values  []float64
	Summary metrics.Summary
}

// RunReplicates runs cfg.Trials independent runs, trial k seeded Seed + k*Workers
// so no two workers of different trials share a stream.
func (r *Runner) RunReplicates(ctx context.Context, rc *ReplicateConfig) (*ReplicateResult, error) {
	if rc.Config == nil || rc.Trials < 1 {
		return nil, fmt.Errorf("replicates need a config and at least one trial")
	}
	name := rc.Metric
	if name == "" {
		name = "kendall_0_1"
	}

	out := &ReplicateResult{Metric: name, Values: make([]float64, 0, rc.Trials)}
	base := experiment.New(rc.Config)
	workers := uint64(max(rc.Config.Workers, 1))
	for trial := 0; trial < rc.Trials; trial++ {
		cfg := base.Config().Clone()
		cfg.Seed = base.Seed() + uint64(trial)*workers

		exp := experiment.New(cfg).WithLogger(r.log)
		if err := exp.Setup(); err != nil {
			return nil, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", trial, err)
		}
		v, ok := result.Metrics[name]
		if !ok {
			return nil, fmt.Errorf("metric %q not produced", name)
		}
		out.Values = append(out.Values, v)
	}

	summary, err := metrics.Describe(out.Values)
	if err != nil {
		return nil, err
	}
	out.Summary = summary
	return out, nil
}

func rows(r *sim.Result) [][]float64 {
	out := make([][]float64, len(r.Samples))
	for i, u := range r.Samples {
		out[i] = u
	}
	return out
}
