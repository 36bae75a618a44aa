package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/copulab/internal/copula"
	"github.com/san-kum/copulab/internal/correlation"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFamily           = "gaussian"
	DefaultCorrelationType  = "pearson"
	DefaultRho              = 0.5
	DefaultDegreesOfFreedom = 4.0
	DefaultSamples          = 1000
	DefaultWorkers          = 1
)

type Config struct {
	Family           string      `yaml:"family"`
	CorrelationType  string      `yaml:"correlation_type"`
	Rho              [][]float64 `yaml:"rho,flow"`
	DegreesOfFreedom float64     `yaml:"degrees_of_freedom,omitempty"`
	Theta            float64     `yaml:"theta,omitempty"`
	Samples          int         `yaml:"samples"`
	Seed             uint64      `yaml:"seed"`
	Workers          int         `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Family:           DefaultFamily,
		CorrelationType:  DefaultCorrelationType,
		Rho:              ScalarRho(DefaultRho),
		DegreesOfFreedom: DefaultDegreesOfFreedom,
		Samples:          DefaultSamples,
		Workers:          DefaultWorkers,
	}
}

// DefaultFor returns the defaults for family. Archimedean families default
// to Kendall's tau, the only convention they accept.
func DefaultFor(family string) *Config {
	cfg := DefaultConfig()
	if family == "" {
		return cfg
	}
	cfg.Family = family
	if f, err := copula.ParseFamily(family); err == nil && f.IsArchimedean() {
		cfg.CorrelationType = correlation.KendallRank.String()
	}
	return cfg
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base; keys missing from the file
// keep their base values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	out := *c
	out.Rho = make([][]float64, len(c.Rho))
	for i, row := range c.Rho {
		out.Rho[i] = append([]float64(nil), row...)
	}
	return &out
}

// Validate checks the fields that do not need a built copula. Matrix
// validity is left to the copula builder.
func (c *Config) Validate() error {
	if _, err := copula.ParseFamily(c.Family); err != nil {
		return err
	}
	if _, err := correlation.ParseType(c.CorrelationType); err != nil {
		return err
	}
	if c.Samples <= 0 {
		return fmt.Errorf("samples must be positive, got %d", c.Samples)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := correlation.FromRows(c.Rho); err != nil && !(c.archimedean() && c.Theta > 0) {
		return err
	}
	return nil
}

func (c *Config) archimedean() bool {
	f, err := copula.ParseFamily(c.Family)
	return err == nil && f.IsArchimedean()
}

// Settings converts the config into copula construction settings.
func (c *Config) Settings() (copula.Settings, error) {
	if err := c.Validate(); err != nil {
		return copula.Settings{}, err
	}
	family, _ := copula.ParseFamily(c.Family)
	ct, _ := correlation.ParseType(c.CorrelationType)
	s := copula.Settings{
		Family:           family,
		CorrelationType:  ct,
		DegreesOfFreedom: c.DegreesOfFreedom,
		Theta:            c.Theta,
	}
	if m, err := correlation.FromRows(c.Rho); err == nil {
		s.Rho = m
	}
	return s, nil
}

// ScalarRho returns [[1, rho], [rho, 1]].
func ScalarRho(rho float64) [][]float64 {
	return [][]float64{{1, rho}, {rho, 1}}
}

// ParseRho reads a matrix as rows separated by ';' with comma separated
// entries, e.g. "1,0.5;0.5,1". A single number is a 2x2 scalar matrix.
func ParseRho(s string) ([][]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty rho")
	}
	if !strings.ContainsAny(s, ",;") {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("parse rho %q: %w", s, err)
		}
		return ScalarRho(v), nil
	}

	var rows [][]float64
	for _, line := range strings.Split(s, ";") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var row []float64
		for _, f := range strings.Split(line, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("parse rho entry %q: %w", f, err)
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	if _, err := correlation.FromRows(rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// FormatRho is the inverse of ParseRho.
func FormatRho(rows [][]float64) string {
	parts := make([]string, len(rows))
	for i, row := range rows {
		vals := make([]string, len(row))
		for j, v := range row {
			vals[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		parts[i] = strings.Join(vals, ",")
	}
	return strings.Join(parts, ";")
}
