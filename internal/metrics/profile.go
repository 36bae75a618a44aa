package metrics

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/san-kum/copulab/internal/sim"
)

// Summary describes the marginal distribution of one coordinate.
type Summary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Median float64
	Q25    float64
	Q75    float64
}

// Describe computes the Summary of data.
func Describe(data []float64) (Summary, error) {
	var s Summary
	var err error
	if s.Mean, err = stats.Mean(data); err != nil {
		return s, err
	}
	if s.StdDev, err = stats.StandardDeviation(data); err != nil {
		return s, err
	}
	if s.Min, err = stats.Min(data); err != nil {
		return s, err
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, err
	}
	if s.Median, err = stats.Median(data); err != nil {
		return s, err
	}
	if s.Q25, err = stats.Percentile(data, 25); err != nil {
		return s, err
	}
	if s.Q75, err = stats.Percentile(data, 75); err != nil {
		return s, err
	}
	return s, nil
}

// Profile buffers coordinate i. Its Value is the mean; Summary gives the
// rest.
type Profile struct {
	name string
	i    int
	x    []float64
}

func NewProfile(i int) *Profile {
	return &Profile{name: fmt.Sprintf("mean_%d", i), i: i}
}

func (p *Profile) Name() string { return p.name }

func (p *Profile) Observe(u sim.Sample, _ int) {
	if len(u) > p.i {
		p.x = append(p.x, u[p.i])
	}
}

func (p *Profile) Value() float64 {
	m, err := stats.Mean(p.x)
	if err != nil {
		return 0
	}
	return m
}

func (p *Profile) Summary() (Summary, error) { return Describe(p.x) }

func (p *Profile) Reset() { p.x = p.x[:0] }
