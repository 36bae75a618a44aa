package sim

import (
	"fmt"
	"math"
	"time"
)

// Sample is one draw from a copula.
type Sample []float64

func (s Sample) Clone() Sample {
	c := make(Sample, len(s))
	copy(c, s)
	return c
}

// InUnitCube reports whether every coordinate lies strictly inside (0, 1).
func (s Sample) InUnitCube() bool {
	for _, v := range s {
		if math.IsNaN(v) || v <= 0 || v >= 1 {
			return false
		}
	}
	return true
}

// Metric accumulates a statistic over the samples of a run.
type Metric interface {
	Name() string
	Observe(u Sample, i int)
	Value() float64
	Reset()
}

type Observer interface {
	OnSample(u Sample, i int)
}

type Config struct {
	Samples int
	// ValidateSamples stops a run at the first sample outside (0, 1).
	ValidateSamples bool
}

type Result struct {
	Samples []Sample
	Metrics map[string]float64
	Elapsed time.Duration
	Errors  []error
	// Seeds holds the per-worker seeds of an ensemble run.
	Seeds []uint64
}

// Dim returns the sample dimension, or 0 for an empty result.
func (r *Result) Dim() int {
	if len(r.Samples) == 0 {
		return 0
	}
	return len(r.Samples[0])
}

// Column extracts coordinate j from every sample.
func (r *Result) Column(j int) []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s[j]
	}
	return out
}

type SampleError struct {
	Index   int
	Message string
}

func (e SampleError) Error() string {
	return fmt.Sprintf("sample %d: %s", e.Index, e.Message)
}
