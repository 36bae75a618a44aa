package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/copulab/internal/copula"
	"github.com/san-kum/copulab/internal/correlation"
	"github.com/san-kum/copulab/internal/sim"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

// ErrRunNotFound is returned when a run directory has no metadata.
var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) BaseDir() string { return s.baseDir }

// RunMetadata describes a saved run. Rho is the matrix the copula stored,
// expressed in RhoType; CorrelationType is the convention the caller
// declared.
type RunMetadata struct {
	ID               string             `json:"id"`
	Family           string             `json:"family"`
	CorrelationType  string             `json:"correlation_type"`
	RhoType          string             `json:"rho_type"`
	Rho              [][]float64        `json:"rho"`
	DegreesOfFreedom float64            `json:"degrees_of_freedom,omitempty"`
	Theta            float64            `json:"theta,omitempty"`
	Dimension        int                `json:"dimension"`
	Seed             uint64             `json:"seed"`
	Workers          int                `json:"workers"`
	Samples          int                `json:"samples"`
	ElapsedMS        float64            `json:"elapsed_ms"`
	Timestamp        time.Time          `json:"timestamp"`
	Metrics          map[string]float64 `json:"metrics"`
}

// MetadataFor describes copula c sampled with seed over workers.
func MetadataFor(c copula.Copula, seed uint64, workers int) RunMetadata {
	rhoType := correlation.PearsonLinear
	if c.Family().IsArchimedean() {
		rhoType = correlation.KendallRank
	}
	params := c.Params()
	return RunMetadata{
		Family:           string(c.Family()),
		CorrelationType:  c.CorrelationType().String(),
		RhoType:          rhoType.String(),
		Rho:              correlation.Rows(c.Rho()),
		DegreesOfFreedom: params["nu"],
		Theta:            params["theta"],
		Dimension:        c.Dimension(),
		Seed:             seed,
		Workers:          workers,
	}
}

// Settings rebuilds the copula settings of a saved run.
func (m *RunMetadata) Settings() (copula.Settings, error) {
	family, err := copula.ParseFamily(m.Family)
	if err != nil {
		return copula.Settings{}, err
	}
	rt, err := correlation.ParseType(m.RhoType)
	if err != nil {
		return copula.Settings{}, err
	}
	rho, err := correlation.FromRows(m.Rho)
	if err != nil {
		return copula.Settings{}, err
	}
	s := copula.Settings{
		Family:           family,
		CorrelationType:  rt,
		Rho:              rho,
		DegreesOfFreedom: m.DegreesOfFreedom,
	}
	if family.IsArchimedean() {
		s.Theta = m.Theta
	}
	return s, nil
}

// Save writes metadata.json and samples.csv into a new run directory and
// returns the run ID.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%s", meta.Family, now.Format("20060102T150405.000000000"))
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Samples = len(result.Samples)
	meta.ElapsedMS = float64(result.Elapsed.Microseconds()) / 1000
	meta.Metrics = result.Metrics
	if meta.Dimension == 0 {
		meta.Dimension = result.Dim()
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()
	if err := WriteCSV(csvFile, result.Samples); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteCSV writes samples with a u0..u{d-1} header. Values use the shortest
// representation that parses back exactly.
func WriteCSV(out io.Writer, samples []sim.Sample) error {
	w := csv.NewWriter(out)
	if len(samples) > 0 {
		header := make([]string, len(samples[0]))
		for i := range header {
			header[i] = fmt.Sprintf("u%d", i)
		}
		if err := w.Write(header); err != nil {
			return err
		}
	}
	row := make([]string, 0)
	for _, u := range samples {
		row = row[:0]
		for _, v := range u {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// Latest returns the most recent run.
func (s *Store) Latest() (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrRunNotFound
	}
	return &runs[0], nil
}

func (s *Store) LoadSamples(runID string) ([][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

// ReadCSV parses the output of WriteCSV.
func ReadCSV(in io.Reader) ([][]float64, error) {
	r := csv.NewReader(in)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]float64{}, nil
	}

	samples := make([][]float64, 0, len(records)-1)
	for i, record := range records[1:] {
		u := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i+1, j, err)
			}
			u[j] = v
		}
		samples = append(samples, u)
	}
	return samples, nil
}

func (s *Store) Delete(runID string) error {
	if _, err := s.Load(runID); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(s.baseDir, runID))
}
