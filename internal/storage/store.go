// Package storage persists recorded runs on disk, one directory per run
// holding metadata.json and trajectory.csv.
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

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/quantity"
)

var (
	ErrRunNotFound       = errors.New("storage: run not found")
	ErrCorruptTrajectory = errors.New("storage: corrupt trajectory")
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

var csvHeader = []string{"step", "time", "body", "x", "y", "z", "vx", "vy", "vz"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes a stored run. Bodies and Hints are in scenario order.
type RunMetadata struct {
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Source      string             `json:"source"`
	Checksum    string             `json:"checksum"`
	Timestamp   time.Time          `json:"timestamp"`
	Dt          float64            `json:"dt"`
	Steps       int                `json:"steps"`
	SampleEvery int                `json:"sample_every"`
	Bodies      []string           `json:"bodies"`
	Hints       []celestial.Hint   `json:"hints,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Checksum fingerprints scenario text so runs of the same input can be
// grouped.
func Checksum(text []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(text))
}

// Save writes a run and returns its id. A missing id or timestamp is filled
// in.
func (s *Store) Save(meta RunMetadata, tr *Trajectory) (string, error) {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.Bodies == nil {
		meta.Bodies = tr.Bodies
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
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

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := writeTrajectory(csvFile, tr); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeTrajectory(out io.Writer, tr *Trajectory) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	f := func(v quantity.Scalar) string { return strconv.FormatFloat(v.Float(), 'g', -1, 64) }
	for _, sample := range tr.Samples {
		for i, name := range tr.Bodies {
			p, v := sample.Positions[i], sample.Velocities[i]
			row := []string{
				strconv.Itoa(sample.Step),
				strconv.FormatFloat(sample.Time, 'g', -1, 64),
				name,
				f(p.X), f(p.Y), f(p.Z),
				f(v.X), f(v.Y), f(v.Z),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// List returns all stored runs, newest first. Directories without readable
// metadata are skipped.
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
		return nil, err
	}
	return &meta, nil
}

// LoadTrajectory reads the recorded samples of a run. Rows of one step must
// be contiguous, as Save writes them.
func (s *Store) LoadTrajectory(runID string) (*Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(csvHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptTrajectory, err)
	}

	tr := &Trajectory{}
	if len(records) < 2 {
		return tr, nil
	}

	// Bodies are identified by their row order within a step, since
	// scenario body names need not be unique.
	var cur *Sample
	for i, record := range records[1:] {
		nums := make([]float64, 0, 8)
		for j, field := range record {
			if j == 2 {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrCorruptTrajectory, i+2, err)
			}
			nums = append(nums, v)
		}
		step, name := int(nums[0]), record[2]

		if cur == nil || cur.Step != step {
			tr.Samples = append(tr.Samples, Sample{Step: step, Time: nums[1]})
			cur = &tr.Samples[len(tr.Samples)-1]
		}
		k := len(cur.Positions)
		switch {
		case len(tr.Samples) == 1:
			tr.Bodies = append(tr.Bodies, name)
		case k >= len(tr.Bodies) || tr.Bodies[k] != name:
			return nil, fmt.Errorf("%w: line %d: unexpected body %q in step %d", ErrCorruptTrajectory, i+2, name, step)
		}
		cur.Positions = append(cur.Positions, quantity.NewPoint(nums[2], nums[3], nums[4]))
		cur.Velocities = append(cur.Velocities, quantity.NewVector(nums[5], nums[6], nums[7]))
	}

	for _, sample := range tr.Samples {
		if len(sample.Positions) != len(tr.Bodies) {
			return nil, fmt.Errorf("%w: step %d has %d of %d bodies", ErrCorruptTrajectory, sample.Step, len(sample.Positions), len(tr.Bodies))
		}
	}
	return tr, nil
}

type ExportData struct {
	Metadata   *RunMetadata `json:"metadata"`
	Trajectory *Trajectory  `json:"trajectory"`
}

// ExportJSON writes a stored run as a single JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	tr, err := s.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Metadata: meta, Trajectory: tr})
}

// ExportCSV copies the stored trajectory CSV to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return err
	}
	defer file.Close()

	_, err = io.Copy(w, file)
	return err
}
