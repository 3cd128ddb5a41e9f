package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/dlasim/internal/config"
	"github.com/san-kum/dlasim/internal/experiment"
	"github.com/san-kum/dlasim/internal/metrics"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID               string             `json:"id"`
	Radius           int                `json:"radius"`
	Seed             int64              `json:"seed"`
	Timestamp        time.Time          `json:"timestamp"`
	Outcome          string             `json:"outcome"`
	Attempts         int                `json:"attempts"`
	ClusterSize      int                `json:"cluster_size"`
	Snapshots        int                `json:"snapshots"`
	MaxAttempts      int                `json:"max_attempts"`
	SnapshotInterval int                `json:"snapshot_interval"`
	OutputDir        string             `json:"output_dir"`
	ElapsedSeconds   float64            `json:"elapsed_seconds"`
	Metrics          map[string]float64 `json:"metrics"`
}

func NewRunID(radius int) string {
	return fmt.Sprintf("dla_r%d_%s", radius, uuid.NewString()[:8])
}

// Save writes metadata.json and growth.csv under a fresh run directory and
// returns the run id.
func (s *Store) Save(cfg *config.Config, result *experiment.Result) (string, error) {
	runID := NewRunID(cfg.Radius)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:               runID,
		Radius:           cfg.Radius,
		Seed:             cfg.Seed,
		Timestamp:        time.Now(),
		Outcome:          result.Run.Outcome.String(),
		Attempts:         result.Run.Attempts,
		ClusterSize:      result.Run.ClusterSize,
		Snapshots:        result.Run.Snapshots,
		MaxAttempts:      cfg.MaxAttempts,
		SnapshotInterval: cfg.SnapshotInterval,
		OutputDir:        cfg.OutputDir,
		ElapsedSeconds:   result.Elapsed.Seconds(),
		Metrics:          result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeGrowth(filepath.Join(runDir, "growth.csv"), result.Growth); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeGrowth(path string, points []metrics.GrowthPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"attempts", "cluster"}); err != nil {
		return err
	}
	for _, p := range points {
		if err := w.Write([]string{strconv.Itoa(p.Attempts), strconv.Itoa(p.ClusterSize)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadGrowth(runID string) ([]metrics.GrowthPoint, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "growth.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []metrics.GrowthPoint{}, nil
	}

	points := make([]metrics.GrowthPoint, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		a, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		c, err := strconv.Atoi(record[1])
		if err != nil {
			continue
		}
		points = append(points, metrics.GrowthPoint{Attempts: a, ClusterSize: c})
	}
	return points, nil
}
