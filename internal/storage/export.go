package storage

import (
	"encoding/json"
	"os"

	"github.com/san-kum/dlasim/internal/metrics"
)

type ExportData struct {
	RunMetadata
	Growth []metrics.GrowthPoint `json:"growth"`
}

// ExportJSON writes a run's metadata together with its growth curve.
func (s *Store) ExportJSON(runID, path string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	growth, err := s.LoadGrowth(runID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(ExportData{RunMetadata: *meta, Growth: growth}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
