package config

import "sort"

var Presets = map[string]*Config{
	"tiny": {
		Radius: 5, MaxAttempts: DefaultMaxAttempts, SnapshotInterval: 10,
		OutputDir: DefaultOutputDir, CellSize: 16,
	},
	"small": {
		Radius: 25, MaxAttempts: DefaultMaxAttempts, SnapshotInterval: 500,
		OutputDir: DefaultOutputDir, CellSize: 8,
	},
	"medium": {
		Radius: 50, MaxAttempts: DefaultMaxAttempts, SnapshotInterval: DefaultSnapshotInterval,
		OutputDir: DefaultOutputDir, CellSize: DefaultCellSize,
	},
	"large": {
		Radius: 150, MaxAttempts: DefaultMaxAttempts, SnapshotInterval: DefaultSnapshotInterval,
		OutputDir: DefaultOutputDir, CellSize: 2,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
