package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRadius           = 50
	DefaultMaxAttempts      = 1_000_000
	DefaultSnapshotInterval = 10_000
	DefaultOutputDir        = "Images"
	DefaultCellSize         = 4
)

var (
	ErrInvalidRadius   = errors.New("config: radius must be positive")
	ErrInvalidCap      = errors.New("config: max_attempts must be positive")
	ErrInvalidInterval = errors.New("config: snapshot_interval must be positive")
	ErrInvalidCellSize = errors.New("config: cell_size must be positive")
)

type Config struct {
	Radius           int    `yaml:"radius" env:"DLASIM_RADIUS"`
	Seed             int64  `yaml:"seed" env:"DLASIM_SEED"`
	MaxAttempts      int    `yaml:"max_attempts" env:"DLASIM_MAX_ATTEMPTS"`
	SnapshotInterval int    `yaml:"snapshot_interval" env:"DLASIM_SNAPSHOT_INTERVAL"`
	OutputDir        string `yaml:"output_dir" env:"DLASIM_OUTPUT_DIR"`
	CellSize         int    `yaml:"cell_size" env:"DLASIM_CELL_SIZE"`
	Debug            bool   `yaml:"debug" env:"DLASIM_DEBUG"`
}

func DefaultConfig() *Config {
	return &Config{
		Radius:           DefaultRadius,
		MaxAttempts:      DefaultMaxAttempts,
		SnapshotInterval: DefaultSnapshotInterval,
		OutputDir:        DefaultOutputDir,
		CellSize:         DefaultCellSize,
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.Merge(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge overlays the keys present in a YAML file onto c.
func (c *Config) Merge(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields whose DLASIM_* variable is set. Unset variables
// leave the current value alone.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files (or ./.env) into the
// process environment. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func (c *Config) Validate() error {
	if c.Radius <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidRadius, c.Radius)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCap, c.MaxAttempts)
	}
	if c.SnapshotInterval <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidInterval, c.SnapshotInterval)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCellSize, c.CellSize)
	}
	return nil
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
