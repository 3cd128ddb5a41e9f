package automation

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"runtime"
	"sync"

	"github.com/san-kum/dlasim/internal/config"
	"github.com/san-kum/dlasim/internal/dla"
	"github.com/san-kum/dlasim/internal/experiment"
	"github.com/san-kum/dlasim/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of aggregation runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep overrides fields of the base configuration for one run.
// Zero values keep the base value.
type ScenarioStep struct {
	Name             string `yaml:"name"`
	Preset           string `yaml:"preset"`
	Radius           int    `yaml:"radius"`
	Seed             int64  `yaml:"seed"`
	MaxAttempts      int    `yaml:"max_attempts"`
	SnapshotInterval int    `yaml:"snapshot_interval"`
	OutputDir        string `yaml:"output_dir"`
	Renderer         string `yaml:"renderer"`
	Save             bool   `yaml:"save"`
}

// StepResult is the outcome of one scenario step
type StepResult struct {
	Name   string
	RunID  string
	Config *config.Config
	Result *experiment.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

func (s ScenarioStep) apply(base *config.Config) (*config.Config, error) {
	cfg := base.Clone()
	if s.Preset != "" {
		p := config.GetPreset(s.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", s.Preset, config.ListPresets())
		}
		p.Seed = cfg.Seed
		p.OutputDir = cfg.OutputDir
		p.Debug = cfg.Debug
		cfg = p
	}
	if s.Radius != 0 {
		cfg.Radius = s.Radius
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.MaxAttempts != 0 {
		cfg.MaxAttempts = s.MaxAttempts
	}
	if s.SnapshotInterval != 0 {
		cfg.SnapshotInterval = s.SnapshotInterval
	}
	if s.OutputDir != "" {
		cfg.OutputDir = s.OutputDir
	}
	return cfg, nil
}

// RunScenario executes all steps in order. Steps marked save are written to
// st when it is non-nil.
func RunScenario(scenario *Scenario, base *config.Config, registry *experiment.Registry, st *storage.Store, out io.Writer) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.apply(base)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		rendererName := step.Renderer
		if rendererName == "" {
			rendererName = "none"
		}
		r, err := registry.GetRenderer(rendererName, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		fmt.Fprintf(out, "Running step %d/%d: %s (radius %d)\n", i+1, len(scenario.Steps), name, cfg.Radius)

		exp := experiment.New(cfg)
		if err := exp.Setup(r, nil); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		result, err := exp.Run()
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Name: name, Config: cfg, Result: result}
		if step.Save && st != nil {
			id, err := st.Save(cfg, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
		}
		results = append(results, sr)
	}

	return results, nil
}

// RadiusSweep grows one cluster per radius in [MinRadius, MaxRadius].
type RadiusSweep struct {
	MinRadius   int
	MaxRadius   int
	Step        int
	Seed        int64
	MaxAttempts int
}

// SweepResult holds results from a radius sweep
type SweepResult struct {
	Radius           int
	Outcome          string
	Attempts         int
	ClusterSize      int
	Gyration         float64
	FractalDimension float64
}

// RunSweep executes a radius sweep
func RunSweep(sweep *RadiusSweep, out io.Writer) ([]SweepResult, error) {
	if sweep.MinRadius <= 0 || sweep.MaxRadius < sweep.MinRadius {
		return nil, fmt.Errorf("invalid radius range [%d, %d]", sweep.MinRadius, sweep.MaxRadius)
	}
	step := sweep.Step
	if step <= 0 {
		step = 1
	}

	total := (sweep.MaxRadius-sweep.MinRadius)/step + 1
	results := make([]SweepResult, 0, total)

	for i, r := 0, sweep.MinRadius; r <= sweep.MaxRadius; i, r = i+1, r+step {
		cfg := config.DefaultConfig()
		cfg.Radius = r
		cfg.Seed = sweep.Seed
		if sweep.MaxAttempts > 0 {
			cfg.MaxAttempts = sweep.MaxAttempts
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(nil, nil); err != nil {
			return nil, err
		}
		result, err := exp.Run()
		if err != nil {
			return nil, fmt.Errorf("radius %d: %w", r, err)
		}

		results = append(results, SweepResult{
			Radius:           r,
			Outcome:          result.Run.Outcome.String(),
			Attempts:         result.Run.Attempts,
			ClusterSize:      result.Run.ClusterSize,
			Gyration:         result.Metrics["radius_of_gyration"],
			FractalDimension: result.Metrics["fractal_dimension"],
		})

		fmt.Fprintf(out, "Sweep %d/%d: radius=%d\n", i+1, total, r)
	}

	return results, nil
}

// EnsembleConfig defines repeated runs at one radius with derived seeds
type EnsembleConfig struct {
	Radius      int
	NumTrials   int
	MaxAttempts int
	Seed        int64
	// Workers bounds how many trials grow at once; 0 means GOMAXPROCS.
	Workers int
}

// EnsembleResult is one trial of an ensemble
type EnsembleResult struct {
	TrialID          int
	Seed             int64
	Terminated       bool
	ClusterSize      int
	FractalDimension float64
}

// RunEnsemble executes independent trials whose seeds are drawn from Seed.
// Trials run concurrently, each on its own engine; results are in trial
// order and do not depend on Workers.
func RunEnsemble(cfg *EnsembleConfig, out io.Writer) ([]EnsembleResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("ensemble needs at least one trial, got %d", cfg.NumTrials)
	}
	if cfg.Radius <= 0 {
		return nil, fmt.Errorf("%w: got %d", config.ErrInvalidRadius, cfg.Radius)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	seeds := make([]int64, cfg.NumTrials)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]EnsembleResult, cfg.NumTrials)
	errs := make([]error, cfg.NumTrials)
	sem := make(chan struct{}, workers)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	for i := 0; i < cfg.NumTrials; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx], errs[idx] = runTrial(cfg, idx, seeds[idx])

			mu.Lock()
			done++
			if done%10 == 0 {
				fmt.Fprintf(out, "Ensemble: %d/%d trials complete\n", done, cfg.NumTrials)
			}
			mu.Unlock()
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

func runTrial(cfg *EnsembleConfig, trial int, seed int64) (EnsembleResult, error) {
	c := config.DefaultConfig()
	c.Radius = cfg.Radius
	c.Seed = seed
	if cfg.MaxAttempts > 0 {
		c.MaxAttempts = cfg.MaxAttempts
	}

	exp := experiment.New(c)
	if err := exp.Setup(nil, nil); err != nil {
		return EnsembleResult{}, err
	}
	result, err := exp.Run()
	if err != nil {
		return EnsembleResult{}, fmt.Errorf("trial %d: %w", trial, err)
	}

	return EnsembleResult{
		TrialID:          trial,
		Seed:             seed,
		Terminated:       result.Run.Outcome == dla.Terminated,
		ClusterSize:      result.Run.ClusterSize,
		FractalDimension: result.Metrics["fractal_dimension"],
	}, nil
}

// EnsembleStats returns the mean and standard deviation of the fractal
// dimension estimate, and how many trials reached the forbidden ring.
func EnsembleStats(results []EnsembleResult) (mean, std float64, terminated int) {
	if len(results) == 0 {
		return 0, 0, 0
	}
	for _, r := range results {
		mean += r.FractalDimension
		if r.Terminated {
			terminated++
		}
	}
	mean /= float64(len(results))
	for _, r := range results {
		d := r.FractalDimension - mean
		std += d * d
	}
	std = math.Sqrt(std / float64(len(results)))
	return mean, std, terminated
}
