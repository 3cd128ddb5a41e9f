package experiment

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/san-kum/dlasim/internal/config"
	"github.com/san-kum/dlasim/internal/dla"
	"github.com/san-kum/dlasim/internal/metrics"
)

// Result bundles the engine outcome with what the observers recorded.
type Result struct {
	Run     dla.Result
	Metrics map[string]float64
	Growth  []metrics.GrowthPoint
	Elapsed time.Duration
}

type Experiment struct {
	cfg     *config.Config
	engine  *dla.Engine
	metrics metrics.Set
	growth  *metrics.Growth
	started time.Time
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg.Clone()}
}

func (e *Experiment) Config() *config.Config { return e.cfg.Clone() }

// Setup validates the configuration and builds a seeded engine with the
// default metrics and growth recorder attached ahead of any extra observers.
func (e *Experiment) Setup(renderer dla.Renderer, logger *log.Logger, observers ...dla.Observer) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	grid, err := dla.NewGrid(e.cfg.Radius)
	if err != nil {
		return err
	}

	e.metrics = metrics.Default(grid.Center())
	e.growth = metrics.NewGrowth()
	obs := append([]dla.Observer{e.metrics, e.growth}, observers...)

	e.engine = dla.NewEngine(grid, rand.New(rand.NewSource(e.cfg.Seed)), dla.Options{
		MaxAttempts:      e.cfg.MaxAttempts,
		SnapshotInterval: e.cfg.SnapshotInterval,
		Renderer:         renderer,
		Observers:        obs,
		Logger:           logger,
		Debug:            e.cfg.Debug,
	})
	e.started = time.Now()
	return nil
}

// Engine exposes the engine for callers that drive it episode by episode.
func (e *Experiment) Engine() *dla.Engine {
	return e.engine
}

func (e *Experiment) Run() (*Result, error) {
	if e.engine == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	_, err := e.engine.Run()
	return e.Collect(), err
}

// Collect snapshots the current counters and metric values.
func (e *Experiment) Collect() *Result {
	if e.engine == nil {
		return &Result{}
	}
	return &Result{
		Run:     e.engine.Result(),
		Metrics: e.metrics.Values(),
		Growth:  e.growth.Points(),
		Elapsed: time.Since(e.started),
	}
}
