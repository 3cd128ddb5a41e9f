package dla

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"
)

const (
	DefaultMaxAttempts      = 1_000_000
	DefaultSnapshotInterval = 10_000
)

// Outcome describes how far a run has progressed.
type Outcome uint8

const (
	Running Outcome = iota
	// Terminated means a walker stuck next to the forbidden ring.
	Terminated
	// Exhausted means the attempt cap was hit first.
	Exhausted
)

func (o Outcome) String() string {
	switch o {
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Episode is the record of one released walker. Grew reports whether the
// lattice changed; ClusterSize counts aggregated walkers, seed excluded.
type Episode struct {
	Attempt     int
	Signal      Signal
	Start       Point
	End         Point
	Steps       int
	Grew        bool
	ClusterSize int
}

// Snapshot is the lattice state handed to a Renderer.
type Snapshot struct {
	Cells       [][]Cell
	Attempts    int
	ClusterSize int
	Outcome     Outcome
}

// Renderer consumes snapshots synchronously; the lattice is not touched
// until Render returns.
type Renderer interface {
	Render(s Snapshot) error
}

type RendererFunc func(s Snapshot) error

func (f RendererFunc) Render(s Snapshot) error { return f(s) }

// Observer is notified after every episode.
type Observer interface {
	OnEpisode(ep Episode)
}

type ObserverFunc func(ep Episode)

func (f ObserverFunc) OnEpisode(ep Episode) { f(ep) }

type Options struct {
	MaxAttempts      int
	SnapshotInterval int
	Renderer         Renderer
	Observers        []Observer
	Logger           *log.Logger
	// Debug checks every neighbour lookup against its unwrapped coordinate.
	Debug bool
}

// Result summarises a finished (or interrupted) run.
type Result struct {
	Outcome     Outcome
	Attempts    int
	ClusterSize int
	Snapshots   int
}

// Engine runs the aggregation loop over a Grid. Counters are created with
// the engine, mutated only by Step, and readable at any time.
type Engine struct {
	grid *Grid
	rng  *rand.Rand
	opts Options
	log  *log.Logger

	attempts    int
	clusterSize int
	halted      bool
	outcome     Outcome
	snapshots   int
}

func NewEngine(grid *Grid, rng *rand.Rand, opts Options) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.SnapshotInterval <= 0 {
		opts.SnapshotInterval = DefaultSnapshotInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{
		grid: grid,
		rng:  rng,
		opts: opts,
		log:  logger,
	}
}

func (e *Engine) Grid() *Grid      { return e.grid }
func (e *Engine) Attempts() int    { return e.attempts }
func (e *Engine) ClusterSize() int { return e.clusterSize }
func (e *Engine) Halted() bool     { return e.halted }
func (e *Engine) Outcome() Outcome { return e.outcome }
func (e *Engine) Done() bool       { return e.outcome != Running }
func (e *Engine) Snapshots() int   { return e.snapshots }
func (e *Engine) MaxAttempts() int { return e.opts.MaxAttempts }

func (e *Engine) Result() Result {
	return Result{
		Outcome:     e.outcome,
		Attempts:    e.attempts,
		ClusterSize: e.clusterSize,
		Snapshots:   e.snapshots,
	}
}

// Run releases walkers until one reaches Terminal or the attempt cap is hit.
func (e *Engine) Run() (Result, error) {
	for !e.Done() {
		if _, err := e.Step(); err != nil {
			return e.Result(), err
		}
	}
	return e.Result(), nil
}

// Step releases a single walker and follows it until its episode ends.
func (e *Engine) Step() (Episode, error) {
	if e.Done() {
		return Episode{}, ErrFinished
	}
	start, ok := e.grid.RandomReleaseSite(e.rng)
	if !ok {
		return Episode{}, fmt.Errorf("%w: radius %d", ErrEmptyReleaseRegion, e.grid.Radius())
	}

	w := NewWalker(start.X, start.Y, e.rng)
	e.attempts++
	ep := Episode{Attempt: e.attempts, Start: start}

	for {
		pos := w.Pos()
		if e.opts.Debug {
			if err := e.checkBounds(pos); err != nil {
				return ep, err
			}
		}
		sig := Classify(e.grid.At(pos.X, pos.Y), e.grid.Neighbors(pos.X, pos.Y))
		if sig == Continue {
			w.Walk(1)
			ep.Steps++
			continue
		}

		ep.Signal = sig
		ep.End = pos
		switch sig {
		case Escaped:
		case Sticks:
			ep.Grew = e.absorb(pos)
		case Terminal:
			ep.Grew = e.absorb(pos)
			e.halted = true
		}
		break
	}
	ep.ClusterSize = e.clusterSize

	for _, obs := range e.opts.Observers {
		obs.OnEpisode(ep)
	}

	switch {
	case e.halted:
		e.outcome = Terminated
	case e.attempts >= e.opts.MaxAttempts:
		e.outcome = Exhausted
		e.log.Printf("warning: too many iterations, stopping after %d walkers", e.attempts)
	}

	if (e.attempts-1)%e.opts.SnapshotInterval == 0 || e.Done() {
		if err := e.snapshot(); err != nil {
			return ep, err
		}
	}
	return ep, nil
}

// absorb counts the walker as aggregated and occupies p. A walker released
// onto a site the cluster already covers still counts but leaves the
// lattice unchanged.
func (e *Engine) absorb(p Point) bool {
	e.clusterSize++
	return e.grid.occupy(p)
}

func (e *Engine) checkBounds(p Point) error {
	if e.grid.InBounds(p) {
		return nil
	}
	lookup := p
	for _, n := range p.Neighbors() {
		if n.X < 0 || n.Y < 0 || n.X >= e.grid.Size() || n.Y >= e.grid.Size() {
			lookup = n
			break
		}
	}
	return &WraparoundError{Attempt: e.attempts, Walker: p, Lookup: lookup}
}

func (e *Engine) snapshot() error {
	e.log.Printf("%d walkers released, %d aggregated, saving snapshot", e.attempts, e.clusterSize)
	e.snapshots++
	if e.opts.Renderer == nil {
		return nil
	}
	s := Snapshot{
		Cells:       e.grid.Cells(),
		Attempts:    e.attempts,
		ClusterSize: e.clusterSize,
		Outcome:     e.outcome,
	}
	if err := e.opts.Renderer.Render(s); err != nil {
		return fmt.Errorf("render snapshot at %d walkers: %w", e.attempts, err)
	}
	return nil
}
