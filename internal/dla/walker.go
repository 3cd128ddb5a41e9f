package dla

import "math/rand"

// Signal is the command a walker's surroundings produce.
type Signal uint8

const (
	// Continue means the walker takes another step.
	Continue Signal = iota
	// Sticks means the walker's cell joins the cluster.
	Sticks
	// Terminal means the walker sticks next to the forbidden ring and the
	// whole run stops.
	Terminal
	// Escaped means the walker stands on a forbidden cell and is discarded.
	Escaped
)

func (s Signal) String() string {
	switch s {
	case Continue:
		return "continue"
	case Sticks:
		return "sticks"
	case Terminal:
		return "terminal"
	case Escaped:
		return "escaped"
	default:
		return "unknown"
	}
}

// Walker is a particle performing an unbiased walk on the lattice.
type Walker struct {
	X, Y int
	rng  *rand.Rand
}

func NewWalker(x, y int, rng *rand.Rand) *Walker {
	return &Walker{X: x, Y: y, rng: rng}
}

func (w *Walker) Pos() Point {
	return Point{w.X, w.Y}
}

// Walk takes steps independent moves along one of the four axis directions,
// each with probability 1/4. Positions are not bounds checked.
func (w *Walker) Walk(steps int) {
	for i := 0; i < steps; i++ {
		switch w.rng.Intn(4) {
		case 0:
			w.X++
		case 1:
			w.X--
		case 2:
			w.Y++
		default:
			w.Y--
		}
	}
}

// Classify maps a walker's current cell and its four neighbours to a Signal.
// Neighbour order does not matter. Escaped is checked first, then Terminal,
// then Sticks.
func Classify(current Cell, neighbors [4]Cell) Signal {
	if current == Forbidden {
		return Escaped
	}
	forbidden, occupied := false, false
	for _, n := range neighbors {
		switch n {
		case Forbidden:
			forbidden = true
		case Occupied:
			occupied = true
		}
	}
	switch {
	case forbidden && occupied:
		return Terminal
	case occupied:
		return Sticks
	default:
		return Continue
	}
}
