package dla

import (
	"fmt"
	"math/rand"
	"slices"
)

// Grid is the aggregation lattice plus its frozen boundary and release
// region. Only Vacant cells ever change, and only to Occupied.
type Grid struct {
	radius   int
	size     int
	cells    [][]Cell
	boundary []Point
	release  []Point
}

// NewGrid builds the seed-only lattice for radius and derives the boundary
// and release region from it.
func NewGrid(radius int) (*Grid, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRadius, radius)
	}

	size := 2*radius + 5
	g := &Grid{
		radius: radius,
		size:   size,
		cells:  make([][]Cell, size),
	}

	c := g.Center()
	r2 := radius * radius
	for i := range g.cells {
		g.cells[i] = make([]Cell, size)
		for j := range g.cells[i] {
			dx, dy := i-c.X, j-c.Y
			switch {
			case i == c.X && j == c.Y:
				g.cells[i][j] = Occupied
			case dx*dx+dy*dy > r2:
				g.cells[i][j] = Forbidden
			}
		}
	}

	g.boundary = g.findBoundary()
	g.release = g.findReleaseRegion()
	return g, nil
}

func (g *Grid) Radius() int { return g.radius }
func (g *Grid) Size() int   { return g.size }

// Center returns the seed coordinate (R+2, R+2).
func (g *Grid) Center() Point {
	return Point{g.radius + 2, g.radius + 2}
}

func (g *Grid) wrap(v int) int {
	return ((v % g.size) + g.size) % g.size
}

// At returns the state of (x, y). Coordinates are taken modulo Size.
func (g *Grid) At(x, y int) Cell {
	return g.cells[g.wrap(x)][g.wrap(y)]
}

// Neighbors returns the states of the four axis neighbours of (x, y) in
// Point.Neighbors order. Lookups wrap modulo Size; the forbidden ring keeps
// legitimate walkers far enough from the edge that this never matters.
func (g *Grid) Neighbors(x, y int) [4]Cell {
	var out [4]Cell
	for i, n := range (Point{x, y}).Neighbors() {
		out[i] = g.At(n.X, n.Y)
	}
	return out
}

// InBounds reports whether p and all four of its neighbours lie inside the
// lattice without wrapping.
func (g *Grid) InBounds(p Point) bool {
	return p.X >= 1 && p.Y >= 1 && p.X < g.size-1 && p.Y < g.size-1
}

// Boundary returns the Vacant cells of the seed-only lattice with at least
// one Vacant and one Forbidden neighbour, in row-major order. The set is
// never recomputed.
func (g *Grid) Boundary() []Point {
	return slices.Clone(g.boundary)
}

// ReleaseRegion returns the walker spawn sites in row-major order. Like the
// boundary it is a snapshot of the seed-only lattice.
func (g *Grid) ReleaseRegion() []Point {
	return slices.Clone(g.release)
}

// RandomReleaseSite draws a spawn site uniformly over the release region.
func (g *Grid) RandomReleaseSite(rng *rand.Rand) (Point, bool) {
	if len(g.release) == 0 {
		return Point{}, false
	}
	return g.release[rng.Intn(len(g.release))], true
}

// Count returns how many cells currently hold state c.
func (g *Grid) Count(c Cell) int {
	n := 0
	for _, row := range g.cells {
		for _, v := range row {
			if v == c {
				n++
			}
		}
	}
	return n
}

// Cells returns a deep copy of the lattice.
func (g *Grid) Cells() [][]Cell {
	out := make([][]Cell, g.size)
	for i, row := range g.cells {
		out[i] = slices.Clone(row)
	}
	return out
}

// occupy turns a Vacant cell Occupied and reports whether it changed.
func (g *Grid) occupy(p Point) bool {
	x, y := g.wrap(p.X), g.wrap(p.Y)
	if g.cells[x][y] != Vacant {
		return false
	}
	g.cells[x][y] = Occupied
	return true
}

func (g *Grid) findBoundary() []Point {
	var out []Point
	for i := 0; i < g.size; i++ {
		for j := 0; j < g.size; j++ {
			if g.cells[i][j] != Vacant {
				continue
			}
			nb := g.Neighbors(i, j)
			if slices.Contains(nb[:], Vacant) && slices.Contains(nb[:], Forbidden) {
				out = append(out, Point{i, j})
			}
		}
	}
	return out
}

func (g *Grid) findReleaseRegion() []Point {
	seen := make(map[Point]bool)
	var out []Point
	for _, b := range g.boundary {
		for _, p := range b.Neighbors() {
			if seen[p] || g.At(p.X, p.Y) != Vacant {
				continue
			}
			if g.Neighbors(p.X, p.Y) == [4]Cell{} {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	slices.SortFunc(out, func(a, b Point) int {
		if a.X != b.X {
			return a.X - b.X
		}
		return a.Y - b.Y
	})
	return out
}
