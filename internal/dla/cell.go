package dla

import "fmt"

// Cell is the state of one lattice site.
type Cell uint8

const (
	Vacant Cell = iota
	Occupied
	Forbidden
)

func (c Cell) String() string {
	switch c {
	case Vacant:
		return "vacant"
	case Occupied:
		return "occupied"
	case Forbidden:
		return "forbidden"
	default:
		return fmt.Sprintf("cell(%d)", uint8(c))
	}
}

// Point is a lattice coordinate. X indexes rows and Y columns.
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Neighbors returns the four axis neighbours in lookup order:
// (x+1,y), (x-1,y), (x,y+1), (x,y-1).
func (p Point) Neighbors() [4]Point {
	return [4]Point{
		{p.X + 1, p.Y},
		{p.X - 1, p.Y},
		{p.X, p.Y + 1},
		{p.X, p.Y - 1},
	}
}
