package dla

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRadius indicates a non-positive aggregation radius.
	ErrInvalidRadius = errors.New("dla: radius must be positive")

	// ErrEmptyReleaseRegion indicates the lattice has no release sites,
	// which happens for radii too small to fit one.
	ErrEmptyReleaseRegion = errors.New("dla: release region is empty")

	// ErrFinished indicates Step was called on an engine that already stopped.
	ErrFinished = errors.New("dla: run already finished")

	// ErrWraparound indicates a neighbour lookup crossed the lattice edge.
	ErrWraparound = errors.New("dla: neighbour lookup wrapped around the lattice edge")
)

// WraparoundError reports the walker and lookup coordinates that tripped the
// debug bounds check.
type WraparoundError struct {
	Attempt int
	Walker  Point
	Lookup  Point
}

func (e *WraparoundError) Error() string {
	return fmt.Sprintf("%v: walker %d at %v looked up %v", ErrWraparound, e.Attempt, e.Walker, e.Lookup)
}

func (e *WraparoundError) Unwrap() error {
	return ErrWraparound
}
