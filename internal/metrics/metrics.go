package metrics

import (
	"github.com/san-kum/dlasim/internal/dla"
)

type Metric interface {
	Name() string
	Observe(ep dla.Episode)
	Value() float64
	Reset()
}

// Set fans episodes out to a group of metrics and satisfies dla.Observer.
type Set []Metric

func (s Set) OnEpisode(ep dla.Episode) {
	for _, m := range s {
		m.Observe(ep)
	}
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}

func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

// Default returns the metrics recorded for every run on a lattice whose
// seed sits at center.
func Default(center dla.Point) Set {
	gyr := NewGyration(center)
	return Set{
		NewMass(),
		NewMaxRadius(center),
		gyr,
		NewFractalDimension(gyr),
		NewEscapeRatio(),
		NewMeanSteps(),
	}
}
