package metrics

import (
	"math"

	"github.com/san-kum/dlasim/internal/dla"
)

// Mass counts cluster cells, seed included.
type Mass struct {
	name string
	n    int
}

func NewMass() *Mass {
	return &Mass{name: "mass", n: 1}
}

func (m *Mass) Name() string { return m.name }

func (m *Mass) Observe(ep dla.Episode) {
	if ep.Grew {
		m.n++
	}
}

func (m *Mass) Value() float64 { return float64(m.n) }
func (m *Mass) Reset()         { m.n = 1 }

// MaxRadius is the largest Euclidean distance of a cluster cell from the seed.
type MaxRadius struct {
	name   string
	center dla.Point
	max    float64
}

func NewMaxRadius(center dla.Point) *MaxRadius {
	return &MaxRadius{name: "max_radius", center: center}
}

func (m *MaxRadius) Name() string { return m.name }

func (m *MaxRadius) Observe(ep dla.Episode) {
	if !ep.Grew {
		return
	}
	m.max = math.Max(m.max, distance(ep.End, m.center))
}

func (m *MaxRadius) Value() float64 { return m.max }
func (m *MaxRadius) Reset()         { m.max = 0 }

// Gyration is the radius of gyration about the seed.
type Gyration struct {
	name   string
	center dla.Point
	sumSq  float64
	n      int
}

func NewGyration(center dla.Point) *Gyration {
	return &Gyration{name: "radius_of_gyration", center: center, n: 1}
}

func (g *Gyration) Name() string { return g.name }

func (g *Gyration) Observe(ep dla.Episode) {
	if !ep.Grew {
		return
	}
	d := distance(ep.End, g.center)
	g.sumSq += d * d
	g.n++
}

func (g *Gyration) Value() float64 {
	return math.Sqrt(g.sumSq / float64(g.n))
}

func (g *Gyration) Mass() int { return g.n }

func (g *Gyration) Reset() {
	g.sumSq = 0
	g.n = 1
}

// FractalDimension estimates the mass-radius dimension ln N / ln Rg.
// It reads zero until the cluster is wider than one lattice unit.
type FractalDimension struct {
	name string
	gyr  *Gyration
}

func NewFractalDimension(gyr *Gyration) *FractalDimension {
	return &FractalDimension{name: "fractal_dimension", gyr: gyr}
}

func (f *FractalDimension) Name() string { return f.name }

// Observe is a no-op; the estimate is derived from the shared Gyration.
func (f *FractalDimension) Observe(ep dla.Episode) {}

func (f *FractalDimension) Value() float64 {
	rg := f.gyr.Value()
	if rg <= 1 {
		return 0
	}
	return math.Log(float64(f.gyr.Mass())) / math.Log(rg)
}

func (f *FractalDimension) Reset() {}

func distance(p, c dla.Point) float64 {
	return math.Hypot(float64(p.X-c.X), float64(p.Y-c.Y))
}
