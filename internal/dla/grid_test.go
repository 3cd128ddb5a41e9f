package dla

import (
	"math"
	"math/rand"
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Grid", func() {
	It("rejects non-positive radii", func() {
		for _, r := range []int{0, -1, -50} {
			g, err := NewGrid(r)
			Expect(err).To(MatchError(ErrInvalidRadius))
			Expect(g).To(BeNil())
		}
	})

	It("lays out the seed and forbidden ring for every radius", func() {
		for r := 1; r <= 15; r++ {
			g, err := NewGrid(r)
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Size()).To(Equal(2*r + 5))

			c := g.Center()
			Expect(c).To(Equal(Point{r + 2, r + 2}))
			for i := 0; i < g.Size(); i++ {
				for j := 0; j < g.Size(); j++ {
					d := math.Hypot(float64(i-c.X), float64(j-c.Y))
					switch {
					case i == c.X && j == c.Y:
						Expect(g.At(i, j)).To(Equal(Occupied))
					case d > float64(r):
						Expect(g.At(i, j)).To(Equal(Forbidden), "cell (%d,%d) radius %d", i, j, r)
					default:
						Expect(g.At(i, j)).To(Equal(Vacant), "cell (%d,%d) radius %d", i, j, r)
					}
				}
			}
			Expect(g.Count(Occupied)).To(Equal(1))
		}
	})

	It("matches the radius 5 layout", func() {
		g, err := NewGrid(5)
		Expect(err).NotTo(HaveOccurred())
		Expect(g.Size()).To(Equal(15))
		Expect(g.Center()).To(Equal(Point{7, 7}))
		Expect(g.At(7, 7)).To(Equal(Occupied))
		Expect(g.At(0, 0)).To(Equal(Forbidden))
		Expect(g.At(2, 7)).To(Equal(Vacant))
		Expect(g.At(1, 7)).To(Equal(Forbidden))
	})

	It("derives a boundary of vacant cells touching both vacant and forbidden cells", func() {
		for r := 1; r <= 15; r++ {
			g, _ := NewGrid(r)
			for _, p := range g.Boundary() {
				Expect(g.At(p.X, p.Y)).To(Equal(Vacant))
				nb := g.Neighbors(p.X, p.Y)
				Expect(nb).To(ContainElement(Vacant))
				Expect(nb).To(ContainElement(Forbidden))
			}
		}
	})

	It("derives a release region of vacant cells with only vacant neighbours", func() {
		for r := 3; r <= 15; r++ {
			g, _ := NewGrid(r)
			boundary := g.Boundary()
			release := g.ReleaseRegion()
			Expect(release).NotTo(BeEmpty(), "radius %d", r)
			for _, p := range release {
				Expect(g.At(p.X, p.Y)).To(Equal(Vacant))
				Expect(g.Neighbors(p.X, p.Y)).To(Equal([4]Cell{Vacant, Vacant, Vacant, Vacant}))
				Expect(boundary).NotTo(ContainElement(p))

				nextToBoundary := false
				for _, n := range p.Neighbors() {
					if slices.Contains(boundary, n) {
						nextToBoundary = true
					}
				}
				Expect(nextToBoundary).To(BeTrue(), "site %v radius %d", p, r)
			}
		}
	})

	It("stores the release region without duplicates", func() {
		g, _ := NewGrid(20)
		seen := map[Point]bool{}
		for _, p := range g.ReleaseRegion() {
			Expect(seen[p]).To(BeFalse())
			seen[p] = true
		}
	})

	It("has no release sites for radii 1 and 2", func() {
		for _, r := range []int{1, 2} {
			g, _ := NewGrid(r)
			Expect(g.ReleaseRegion()).To(BeEmpty())
			_, ok := g.RandomReleaseSite(rand.New(rand.NewSource(1)))
			Expect(ok).To(BeFalse())
		}
	})

	It("derives identical sets on every construction", func() {
		for r := 1; r <= 12; r++ {
			a, _ := NewGrid(r)
			b, _ := NewGrid(r)
			Expect(a.Boundary()).To(Equal(b.Boundary()))
			Expect(a.ReleaseRegion()).To(Equal(b.ReleaseRegion()))
		}
	})

	It("hands out copies of the derived sets", func() {
		g, _ := NewGrid(6)
		b := g.Boundary()
		b[0] = Point{-1, -1}
		Expect(g.Boundary()[0]).NotTo(Equal(Point{-1, -1}))
	})

	It("wraps neighbour lookups modulo the lattice size", func() {
		g, _ := NewGrid(5)
		last := g.Size() - 1
		g.cells[last][3] = Occupied
		g.cells[3][last] = Vacant
		nb := g.Neighbors(0, 3)
		Expect(nb[1]).To(Equal(Occupied))
		nb = g.Neighbors(3, 0)
		Expect(nb[3]).To(Equal(Vacant))
		Expect(g.At(-1, 3)).To(Equal(Occupied))
		Expect(g.At(g.Size()+3, last)).To(Equal(Vacant))
	})

	It("reports interior points as in bounds", func() {
		g, _ := NewGrid(4)
		Expect(g.InBounds(g.Center())).To(BeTrue())
		Expect(g.InBounds(Point{0, 4})).To(BeFalse())
		Expect(g.InBounds(Point{4, g.Size() - 1})).To(BeFalse())
		for _, p := range g.ReleaseRegion() {
			Expect(g.InBounds(p)).To(BeTrue())
		}
	})

	It("samples release sites uniformly", func() {
		g, _ := NewGrid(10)
		sites := g.ReleaseRegion()
		k := len(sites)
		perSite := 400
		n := k * perSite

		rng := rand.New(rand.NewSource(2024))
		counts := map[Point]int{}
		for i := 0; i < n; i++ {
			p, ok := g.RandomReleaseSite(rng)
			Expect(ok).To(BeTrue())
			counts[p]++
		}
		Expect(counts).To(HaveLen(k))

		expected := float64(perSite)
		chi2 := 0.0
		for _, p := range sites {
			d := float64(counts[p]) - expected
			chi2 += d * d / expected
		}
		df := float64(k - 1)
		Expect(chi2).To(BeNumerically("<", df+6*math.Sqrt(2*df)))
	})
})
