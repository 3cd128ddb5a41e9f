package dla

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Classify", func() {
	DescribeTable("signal precedence",
		func(current Cell, neighbors [4]Cell, want Signal) {
			Expect(Classify(current, neighbors)).To(Equal(want))
		},
		Entry("forbidden cell escapes", Forbidden, [4]Cell{Occupied, Forbidden, Vacant, Vacant}, Escaped),
		Entry("forbidden cell escapes with vacant neighbours", Forbidden, [4]Cell{}, Escaped),
		Entry("occupied and forbidden neighbours terminate", Vacant, [4]Cell{Vacant, Forbidden, Vacant, Occupied}, Terminal),
		Entry("order does not matter for terminal", Vacant, [4]Cell{Occupied, Vacant, Forbidden, Vacant}, Terminal),
		Entry("occupied neighbour sticks", Vacant, [4]Cell{Vacant, Vacant, Occupied, Vacant}, Sticks),
		Entry("several occupied neighbours stick", Vacant, [4]Cell{Occupied, Occupied, Vacant, Occupied}, Sticks),
		Entry("forbidden neighbour alone continues", Vacant, [4]Cell{Forbidden, Vacant, Vacant, Vacant}, Continue),
		Entry("all vacant continues", Vacant, [4]Cell{}, Continue),
		Entry("occupied cell with occupied neighbour sticks", Occupied, [4]Cell{Occupied, Vacant, Vacant, Vacant}, Sticks),
	)

	It("names every signal", func() {
		Expect(Continue.String()).To(Equal("continue"))
		Expect(Sticks.String()).To(Equal("sticks"))
		Expect(Terminal.String()).To(Equal("terminal"))
		Expect(Escaped.String()).To(Equal("escaped"))
	})
})

var _ = Describe("Walker", func() {
	It("moves exactly one lattice unit per step", func() {
		w := NewWalker(10, 10, rand.New(rand.NewSource(7)))
		for i := 0; i < 1000; i++ {
			before := w.Pos()
			w.Walk(1)
			after := w.Pos()
			dist := abs(after.X-before.X) + abs(after.Y-before.Y)
			Expect(dist).To(Equal(1))
		}
	})

	It("does not clamp positions", func() {
		w := NewWalker(0, 0, rand.New(rand.NewSource(3)))
		w.Walk(500)
		Expect(abs(w.X) + abs(w.Y)).To(BeNumerically("<=", 500))
	})

	It("picks the four directions with equal probability", func() {
		const n = 40000
		w := NewWalker(0, 0, rand.New(rand.NewSource(11)))
		counts := map[Point]int{}
		for i := 0; i < n; i++ {
			before := w.Pos()
			w.Walk(1)
			counts[Point{w.X - before.X, w.Y - before.Y}]++
		}
		Expect(counts).To(HaveLen(4))
		for _, c := range counts {
			Expect(float64(c) / n).To(BeNumerically("~", 0.25, 0.02))
		}
	})
})

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
