package dla

import (
	"bytes"
	"errors"
	"log"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type recorder struct {
	snapshots []Snapshot
}

func (r *recorder) Render(s Snapshot) error {
	r.snapshots = append(r.snapshots, s)
	return nil
}

func newEngine(radius int, seed int64, opts Options) *Engine {
	g, err := NewGrid(radius)
	Expect(err).NotTo(HaveOccurred())
	return NewEngine(g, rand.New(rand.NewSource(seed)), opts)
}

var _ = Describe("Engine", func() {
	Context("with radius 5", func() {
		var (
			eng      *Engine
			rec      *recorder
			episodes []Episode
		)

		BeforeEach(func() {
			rec = &recorder{}
			episodes = nil
			eng = newEngine(5, 42, Options{
				Renderer: rec,
				Debug:    true,
				Observers: []Observer{ObserverFunc(func(ep Episode) {
					episodes = append(episodes, ep)
				})},
			})
		})

		It("runs until a walker reaches the forbidden ring", func() {
			res, err := eng.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(Terminated))
			Expect(eng.Halted()).To(BeTrue())
			Expect(res.Attempts).To(BeNumerically("<=", DefaultMaxAttempts))
			Expect(res.Attempts).To(Equal(len(episodes)))

			aggregated, grew := 0, 0
			for _, ep := range episodes {
				if ep.Signal == Sticks || ep.Signal == Terminal {
					aggregated++
				}
				if ep.Grew {
					grew++
				}
			}
			Expect(res.ClusterSize).To(Equal(aggregated))
			Expect(eng.Grid().Count(Occupied)).To(Equal(1 + grew))
		})

		It("counts every aggregated walker once, starting from zero", func() {
			Expect(eng.ClusterSize()).To(BeZero())
			_, err := eng.Run()
			Expect(err).NotTo(HaveOccurred())
			prev := 0
			for _, ep := range episodes {
				if ep.Signal == Escaped {
					Expect(ep.ClusterSize).To(Equal(prev))
				} else {
					Expect(ep.ClusterSize).To(Equal(prev + 1))
				}
				prev = ep.ClusterSize
			}
		})

		It("never refreshes the boundary or release region", func() {
			boundary := eng.Grid().Boundary()
			release := eng.Grid().ReleaseRegion()
			_, err := eng.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(eng.Grid().Count(Occupied)).To(BeNumerically(">", 1))
			Expect(eng.Grid().Boundary()).To(Equal(boundary))
			Expect(eng.Grid().ReleaseRegion()).To(Equal(release))
		})

		It("only grows next to existing growth", func() {
			g := eng.Grid()
			eng.opts.Observers = append(eng.opts.Observers, ObserverFunc(func(ep Episode) {
				if ep.Grew {
					Expect(g.At(ep.End.X, ep.End.Y)).To(Equal(Occupied))
					Expect(g.Neighbors(ep.End.X, ep.End.Y)).To(ContainElement(Occupied))
				}
			}))
			_, err := eng.Run()
			Expect(err).NotTo(HaveOccurred())
		})

		It("terminates exactly when an absorbed cell touches the forbidden ring", func() {
			g := eng.Grid()
			eng.opts.Observers = append(eng.opts.Observers, ObserverFunc(func(ep Episode) {
				if ep.Signal == Escaped {
					Expect(g.At(ep.End.X, ep.End.Y)).To(Equal(Forbidden))
					return
				}
				nb := g.Neighbors(ep.End.X, ep.End.Y)
				Expect(nb).To(ContainElement(Occupied))
				if ep.Signal == Terminal {
					Expect(nb).To(ContainElement(Forbidden))
				} else {
					Expect(ep.Signal).To(Equal(Sticks))
					Expect(nb).NotTo(ContainElement(Forbidden))
				}
			}))
			_, err := eng.Run()
			Expect(err).NotTo(HaveOccurred())

			last := episodes[len(episodes)-1]
			Expect(last.Signal).To(Equal(Terminal))
			for _, ep := range episodes[:len(episodes)-1] {
				Expect(ep.Signal).NotTo(Equal(Terminal))
			}
		})

		It("starts every walker inside the release region", func() {
			release := eng.Grid().ReleaseRegion()
			_, err := eng.Run()
			Expect(err).NotTo(HaveOccurred())
			for _, ep := range episodes {
				Expect(release).To(ContainElement(ep.Start))
			}
		})

		It("renders the first walker and the final state", func() {
			res, err := eng.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.snapshots).NotTo(BeEmpty())
			Expect(rec.snapshots[0].Attempts).To(Equal(1))

			final := rec.snapshots[len(rec.snapshots)-1]
			Expect(final.Attempts).To(Equal(res.Attempts))
			Expect(final.ClusterSize).To(Equal(res.ClusterSize))
			Expect(final.Outcome).To(Equal(Terminated))
			Expect(final.Cells).To(HaveLen(15))
			Expect(final.Cells[7][7]).To(Equal(Occupied))
			Expect(res.Snapshots).To(Equal(len(rec.snapshots)))
		})

		It("refuses to step after the run ends", func() {
			_, err := eng.Run()
			Expect(err).NotTo(HaveOccurred())
			_, err = eng.Step()
			Expect(err).To(MatchError(ErrFinished))
		})
	})

	It("is deterministic for a fixed seed", func() {
		a, err := newEngine(8, 99, Options{}).Run()
		Expect(err).NotTo(HaveOccurred())
		b, err := newEngine(8, 99, Options{}).Run()
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("stops with a warning when the attempt cap is reached", func() {
		var buf bytes.Buffer
		rec := &recorder{}
		eng := newEngine(30, 1, Options{
			MaxAttempts: 3,
			Renderer:    rec,
			Logger:      log.New(&buf, "", 0),
		})
		res, err := eng.Run()
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Outcome).To(Equal(Exhausted))
		Expect(res.Attempts).To(Equal(3))
		Expect(buf.String()).To(ContainSubstring("too many iterations"))

		Expect(rec.snapshots).To(HaveLen(2))
		Expect(rec.snapshots[1].Attempts).To(Equal(3))
		Expect(rec.snapshots[1].Outcome).To(Equal(Exhausted))
	})

	It("renders on the configured cadence", func() {
		rec := &recorder{}
		eng := newEngine(30, 5, Options{
			MaxAttempts:      5,
			SnapshotInterval: 2,
			Renderer:         rec,
		})
		_, err := eng.Run()
		Expect(err).NotTo(HaveOccurred())

		var at []int
		for _, s := range rec.snapshots {
			at = append(at, s.Attempts)
		}
		Expect(at).To(Equal([]int{1, 3, 5}))
	})

	It("keeps the frozen sets through a radius 8 run", func() {
		eng := newEngine(8, 13, Options{})
		boundary := eng.Grid().Boundary()
		release := eng.Grid().ReleaseRegion()
		res, err := eng.Run()
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Outcome).To(Equal(Terminated))
		Expect(eng.Grid().Boundary()).To(Equal(boundary))
		Expect(eng.Grid().ReleaseRegion()).To(Equal(release))
	})

	It("counts a walker released onto an already occupied site", func() {
		eng := newEngine(5, 1, Options{})
		c := eng.Grid().Center()
		site := Point{c.X + 1, c.Y}
		eng.grid.cells[site.X][site.Y] = Occupied
		eng.grid.release = []Point{site}

		ep, err := eng.Step()
		Expect(err).NotTo(HaveOccurred())
		Expect(ep.Signal).To(Equal(Sticks))
		Expect(ep.Start).To(Equal(site))
		Expect(ep.End).To(Equal(site))
		Expect(ep.Grew).To(BeFalse())
		Expect(ep.ClusterSize).To(Equal(1))
		Expect(eng.ClusterSize()).To(Equal(1))
		Expect(eng.Grid().Count(Occupied)).To(Equal(2))
	})

	It("rejects a run with no release sites", func() {
		eng := newEngine(2, 1, Options{})
		_, err := eng.Run()
		Expect(err).To(MatchError(ErrEmptyReleaseRegion))
		Expect(eng.Attempts()).To(BeZero())
	})

	It("propagates renderer failures", func() {
		boom := errors.New("disk full")
		eng := newEngine(6, 1, Options{
			Renderer: RendererFunc(func(Snapshot) error { return boom }),
		})
		_, err := eng.Run()
		Expect(err).To(MatchError(boom))
		Expect(eng.Attempts()).To(Equal(1))
	})

	Context("debug bounds checking", func() {
		It("flags a walker whose lookups would wrap", func() {
			eng := newEngine(5, 1, Options{Debug: true})
			eng.grid.release = []Point{{0, 5}}
			_, err := eng.Step()

			var wrapErr *WraparoundError
			Expect(errors.As(err, &wrapErr)).To(BeTrue())
			Expect(err).To(MatchError(ErrWraparound))
			Expect(wrapErr.Walker).To(Equal(Point{0, 5}))
			Expect(wrapErr.Lookup).To(Equal(Point{-1, 5}))
		})

		It("lets the same walker escape without debug", func() {
			eng := newEngine(5, 1, Options{})
			eng.grid.release = []Point{{0, 5}}
			ep, err := eng.Step()
			Expect(err).NotTo(HaveOccurred())
			Expect(ep.Signal).To(Equal(Escaped))
			Expect(eng.ClusterSize()).To(BeZero())
		})

		It("never trips during legitimate runs", func() {
			for seed := int64(0); seed < 5; seed++ {
				_, err := newEngine(12, seed, Options{Debug: true}).Run()
				Expect(err).NotTo(HaveOccurred())
			}
		})
	})
})
