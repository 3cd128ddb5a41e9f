// Package dla implements on-lattice diffusion-limited aggregation.
//
// A square lattice of side 2R+5 holds a single occupied seed at its centre,
// surrounded by a forbidden ring of every cell farther than R from the seed.
// Walkers are released from a fixed set of sites just inside that ring and
// wander until they either touch the cluster and stick, leave the domain, or
// stick at a spot that also touches the forbidden ring, which ends the run.
//
//   - [Cell]: the three lattice states
//   - [Grid]: the lattice together with its boundary and release region
//   - [Walker]: a single random walker
//   - [Classify]: maps a walker's surroundings to a [Signal]
//   - [Engine]: the episode loop that grows the cluster
//
// # Example
//
//	grid, _ := dla.NewGrid(50)
//	eng := dla.NewEngine(grid, rand.New(rand.NewSource(1)), dla.Options{})
//	res, _ := eng.Run()
//
// # Frozen derived sets
//
// The boundary and the release region are computed once, from the seed-only
// lattice, and never refreshed as the cluster grows. Late walkers can
// therefore be released onto sites the cluster already reached.
//
// # Thread Safety
//
// Grid and Engine are NOT thread-safe. An engine owns its grid and is the
// only writer to it.
package dla
