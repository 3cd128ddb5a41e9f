// Package viz draws a growing cluster in the terminal.
//
// The lattice is plotted on a Braille [Canvas], one dot per lattice cell
// (or per block of cells on large lattices), next to a lipgloss status
// panel. [Model] is a Bubble Tea model that advances the engine a batch of
// walkers per frame.
//
// # Key Bindings
//
//	Space - Pause/Resume growth
//	+ / - - Double/halve walkers per frame
//	Q     - Quit
package viz
