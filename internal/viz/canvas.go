package viz

import (
	"math"
	"strings"

	"github.com/san-kum/dlasim/internal/dla"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// CanvasFor sizes a canvas to hold an n×n lattice with at most maxCols
// characters per row, and returns how many lattice cells share one dot.
func CanvasFor(n, maxCols int) (*Canvas, int) {
	scale := 1
	for (n+scale-1)/scale > maxCols*2 {
		scale++
	}
	dots := (n + scale - 1) / scale
	return NewCanvas((dots+1)/2, (dots+3)/4), scale
}

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the sub-pixel (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// PlotCluster lights one dot per block of scale×scale cells that holds an
// occupied cell. Lattice row i maps to sub-pixel row i/scale.
func (c *Canvas) PlotCluster(g *dla.Grid, scale int) {
	n := g.Size()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if g.At(i, j) == dla.Occupied {
				c.Set(j/scale, i/scale)
			}
		}
	}
}

// DrawCircle outlines a circle with the midpoint algorithm.
func (c *Canvas) DrawCircle(cx, cy, r int) {
	x, y := r, 0
	err := 1 - r
	for x >= y {
		for _, p := range [8][2]int{
			{cx + x, cy + y}, {cx + y, cy + x}, {cx - y, cy + x}, {cx - x, cy + y},
			{cx - x, cy - y}, {cx - y, cy - x}, {cx + y, cy - x}, {cx + x, cy - y},
		} {
			c.Set(p[0], p[1])
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

// DrawDomain plots the cluster and the aggregation radius outline.
func (c *Canvas) DrawDomain(g *dla.Grid, scale int) {
	c.Clear()
	ctr := g.Center()
	r := int(math.Round(float64(g.Radius()+1) / float64(scale)))
	c.DrawCircle(ctr.Y/scale, ctr.X/scale, r)
	c.PlotCluster(g, scale)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}
