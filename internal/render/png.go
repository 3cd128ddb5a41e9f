// Package render turns lattice snapshots into PNG frames named by walker
// count, ready to be stitched into an animation by an external tool.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/dlasim/internal/dla"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const labelHeight = 18

var (
	Palette = map[dla.Cell]color.RGBA{
		dla.Vacant:    {95, 158, 160, 255},  // cadetblue
		dla.Occupied:  {248, 248, 255, 255}, // ghostwhite
		dla.Forbidden: {176, 224, 230, 255}, // powderblue
	}
	labelBackground = color.RGBA{20, 24, 32, 255}
	labelText       = color.RGBA{235, 235, 235, 255}
)

// PNG writes one <attempts>.png per snapshot into Dir. The directory is
// created on the first render.
type PNG struct {
	Dir      string
	CellSize int

	ready  bool
	frames []string
}

func NewPNG(dir string, cellSize int) *PNG {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &PNG{Dir: dir, CellSize: cellSize}
}

func (r *PNG) Render(s dla.Snapshot) error {
	if !r.ready {
		if err := os.MkdirAll(r.Dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		r.ready = true
	}

	path := filepath.Join(r.Dir, FrameName(s.Attempts))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, Image(s, r.CellSize)); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	r.frames = append(r.frames, path)
	return nil
}

// Frames returns the paths written so far, in render order.
func (r *PNG) Frames() []string {
	return append([]string(nil), r.frames...)
}

func FrameName(attempts int) string {
	return strconv.Itoa(attempts) + ".png"
}

// Label is the caption drawn above each frame.
func Label(s dla.Snapshot) string {
	return fmt.Sprintf("walkers %d  cluster %d", s.Attempts, s.ClusterSize)
}

// Image paints the lattice with one fixed colour per state under a caption
// strip. Row i of the lattice is pixel row i.
func Image(s dla.Snapshot, cellSize int) *image.RGBA {
	n := len(s.Cells)
	label := Label(s)
	labelWidth := font.MeasureString(basicfont.Face7x13, label).Ceil() + 8

	width := max(n*cellSize, labelWidth)
	img := image.NewRGBA(image.Rect(0, 0, width, n*cellSize+labelHeight))
	draw.Draw(img, image.Rect(0, 0, width, labelHeight), image.NewUniform(labelBackground), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, labelHeight, width, img.Bounds().Max.Y), image.NewUniform(Palette[dla.Forbidden]), image.Point{}, draw.Src)

	for i, row := range s.Cells {
		for j, c := range row {
			rect := image.Rect(j*cellSize, labelHeight+i*cellSize, (j+1)*cellSize, labelHeight+(i+1)*cellSize)
			draw.Draw(img, rect, image.NewUniform(Palette[c]), image.Point{}, draw.Src)
		}
	}

	addLabel(img, 4, labelHeight-5, label, labelText)
	return img
}

func addLabel(img *image.RGBA, x, y int, label string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(label)
}

// FrameFiles lists the <count>.png files in dir ordered by their numeric
// stem. Other files are ignored.
func FrameFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type frame struct {
		n    int
		path string
	}
	var frames []frame
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".png") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(e.Name(), ".png"))
		if err != nil {
			continue
		}
		frames = append(frames, frame{n, filepath.Join(dir, e.Name())})
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i].n < frames[j].n })

	out := make([]string, len(frames))
	for i, f := range frames {
		out[i] = f.path
	}
	return out, nil
}
