package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/dlasim/internal/dla"
)

var svgFill = map[dla.Cell]string{
	dla.Vacant:    "#5f9ea0",
	dla.Occupied:  "#f8f8ff",
	dla.Forbidden: "#b0e0e6",
}

// LatticeSVG renders a lattice as one square per non-vacant cell on a
// vacant-coloured background.
func LatticeSVG(cells [][]dla.Cell, scale float64) string {
	if len(cells) == 0 {
		return ""
	}

	size := float64(len(cells)) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, size, size, size, size, svgFill[dla.Vacant]))

	for _, state := range []dla.Cell{dla.Forbidden, dla.Occupied} {
		sb.WriteString(fmt.Sprintf("<g fill=\"%s\">\n", svgFill[state]))
		for i, row := range cells {
			for j, c := range row {
				if c != state {
					continue
				}
				sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>
`, float64(j)*scale, float64(i)*scale, scale, scale))
			}
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SVGRenderer is a dla.Renderer writing <attempts>.svg frames.
type SVGRenderer struct {
	Dir   string
	Scale float64
	ready bool
}

func NewSVGRenderer(dir string, scale float64) *SVGRenderer {
	if scale <= 0 {
		scale = 1
	}
	return &SVGRenderer{Dir: dir, Scale: scale}
}

func (r *SVGRenderer) Render(s dla.Snapshot) error {
	if !r.ready {
		if err := os.MkdirAll(r.Dir, 0755); err != nil {
			return err
		}
		r.ready = true
	}
	path := filepath.Join(r.Dir, strconv.Itoa(s.Attempts)+".svg")
	return os.WriteFile(path, []byte(LatticeSVG(s.Cells, r.Scale)), 0644)
}
