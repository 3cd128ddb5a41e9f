package export

import (
	"fmt"
	"io"

	"github.com/san-kum/dlasim/internal/metrics"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// GrowthChartPNG plots cluster size against walkers released.
func GrowthChartPNG(w io.Writer, points []metrics.GrowthPoint, width, height int) error {
	if len(points) < 2 {
		return fmt.Errorf("need at least 2 growth points, got %d", len(points))
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	maxX, maxY := 1.0, 1.0
	for i, p := range points {
		xs[i] = float64(p.Attempts)
		ys[i] = float64(p.ClusterSize)
		maxX = max(maxX, xs[i])
		maxY = max(maxY, ys[i])
	}

	graph := chart.Chart{
		Width:  width,
		Height: height,
		XAxis: chart.XAxis{
			Name:  "walkers released",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: maxX},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "cluster size",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: maxY * 1.05},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "cluster size",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: drawing.Color{R: 95, G: 158, B: 160, A: 255},
					StrokeWidth: 2.0,
				},
			},
		},
	}

	return graph.Render(chart.PNG, w)
}
