package metrics

import "github.com/san-kum/dlasim/internal/dla"

type GrowthPoint struct {
	Attempts    int `json:"attempts"`
	ClusterSize int `json:"cluster_size"`
}

// Growth records the aggregated-walker count after every aggregation, plus
// the last episode seen, so the curve always ends at the final walker count.
type Growth struct {
	points []GrowthPoint
	last   GrowthPoint
}

func NewGrowth() *Growth {
	return &Growth{}
}

func (g *Growth) OnEpisode(ep dla.Episode) {
	g.last = GrowthPoint{ep.Attempt, ep.ClusterSize}
	if ep.Signal == dla.Sticks || ep.Signal == dla.Terminal {
		g.points = append(g.points, g.last)
	}
}

// Points returns the recorded curve, starting from (0, 0). When the final
// episode escaped it is appended so the series spans the whole run.
func (g *Growth) Points() []GrowthPoint {
	out := make([]GrowthPoint, 0, len(g.points)+2)
	out = append(out, GrowthPoint{0, 0})
	out = append(out, g.points...)
	if g.last.Attempts > 0 && out[len(out)-1] != g.last {
		out = append(out, g.last)
	}
	return out
}

func (g *Growth) Reset() {
	g.points = nil
	g.last = GrowthPoint{}
}
