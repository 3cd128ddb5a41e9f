package metrics

import "github.com/san-kum/dlasim/internal/dla"

// EscapeRatio is the fraction of walkers that left the domain.
type EscapeRatio struct {
	name    string
	escaped int
	total   int
}

func NewEscapeRatio() *EscapeRatio {
	return &EscapeRatio{name: "escape_ratio"}
}

func (e *EscapeRatio) Name() string { return e.name }

func (e *EscapeRatio) Observe(ep dla.Episode) {
	e.total++
	if ep.Signal == dla.Escaped {
		e.escaped++
	}
}

func (e *EscapeRatio) Value() float64 {
	if e.total == 0 {
		return 0
	}
	return float64(e.escaped) / float64(e.total)
}

func (e *EscapeRatio) Reset() {
	e.escaped = 0
	e.total = 0
}

// MeanSteps is the average walk length per walker.
type MeanSteps struct {
	name    string
	steps   int
	samples int
}

func NewMeanSteps() *MeanSteps {
	return &MeanSteps{name: "mean_steps"}
}

func (m *MeanSteps) Name() string { return m.name }

func (m *MeanSteps) Observe(ep dla.Episode) {
	m.steps += ep.Steps
	m.samples++
}

func (m *MeanSteps) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.steps) / float64(m.samples)
}

func (m *MeanSteps) Reset() {
	m.steps = 0
	m.samples = 0
}
