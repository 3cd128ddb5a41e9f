package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dlasim/internal/dla"
	"github.com/san-kum/dlasim/internal/experiment"
)

const (
	maxCanvasCols   = 60
	historyCapacity = 600
	maxBatch        = 1 << 16
	defaultBatch    = 16
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

type TickMsg time.Time

// Model drives an experiment's engine from the Bubble Tea event loop.
type Model struct {
	exp     *experiment.Experiment
	engine  *dla.Engine
	canvas  *Canvas
	scale   int
	batch   int
	running bool
	err     error
	// cluster size sampled once per tick
	history []float64
}

// NewModel wraps an experiment that has already been Setup.
func NewModel(exp *experiment.Experiment) Model {
	eng := exp.Engine()
	canvas, scale := CanvasFor(eng.Grid().Size(), maxCanvasCols)
	return Model{
		exp:     exp,
		engine:  eng,
		canvas:  canvas,
		scale:   scale,
		batch:   defaultBatch,
		running: true,
		history: make([]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "+", "=":
			m.batch = min(m.batch*2, maxBatch)
		case "-", "_":
			m.batch = max(m.batch/2, 1)
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

// advance releases up to batch walkers. The first error freezes the model.
func (m *Model) advance() {
	if m.err != nil || m.engine.Done() {
		return
	}
	for i := 0; i < m.batch && !m.engine.Done(); i++ {
		if _, err := m.engine.Step(); err != nil {
			m.err = err
			break
		}
	}
	m.history = append(m.history, float64(m.engine.ClusterSize()))
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return StatusStopped.Render("ERROR")
	case m.engine.Done():
		return StatusStopped.Render(strings.ToUpper(m.engine.Outcome().String()))
	case !m.running:
		return StatusPaused.Render("PAUSED")
	default:
		return StatusRunning.Render("GROWING")
	}
}

func (m Model) View() string {
	m.canvas.DrawDomain(m.engine.Grid(), m.scale)
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(GradientTitle.Render(fmt.Sprintf("DLA  R=%d", m.engine.Grid().Radius())) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Cluster"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Walkers", fmt.Sprintf("%d", m.engine.Attempts()))
	row("Aggregated", fmt.Sprintf("%d", m.engine.ClusterSize()))
	row("Per frame", fmt.Sprintf("%d", m.batch))
	if m.scale > 1 {
		row("Scale", fmt.Sprintf("1:%d", m.scale))
	}
	vals := m.exp.Collect().Metrics
	for _, k := range [][2]string{{"max_radius", "Max radius"}, {"fractal_dimension", "Dimension"}} {
		if v, ok := vals[k[0]]; ok {
			row(k[1], fmt.Sprintf("%.3f", v))
		}
	}

	used := float64(m.engine.Attempts()) / float64(m.engine.MaxAttempts())
	s.WriteString("\n" + MetricLabel.Render("Cap") + ProgressBar(used, 20) + "\n")
	s.WriteString(MetricLabel.Render("Growth") + SparklineChart(m.history, 20) + "\n")

	if m.err != nil {
		s.WriteString("\n" + errStyle.Render(m.err.Error()) + "\n")
	}

	s.WriteString("\n" + Separator(30) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause  +/-:Speed  Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// Err returns the error that stopped the engine, if any.
func (m Model) Err() error { return m.err }

// Run opens the live view and blocks until the user quits.
func Run(exp *experiment.Experiment) (*experiment.Result, error) {
	final, err := tea.NewProgram(NewModel(exp), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return exp.Collect(), m.err
	}
	return exp.Collect(), nil
}
