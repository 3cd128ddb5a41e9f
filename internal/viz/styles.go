package viz

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	GradientTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff"))
	Subtle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	KeyHint       = Subtle.Italic(true)

	StatusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	StatusPaused  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	StatusStopped = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))

	MetricLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899")).Width(12)
	MetricValue = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff"))

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// ProgressBar fills fraction of width. The colour runs from green to red
// as the bar fills, since a full bar means the walker cap is near.
func ProgressBar(fraction float64, width int) string {
	fraction = min(max(fraction, 0), 1)
	filled := int(fraction * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return levelStyle(1 - fraction).Render(bar)
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// SparklineChart draws the most recent width values, one rune each, scaled
// between their minimum and maximum.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := slices.Min(values), slices.Max(values)
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	top := len(sparkRunes) - 1
	for _, v := range values {
		level := (v - lo) / span
		r := string(sparkRunes[int(level*float64(top))])
		b.WriteString(levelStyle(level).Render(r))
	}
	return b.String()
}

func levelStyle(level float64) lipgloss.Style {
	switch {
	case level > 0.7:
		return SparkHigh
	case level > 0.3:
		return SparkMid
	default:
		return SparkLow
	}
}

// Separator draws a decorated horizontal rule.
func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}
