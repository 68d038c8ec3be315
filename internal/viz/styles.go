package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/orbitsim/internal/celestial"
)

var (
	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	StatusFailed = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(10)

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

var white = colorful.Color{R: 1, G: 1, B: 1}

// HintColor turns a display hint into a terminal colour. Very dark hints
// (black holes, bare rock) are lifted so they stay visible on a dark
// background.
func HintColor(h celestial.Hint) colorful.Color {
	c := colorful.Color{R: h.Color[0], G: h.Color[1], B: h.Color[2]}.Clamped()
	if _, _, l := c.Hcl(); l < 0.4 {
		c = c.BlendLab(white, 0.4)
	}
	return c.Clamped()
}

// BodyStyle renders text in the body's hint colour.
func BodyStyle(h celestial.Hint) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(HintColor(h).Hex()))
}

// GradientText colours each rune of text along a Lab blend between two hex
// colours. Unparseable colours fall back to white.
func GradientText(text, from, to string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	start, err := colorful.Hex(from)
	if err != nil {
		start = white
	}
	end, err := colorful.Hex(to)
	if err != nil {
		end = white
	}

	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := start.BlendLab(end, t).Clamped()
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return b.String()
}

// ProgressBar renders a bar filled to percent (0..1).
func ProgressBar(percent float64, width int) string {
	filled := min(max(int(percent*float64(width)), 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case percent > 0.8:
		return SparkHigh.Render(bar)
	case percent > 0.4:
		return SparkMid.Render(bar)
	}
	return SparkLow.Render(bar)
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders the last width values as block characters scaled
// between their minimum and maximum.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}
	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(sparkChars)-1))
		b.WriteRune(sparkChars[min(max(idx, 0), len(sparkChars)-1)])
	}
	return b.String()
}

func Separator(width int) string {
	mid := width / 2
	return Subtle.Render(strings.Repeat("─", max(mid-3, 0)) + " ◆ " + strings.Repeat("─", max(width-mid-3, 0)))
}
