package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/mcro/internal/tui/theme"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders one block character per value, scaled to the peak.
// If ceiling is positive and above the peak it is used as the scale instead,
// so a goal line maps to the full block.
func Sparkline(values []float64, ceiling float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := max(ceiling, 0)
	for _, v := range values {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	top := len(sparkBlocks) - 1
	for _, v := range values {
		idx := min(max(int(v/peak*float64(top)), 0), top)
		buf.WriteRune(sparkBlocks[idx])
	}

	return style.Render(buf.String())
}
