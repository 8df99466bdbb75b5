package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/mcro/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints on the left and
// a status note on the right. A warning note is drawn in the warning color.
func RenderStatusBar(width int, hints, note string, warn bool) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	noteStyle := base
	if warn {
		noteStyle = lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Bold(true)
	}

	left := base.Render(" " + hints)
	right := ""
	if note != "" {
		right = noteStyle.Render(note + " ")
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)

	return left + base.Render(strings.Repeat(" ", padding)) + right
}
