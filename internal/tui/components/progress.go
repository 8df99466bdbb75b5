package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/mcro/internal/tui/theme"
)

func clampRatio(r float64) float64 {
	return min(max(r, 0), 1)
}

// ColorForRatio returns the bar fill for a goal ratio: the base color while
// the goal is open, green once it is met.
func ColorForRatio(ratio float64, base lipgloss.Color) lipgloss.Color {
	if ratio >= 1 {
		return theme.Active.GreenBright
	}
	return base
}

// GoalBar renders one labeled goal row:
//
//	Protein   ████████████░░░░░░░░  73%  110/150 g
//
// detail is printed after the percentage; an empty goal renders a dimmed
// bar and "no goal" instead of a percentage.
func GoalBar(label string, ratio float64, color lipgloss.Color, detail string, goalSet bool, labelW, barW int) string {
	t := theme.Active
	ratio = clampRatio(ratio)
	fill := ColorForRatio(ratio, color)
	if !goalSet {
		fill = t.TextDim
	}

	bar := progress.New(
		progress.WithSolidFill(string(fill)),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(fill).Background(t.Surface).Bold(true)
	detailStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	pct := fmt.Sprintf("%3.0f%%", ratio*100)
	if !goalSet {
		pct = "no goal"
	}

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(ratio) +
		spaceStyle.Render(" ") +
		pctStyle.Render(pct) +
		spaceStyle.Render("  ") +
		detailStyle.Render(detail)
}

// CompactGoalBar renders a small status-bar-sized indicator.
func CompactGoalBar(label string, ratio float64, color lipgloss.Color, width int) string {
	t := theme.Active
	ratio = clampRatio(ratio)
	fill := ColorForRatio(ratio, color)

	barW := max(width-lipgloss.Width(label)-6, 4)

	bar := progress.New(
		progress.WithSolidFill(string(fill)),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(fill).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(label) +
		spaceStyle.Render(" ") +
		bar.ViewAs(ratio) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", ratio*100))
}
