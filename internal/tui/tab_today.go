package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/mcro/internal/cli"
	"github.com/theirongolddev/mcro/internal/model"
	"github.com/theirongolddev/mcro/internal/tui/components"
	"github.com/theirongolddev/mcro/internal/tui/theme"
)

const goalLabelW = 9

// goalBars renders the protein and calorie rows for one day's progress.
func goalBars(pr model.Progress, innerW int) string {
	t := theme.Active

	proteinDetail := cli.FormatOfGoal(pr.ProteinIntake, pr.ProteinGoal) + " g"
	calorieDetail := cli.FormatOfGoal(pr.CalorieIntake, pr.CalorieGoal) + " kcal"
	detailW := max(lipgloss.Width(proteinDetail), lipgloss.Width(calorieDetail))

	// label, space, bar, space, "100%" or "no goal", two spaces, detail
	barW := max(innerW-goalLabelW-1-1-7-2-detailW, 10)

	return components.GoalBar("Protein", pr.ProteinRatio, t.Protein, proteinDetail, pr.ProteinGoal > 0, goalLabelW, barW) +
		"\n" +
		components.GoalBar("Calories", pr.CalorieRatio, t.Calories, calorieDetail, pr.CalorieGoal > 0, goalLabelW, barW)
}

// remaining describes how much is left to reach goal.
func remaining(intake, goal float64, format func(float64) string) components.Metric {
	switch {
	case goal <= 0:
		return components.Metric{Value: "-", Note: "no goal set"}
	case intake >= goal:
		return components.Metric{Value: "goal met", Note: format(intake-goal) + " over"}
	default:
		return components.Metric{Value: format(goal - intake), Note: "of " + format(goal)}
	}
}

func (a App) renderTodayTab(cw int) string {
	t := theme.Active
	today := a.ledger.Today()
	pr := a.ledger.ProgressForToday()
	innerW := components.CardInnerWidth(cw)

	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	var body strings.Builder
	body.WriteString("\n")
	body.WriteString(goalBars(pr, innerW))
	body.WriteString("\n\n")
	if !a.ledger.Goals().IsSet() {
		body.WriteString(hintStyle.Render("No goals set. Press ") + keyStyle.Render("e") + hintStyle.Render(" to set them."))
	} else {
		body.WriteString(keyStyle.Render("a") + hintStyle.Render(" add intake   ") +
			keyStyle.Render("e") + hintStyle.Render(" edit goals"))
	}

	protein := remaining(pr.ProteinIntake, pr.ProteinGoal, cli.FormatGrams)
	protein.Label = "Protein to go"
	calories := remaining(pr.CalorieIntake, pr.CalorieGoal, cli.FormatKcal)
	calories.Label = "Calories to go"

	logged := components.Metric{Label: "Days logged", Value: cli.FormatNumber(int64(a.ledger.Len()))}
	if n := len(a.days); n > 0 {
		first := a.days[0].Date
		if a.order == model.Descending {
			first = a.days[n-1].Date
		}
		logged.Note = "since " + cli.FormatDate(first)
	}

	var b strings.Builder
	b.WriteString(components.FocusedCard("Today · "+cli.FormatLongDate(today), body.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.MetricCardRow([]components.Metric{protein, calories, logged}, cw))
	return b.String()
}
