package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/mcro/internal/cli"
	"github.com/theirongolddev/mcro/internal/model"
	"github.com/theirongolddev/mcro/internal/tui/components"
	"github.com/theirongolddev/mcro/internal/tui/theme"
)

const (
	emptyLogText  = "No logs available.\nLogs will appear when data is added."
	sparklineDays = 14
)

// logState holds the Log tab state.
type logState struct {
	cursor int
	offset int // first visible row
	detail bool
}

func (s *logState) move(delta, n int) {
	s.cursor = min(max(s.cursor+delta, 0), max(n-1, 0))
}

func (a App) selectedDay() (model.DailyLogEntry, bool) {
	if a.logState.cursor < 0 || a.logState.cursor >= len(a.days) {
		return model.DailyLogEntry{}, false
	}
	return a.days[a.logState.cursor], true
}

// updateLogKey handles Log tab keys. The bool is false for keys that fall
// through to global bindings.
func (a App) updateLogKey(key string) (tea.Model, tea.Cmd, bool) {
	ls := &a.logState
	n := len(a.days)

	if ls.detail {
		switch key {
		case "esc", "q", "backspace":
			ls.detail = false
			return a, nil, true
		case "a":
			if e, ok := a.selectedDay(); ok {
				cmd := a.openIntakeForm(e.Date)
				return a, cmd, true
			}
		case "d":
			if e, ok := a.selectedDay(); ok {
				cmd := a.openDeleteForm(e.Date)
				return a, cmd, true
			}
		}
		return a, nil, false
	}

	switch key {
	case "j", "down":
		ls.move(1, n)
	case "k", "up":
		ls.move(-1, n)
	case "g", "home":
		ls.cursor = 0
	case "G", "end":
		ls.move(n, n)
	case "enter":
		if n > 0 {
			ls.detail = true
		}
	case "a":
		day := a.ledger.Today()
		if e, ok := a.selectedDay(); ok {
			day = e.Date
		}
		cmd := a.openIntakeForm(day)
		return a, cmd, true
	case "d":
		if e, ok := a.selectedDay(); ok {
			cmd := a.openDeleteForm(e.Date)
			return a, cmd, true
		}
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) renderLogTab(cw, h int) string {
	t := theme.Active

	if len(a.days) == 0 {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		return components.ContentCard("Log", "\n"+muted.Render(emptyLogText)+"\n", cw)
	}
	if a.logState.detail {
		return a.renderLogDetail(cw)
	}

	trend := a.renderTrend(cw)
	list := a.renderLogList(cw, h-lipgloss.Height(trend))
	return trend + "\n" + list
}

// recentSeries returns per-day values for the n days ending today, oldest
// first. Days without an entry are 0.
func recentSeries(days []model.DailyLogEntry, today time.Time, n int) (protein, calories []float64) {
	byDay := make(map[string]model.DailyLogEntry, len(days))
	for _, e := range days {
		byDay[e.Date.Format(model.DayLayout)] = e
	}

	protein = make([]float64, n)
	calories = make([]float64, n)
	for i := range n {
		day := today.AddDate(0, 0, i-n+1)
		if e, ok := byDay[day.Format(model.DayLayout)]; ok {
			protein[i] = e.ProteinGrams
			calories[i] = e.CalorieKcal
		}
	}
	return protein, calories
}

func (a App) renderTrend(cw int) string {
	t := theme.Active
	g := a.ledger.Goals()
	protein, calories := recentSeries(a.days, a.ledger.Today(), sparklineDays)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface).Render("  ")

	body := labelStyle.Render(fmt.Sprintf("%-9s", "Protein")) + space +
		components.Sparkline(protein, g.ProteinGrams, t.Protein) + "\n" +
		labelStyle.Render(fmt.Sprintf("%-9s", "Calories")) + space +
		components.Sparkline(calories, g.CalorieKcal, t.Calories)

	return components.ContentCard(fmt.Sprintf("Last %d days", sparklineDays), body, cw)
}

func (a App) renderLogList(cw, h int) string {
	t := theme.Active
	ls := a.logState
	innerW := components.CardInnerWidth(cw)
	today := a.ledger.Today()
	goal := a.ledger.Goals()

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	row := func(date, dow, protein, calories, age string) string {
		s := fmt.Sprintf("%-13s %-4s %11s %13s  %s", date, dow, protein, calories, age)
		return fmt.Sprintf("%-*s", innerW, truncStr(s, innerW))
	}

	// card border (2) + title (1) + header (1) + footer (2)
	visible := max(h-6, 3)

	offset := ls.offset
	if ls.cursor < offset {
		offset = ls.cursor
	}
	if ls.cursor >= offset+visible {
		offset = ls.cursor - visible + 1
	}
	end := min(offset+visible, len(a.days))

	var body strings.Builder
	body.WriteString(headerStyle.Render(row("Date", "Day", "Protein", "Calories", "When")))
	body.WriteString("\n")
	for i := offset; i < end; i++ {
		e := a.days[i]
		protein := cli.FormatGrams(e.ProteinGrams)
		if goal.ProteinGrams > 0 && e.ProteinGrams >= goal.ProteinGrams {
			protein = "✓ " + protein
		}
		calories := cli.FormatKcal(e.CalorieKcal)
		line := row(cli.FormatDate(e.Date), cli.FormatDayOfWeek(int(e.Date.Weekday())),
			protein, calories, cli.FormatAge(e.Date, today))
		if i == ls.cursor {
			body.WriteString(selectedStyle.Render(line))
		} else {
			body.WriteString(rowStyle.Render(line))
		}
		body.WriteString("\n")
	}
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(fmt.Sprintf("%d of %d days · %s first", ls.cursor+1, len(a.days), orderLabel(a.order))))

	return components.ContentCard("Log", body.String(), cw)
}

func orderLabel(o model.Order) string {
	if o == model.Ascending {
		return "oldest"
	}
	return "newest"
}

func (a App) renderLogDetail(cw int) string {
	t := theme.Active
	e, ok := a.selectedDay()
	if !ok {
		return ""
	}
	innerW := components.CardInnerWidth(cw)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var body strings.Builder
	body.WriteString(labelStyle.Render("Protein:   ") + valueStyle.Render(cli.FormatGrams(e.ProteinGrams)) + "\n")
	body.WriteString(labelStyle.Render("Calories:  ") + valueStyle.Render(cli.FormatKcal(e.CalorieKcal)) + "\n")
	body.WriteString(labelStyle.Render("Logged:    ") + valueStyle.Render(cli.FormatAge(e.Date, a.ledger.Today())) + "\n\n")
	body.WriteString(goalBars(a.ledger.ProgressOn(e.Date), innerW))
	body.WriteString("\n\n")
	body.WriteString(hintStyle.Render("Measured against the current goals."))

	return components.FocusedCard(cli.FormatLongDate(e.Date), body.String(), cw)
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
