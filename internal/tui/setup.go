package tui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/mcro/internal/cli"
	"github.com/theirongolddev/mcro/internal/model"
	"github.com/theirongolddev/mcro/internal/tui/theme"
)

// GoalValues holds the raw text entered in the goals form.
type GoalValues struct {
	Protein  string
	Calories string
	Theme    string
}

// GoalValuesFrom prefills the form with the current goals. Unset goals
// stay empty so the placeholder shows.
func GoalValuesFrom(g model.Goal) GoalValues {
	return GoalValues{
		Protein:  amountText(g.ProteinGrams),
		Calories: amountText(g.CalorieKcal),
		Theme:    theme.Active.Name,
	}
}

// Parse returns the accepted goal components; nil means "leave unchanged".
func (v GoalValues) Parse() (protein, calories *float64) {
	return cli.ParseAmount(v.Protein), cli.ParseAmount(v.Calories)
}

func amountText(v float64) string {
	if v <= 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// NewSetupForm builds the goals form. With withTheme the form also offers
// the color theme, as used by first-run setup.
func NewSetupForm(vals *GoalValues, withTheme bool) *huh.Form {
	goals := huh.NewGroup(
		huh.NewNote().
			Title("Daily goals").
			Description("Set how much protein and energy you aim for each day.\nLeave a field blank to keep its current value."),

		huh.NewInput().
			Title("Protein goal (g)").
			Placeholder("150").
			Value(&vals.Protein),

		huh.NewInput().
			Title("Calorie goal (kcal)").
			Placeholder("2000").
			Value(&vals.Calories),
	)

	if !withTheme {
		return huh.NewForm(goals).WithShowHelp(false)
	}

	return huh.NewForm(
		goals,
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&vals.Theme),
		),
	).WithShowHelp(false)
}

// IntakeValues holds the raw text entered in the add-intake form.
type IntakeValues struct {
	Protein  string
	Calories string
}

// Amounts returns the entered amounts; anything that is not a non-negative
// number counts as 0.
func (v IntakeValues) Amounts() (protein, calories float64) {
	if p := cli.ParseAmount(v.Protein); p != nil {
		protein = *p
	}
	if c := cli.ParseAmount(v.Calories); c != nil {
		calories = *c
	}
	return protein, calories
}

func newIntakeForm(vals *IntakeValues, day time.Time) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Add intake").
				Description("Adds to the totals for " + cli.FormatLongDate(day) + "."),

			huh.NewInput().
				Title("Protein (g)").
				Placeholder("0").
				Value(&vals.Protein),

			huh.NewInput().
				Title("Calories (kcal)").
				Placeholder("0").
				Value(&vals.Calories),
		),
	).WithShowHelp(false)
}

func newDeleteForm(confirm *bool, day time.Time) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete the log for " + cli.FormatDate(day) + "?").
				Affirmative("Delete").
				Negative("Keep").
				Value(confirm),
		),
	).WithShowHelp(false)
}
