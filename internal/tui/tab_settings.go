package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/mcro/internal/cli"
	"github.com/theirongolddev/mcro/internal/config"
	"github.com/theirongolddev/mcro/internal/model"
	"github.com/theirongolddev/mcro/internal/store"
	"github.com/theirongolddev/mcro/internal/tui/components"
	"github.com/theirongolddev/mcro/internal/tui/theme"
)

const (
	settingsFieldTheme = iota
	settingsFieldHistoryOrder
	settingsFieldLogLevel
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool
	saveErr error
}

type settingsField struct {
	label   string
	choices []string
}

var settingsFields = [settingsFieldCount]settingsField{
	settingsFieldTheme:        {"Theme", config.Themes},
	settingsFieldHistoryOrder: {"History order", config.HistoryOrders},
	settingsFieldLogLevel:     {"Log level", config.LogLevels},
}

func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

func (a App) settingValue(field int) string {
	cfg := loadConfigOrDefault()
	switch field {
	case settingsFieldTheme:
		return theme.Active.Name
	case settingsFieldHistoryOrder:
		return a.order.String()
	case settingsFieldLogLevel:
		return cfg.Log.Level
	}
	return ""
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.editing = true
	a.settings.saved = false

	f := settingsFields[a.settings.cursor]
	ti := textinput.New()
	ti.CharLimit = 32
	ti.Width = 30
	ti.Placeholder = strings.Join(f.choices, ", ")
	ti.SetValue(a.settingValue(a.settings.cursor))
	ti.Focus()

	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave validates the edited value against the field's choices,
// applies it to the running app and writes the config file.
func (a *App) settingsSave() {
	field := a.settings.cursor
	val := strings.ToLower(strings.TrimSpace(a.settings.input.Value()))
	if !slices.Contains(settingsFields[field].choices, val) {
		a.settings.saveErr = fmt.Errorf("%q is not one of %s", val, strings.Join(settingsFields[field].choices, ", "))
		return
	}

	a.settings.saveErr = a.saveConfig(func(cfg *config.Config) {
		switch field {
		case settingsFieldTheme:
			cfg.Appearance.Theme = val
		case settingsFieldHistoryOrder:
			cfg.General.HistoryOrder = val
		case settingsFieldLogLevel:
			cfg.Log.Level = val
		}
	})

	switch field {
	case settingsFieldTheme:
		theme.SetActive(val)
		a.spinner.Style = a.spinner.Style.Foreground(theme.Active.Accent).Background(theme.Active.Surface)
	case settingsFieldHistoryOrder:
		a.order = model.ParseOrder(val)
		a.logState.cursor = 0
		a.refresh()
	}
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	innerW := components.CardInnerWidth(cw)

	var form strings.Builder
	for i, f := range settingsFields {
		value := a.settingValue(i)

		switch {
		case a.settings.editing && i == a.settings.cursor:
			form.WriteString(markerStyle.Render("▸ "))
			form.WriteString(accentStyle.Render(fmt.Sprintf("%-16s ", f.label)))
			form.WriteString(a.settings.input.View())

		case i == a.settings.cursor:
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-16s ", f.label+":"))
			val := selectedStyle.Render(value)
			form.WriteString(marker + label + val)
			if pad := innerW - lipgloss.Width(marker) - lipgloss.Width(label) - lipgloss.Width(val); pad > 0 {
				form.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}

		default:
			form.WriteString(valueStyle.Render("  "))
			form.WriteString(labelStyle.Render(fmt.Sprintf("%-16s ", f.label+":")))
			form.WriteString(valueStyle.Render(value))
		}
		form.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		form.WriteString("\n")
		form.WriteString(warnStyle.Render("Not saved: " + a.settings.saveErr.Error()))
	} else if a.settings.saved {
		form.WriteString("\n")
		form.WriteString(greenStyle.Render("Saved!"))
		if a.settings.cursor == settingsFieldLogLevel {
			form.WriteString(labelStyle.Render(" Log level applies on next launch."))
		}
	}
	form.WriteString("\n")
	form.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	g := a.ledger.Goals()
	rows := []struct{ label, value string }{
		{"Protein goal:", cli.FormatGrams(g.ProteinGrams)},
		{"Calorie goal:", cli.FormatKcal(g.CalorieKcal)},
		{"Days logged:", cli.FormatNumber(int64(a.ledger.Len()))},
		{"Data directory:", a.opts.DataDir},
		{"Backend:", a.opts.Backend},
		{"Data file:", store.Path(a.opts.Backend, a.opts.DataDir)},
		{"Config file:", config.ConfigPath()},
	}
	var info strings.Builder
	for i, r := range rows {
		info.WriteString(labelStyle.Render(fmt.Sprintf("%-16s ", r.label)))
		info.WriteString(valueStyle.Render(truncStr(r.value, innerW-17)))
		if i < len(rows)-1 {
			info.WriteString("\n")
		}
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", form.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", info.String(), cw))
	return b.String()
}
