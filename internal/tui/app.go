// Package tui provides the interactive Bubble Tea dashboard for mcro.
package tui

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/mcro/internal/cli"
	"github.com/theirongolddev/mcro/internal/config"
	"github.com/theirongolddev/mcro/internal/ledger"
	"github.com/theirongolddev/mcro/internal/model"
	"github.com/theirongolddev/mcro/internal/tui/components"
	"github.com/theirongolddev/mcro/internal/tui/theme"
)

// Options configures the dashboard.
type Options struct {
	HistoryOrder model.Order
	// WatchPath is the store file to watch for writes by other processes.
	// Empty disables live reload.
	WatchPath string
	DataDir   string
	Backend   string
	Logger    *slog.Logger
}

const (
	tabToday = iota
	tabLog
	tabSettings
)

type formKind int

const (
	formNone formKind = iota
	formWelcome
	formGoals
	formIntake
	formDelete
)

// App is the root Bubble Tea model.
type App struct {
	ledger *ledger.Ledger
	opts   Options
	log    *slog.Logger

	// History snapshot in display order, refreshed after every change
	order model.Order
	days  []model.DailyLogEntry

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	logState logState
	settings settingsState

	// Active huh form. Values live behind pointers so the form keeps
	// writing to the same place as the App is copied through Update.
	form       *huh.Form
	formKind   formKind
	goalVals   *GoalValues
	intakeVals *IntakeValues
	confirmDel *bool
	formDay    time.Time

	// Live reload
	watcher      *storeWatcher
	spinner      spinner.Model
	syncing      bool
	syncAttempts int
	lastSync     time.Time

	notice     string
	noticeWarn bool
}

const (
	minTerminalWidth = 60
	maxContentWidth  = 120
	minContentHeight = 5
	maxFormWidth     = 64

	reloadRetries    = 3
	reloadRetryDelay = 250 * time.Millisecond
)

type dayTickMsg struct{}

type reloadRetryMsg struct{}

// NewApp creates the dashboard over l. When no goals are set the first
// screen is the welcome form.
func NewApp(l *ledger.Ledger, opts Options) App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		ledger:  l,
		opts:    opts,
		log:     logger,
		order:   opts.HistoryOrder,
		spinner: sp,
	}

	if opts.WatchPath != "" {
		w, err := newStoreWatcher(opts.WatchPath, logger)
		if err != nil {
			logger.Warn("live reload disabled", slog.String("path", opts.WatchPath), slog.String("error", err.Error()))
		} else {
			a.watcher = w
		}
	}

	a.refresh()
	if !l.Goals().IsSet() {
		a.openGoalsForm(formWelcome)
	}
	return a
}

// Close stops the store watcher.
func (a App) Close() error {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Close()
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		dayTickCmd(),
	}
	if a.form != nil {
		cmds = append(cmds, a.form.Init())
	}
	if a.watcher != nil {
		cmds = append(cmds, waitForChange(a.watcher.changes))
	}
	return tea.Batch(cmds...)
}

func dayTickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(time.Time) tea.Msg {
		return dayTickMsg{}
	})
}

// refresh re-reads the history snapshot and clamps cursors to it.
func (a *App) refresh() {
	a.days = slices.Collect(a.ledger.History(a.order))

	if a.logState.cursor >= len(a.days) {
		a.logState.cursor = len(a.days) - 1
	}
	if a.logState.cursor < 0 {
		a.logState.cursor = 0
	}
	if len(a.days) == 0 {
		a.logState.detail = false
	}
}

// setNotice shows msg in the status bar. A pending persistence failure
// takes precedence.
func (a *App) setNotice(msg string) {
	a.notice, a.noticeWarn = msg, false
	if err := a.ledger.PersistErr(); err != nil {
		a.notice, a.noticeWarn = "not saved: "+err.Error(), true
	}
}

func (a *App) warn(msg string) {
	a.notice, a.noticeWarn = msg, true
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(a.formWidth())
		}
		return a, nil

	case tea.MouseMsg:
		if a.form != nil || a.showHelp {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case storeChangedMsg:
		a.syncAttempts = 0
		a = a.reload()
		var cmds []tea.Cmd
		if a.watcher != nil {
			cmds = append(cmds, waitForChange(a.watcher.changes))
		}
		if a.syncing {
			cmds = append(cmds, a.spinner.Tick, retryReloadCmd())
		}
		return a, tea.Batch(cmds...)

	case reloadRetryMsg:
		if !a.syncing {
			return a, nil
		}
		a = a.reload()
		if a.syncing {
			return a, retryReloadCmd()
		}
		return a, nil

	case spinner.TickMsg:
		if a.syncing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case dayTickMsg:
		a.refresh()
		return a, dayTickCmd()
	}

	// Forward unhandled messages to the form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

func retryReloadCmd() tea.Cmd {
	return tea.Tick(reloadRetryDelay, func(time.Time) tea.Msg {
		return reloadRetryMsg{}
	})
}

// reload picks up writes made by another process. It is skipped while a
// local write is still unsaved, since the in-memory state is newer than
// what is on disk.
func (a App) reload() App {
	if a.ledger.PersistErr() != nil {
		a.syncing = false
		return a
	}
	if err := a.ledger.Reload(); err != nil {
		a.syncAttempts++
		if a.syncAttempts < reloadRetries {
			a.syncing = true
			return a
		}
		a.syncing = false
		a.log.Warn("reload failed", slog.String("error", err.Error()))
		a.warn("reload failed: " + err.Error())
		return a
	}
	a.syncing = false
	a.lastSync = time.Now()
	a.refresh()
	a.log.Debug("reloaded after external write", slog.Int("days", len(a.days)))
	return a
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.form != nil {
		if key == "esc" {
			a.closeForm()
			return a, nil
		}
		return a.updateForm(msg)
	}

	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case tabToday:
		switch key {
		case "a":
			cmd := a.openIntakeForm(a.ledger.Today())
			return a, cmd
		case "e":
			cmd := a.openGoalsForm(formGoals)
			return a, cmd
		}
	case tabLog:
		if m, cmd, handled := a.updateLogKey(key); handled {
			return m, cmd
		}
	case tabSettings:
		switch key {
		case "j", "down":
			if a.settings.cursor < settingsFieldCount-1 {
				a.settings.cursor++
			}
			return a, nil
		case "k", "up":
			if a.settings.cursor > 0 {
				a.settings.cursor--
			}
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if r := msg.Runes; len(r) == 1 {
			if idx := components.TabIdxByKey(r[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabLog && !a.logState.detail {
			a.logState.move(-1, len(a.days))
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabLog && !a.logState.detail {
			a.logState.move(1, len(a.days))
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

// ─── Forms ──────────────────────────────────────────────────────

func (a *App) openGoalsForm(kind formKind) tea.Cmd {
	vals := GoalValuesFrom(a.ledger.Goals())
	a.goalVals = &vals
	a.formKind = kind
	a.form = NewSetupForm(a.goalVals, kind == formWelcome).WithWidth(a.formWidth())
	return a.form.Init()
}

func (a *App) openIntakeForm(day time.Time) tea.Cmd {
	a.intakeVals = &IntakeValues{}
	a.formKind = formIntake
	a.formDay = day
	a.form = newIntakeForm(a.intakeVals, day).WithWidth(a.formWidth())
	return a.form.Init()
}

func (a *App) openDeleteForm(day time.Time) tea.Cmd {
	confirm := false
	a.confirmDel = &confirm
	a.formKind = formDelete
	a.formDay = day
	a.form = newDeleteForm(a.confirmDel, day).WithWidth(a.formWidth())
	return a.form.Init()
}

func (a *App) closeForm() {
	a.form = nil
	a.formKind = formNone
	a.goalVals = nil
	a.intakeVals = nil
	a.confirmDel = nil
}

func (a App) formWidth() int {
	if a.width <= 0 {
		return maxFormWidth
	}
	return min(a.width-8, maxFormWidth)
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		a = a.applyForm()
		a.closeForm()
		return a, nil
	case huh.StateAborted:
		a.closeForm()
		return a, nil
	}
	return a, cmd
}

// applyForm commits the values of the completed form to the ledger.
func (a App) applyForm() App {
	switch a.formKind {
	case formWelcome, formGoals:
		vals := *a.goalVals
		protein, calories := vals.Parse()
		g := a.ledger.SetGoals(protein, calories)

		var ignored []string
		if protein == nil && strings.TrimSpace(vals.Protein) != "" {
			ignored = append(ignored, "protein")
		}
		if calories == nil && strings.TrimSpace(vals.Calories) != "" {
			ignored = append(ignored, "calories")
		}
		a.setNotice(fmt.Sprintf("goals %s, %s", cli.FormatGrams(g.ProteinGrams), cli.FormatKcal(g.CalorieKcal)))
		if len(ignored) > 0 && !a.noticeWarn {
			a.warn("ignored " + strings.Join(ignored, " and ") + ": not a number >= 0")
		}

		if a.formKind == formWelcome && vals.Theme != theme.Active.Name {
			theme.SetActive(vals.Theme)
			a.saveConfig(func(cfg *config.Config) { cfg.Appearance.Theme = theme.Active.Name })
		}

	case formIntake:
		protein, calories := a.intakeVals.Amounts()
		e := a.ledger.RecordIntakeOn(a.formDay, protein, calories)
		a.setNotice(fmt.Sprintf("%s: %s, %s", cli.FormatDate(e.Date),
			cli.FormatGrams(e.ProteinGrams), cli.FormatKcal(e.CalorieKcal)))

	case formDelete:
		if *a.confirmDel && a.ledger.DeleteEntry(a.formDay) {
			a.logState.detail = false
			a.setNotice("deleted " + cli.FormatDate(a.formDay))
		}
	}

	a.refresh()
	return a
}

// ─── Views ──────────────────────────────────────────────────────

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.form != nil {
		return a.viewForm()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  mcro needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewForm() string {
	t := theme.Active

	title := map[formKind]string{
		formWelcome: "◈ Welcome to mcro",
		formGoals:   "◈ Edit goals",
		formIntake:  "◈ Add intake",
		formDelete:  "◈ Delete log",
	}[a.formKind]

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	body := titleStyle.Render(title) + "\n\n" +
		a.form.View() + "\n" +
		dimStyle.Render("enter confirm · esc cancel")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		name     string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"t l x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move in lists"},
			{"g G", "First / Last day"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"a", "Add intake (today, or the selected day)"},
			{"e", "Edit goals"},
			{"Enter", "Open day / Edit setting"},
			{"d", "Delete the selected day"},
			{"Esc", "Back / Cancel"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.name))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) statusHints() string {
	switch a.activeTab {
	case tabToday:
		return "[a]dd  [e]dit goals  [?]help  [q]uit"
	case tabLog:
		if a.logState.detail {
			return "[a]dd  [d]elete  [esc]back  [q]uit"
		}
		return "[j/k]move  [enter]open  [d]elete  [?]help  [q]uit"
	default:
		return "[j/k]move  [enter]edit  [?]help  [q]uit"
	}
}

func (a App) statusNote() (string, bool) {
	if a.syncing {
		return a.spinner.View() + " syncing", false
	}
	if err := a.ledger.PersistErr(); err != nil {
		return "not saved: " + err.Error(), true
	}
	if a.notice != "" {
		return a.notice, a.noticeWarn
	}
	if !a.lastSync.IsZero() {
		return "synced " + a.lastSync.Format("15:04:05"), false
	}
	return "", false
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)
	note, warn := a.statusNote()
	statusBar := components.RenderStatusBar(w, a.statusHints(), note, warn)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabToday:
		content = a.renderTodayTab(cw)
	case tabLog:
		content = a.renderLogTab(cw, contentH)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

// saveConfig applies edit to the on-disk config and saves it.
func (a *App) saveConfig(edit func(*config.Config)) error {
	cfg, _ := config.Load()
	edit(&cfg)
	if err := config.Save(cfg); err != nil {
		a.log.Warn("saving config", slog.String("error", err.Error()))
		a.warn("config not saved: " + err.Error())
		return err
	}
	return nil
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes use the same widths as RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1
	}
	return -1
}
