package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/mcro/internal/config"
	"github.com/theirongolddev/mcro/internal/model"
	"github.com/theirongolddev/mcro/internal/store"
	"github.com/theirongolddev/mcro/internal/tui"
	"github.com/theirongolddev/mcro/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()
	theme.SetActive(cfg.Appearance.Theme)

	backend, dir := dataLocation(cfg)

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// Logs go to a file; stderr belongs to the alternate screen.
	logPath := cfg.Log.File
	if logPath == "" {
		logPath = filepath.Join(dir, "mcro.log")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	setupLogging(logFile, cfg.Log.Level)

	l, kv, _, err := openLedger()
	if err != nil {
		return err
	}
	defer kv.Close()

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(l, tui.Options{
		HistoryOrder: model.ParseOrder(cfg.General.HistoryOrder),
		WatchPath:    store.Path(backend, dir),
		DataDir:      dir,
		Backend:      backend,
		Logger:       slog.Default(),
	})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
