// Package cmd implements the mcro CLI commands.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/mcro/internal/cli"
	"github.com/theirongolddev/mcro/internal/config"
	"github.com/theirongolddev/mcro/internal/ledger"
	"github.com/theirongolddev/mcro/internal/store"
)

var (
	flagDataDir string
	flagBackend string
	flagQuiet   bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "mcro",
	Short:         "Daily protein and calorie tracker",
	Long:          "Set daily protein and calorie goals, log what you eat, and review per-day totals.",
	RunE:          runToday,
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// .env is optional
		_ = godotenv.Load()

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s\n", cli.RenderWarning(err.Error()))
		}
		if cmd.Name() != tuiCmd.Name() {
			setupLogging(os.Stderr, cfg.Log.Level)
		}
		return nil
	},
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  Error: %s\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Data directory (default from config or $MCRO_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend: sqlite or json")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
}

// setupLogging installs the default slog logger writing text records to w.
func setupLogging(w io.Writer, level string) {
	lvl := parseLevel(level)
	if flagVerbose {
		lvl = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// dataLocation resolves the backend and data dir from flags, env, and config.
func dataLocation(cfg config.Config) (backend, dir string) {
	backend = config.GetBackend(cfg)
	if flagBackend != "" {
		backend = flagBackend
	}
	dir = config.GetDataDir(cfg)
	if flagDataDir != "" {
		dir = flagDataDir
	}
	return backend, dir
}

// openLedger is the shared data loading path used by all commands.
// The caller must close the returned store.
func openLedger() (*ledger.Ledger, store.KV, config.Config, error) {
	cfg, _ := config.Load()
	backend, dir := dataLocation(cfg)

	kv, err := store.Open(backend, dir)
	if err != nil {
		return nil, nil, cfg, err
	}

	l, err := ledger.Open(kv, ledger.WithLogger(slog.Default()))
	if err != nil {
		_ = kv.Close()
		return nil, nil, cfg, fmt.Errorf("loading %s: %w", store.Path(backend, dir), err)
	}
	slog.Debug("opened ledger", "backend", backend, "dir", dir, "days", l.Len())
	return l, kv, cfg, nil
}

// warnPersist prints a one-line warning if the last write did not reach disk.
func warnPersist(l *ledger.Ledger) {
	if err := l.PersistErr(); err != nil {
		fmt.Fprintf(os.Stderr, "  %s\n", cli.RenderWarning("not saved: "+err.Error()))
	}
}

func info(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Printf(format, args...)
}
