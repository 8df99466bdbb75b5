package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/mcro/internal/config"
	"github.com/theirongolddev/mcro/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	backend, dir := dataLocation(cfg)
	fmt.Println("  [General]")
	fmt.Printf("    Data directory: %s\n", dir)
	fmt.Printf("    Backend:        %s\n", backend)
	fmt.Printf("    Data file:      %s\n", store.Path(backend, dir))
	fmt.Printf("    History order:  %s\n", cfg.General.HistoryOrder)
	keys, err := storedKeys(backend, dir)
	switch {
	case err != nil:
		fmt.Printf("    Stored keys:    unreadable (%v)\n", err)
	case len(keys) == 0:
		fmt.Println("    Stored keys:    none")
	default:
		fmt.Printf("    Stored keys:    %s\n", strings.Join(keys, ", "))
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	if cfg.Log.File != "" {
		fmt.Printf("    File:  %s\n", cfg.Log.File)
	}
	fmt.Println()

	fmt.Println("  Run `mcro setup` to reconfigure.")
	return nil
}

// storedKeys lists the keys in the data file without creating it.
func storedKeys(backend, dir string) ([]string, error) {
	if _, err := os.Stat(store.Path(backend, dir)); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	kv, err := store.Open(backend, dir)
	if err != nil {
		return nil, err
	}
	defer kv.Close()
	return kv.Keys()
}
