package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/mcro/internal/cli"
	"github.com/theirongolddev/mcro/internal/config"
	"github.com/theirongolddev/mcro/internal/tui"
	"github.com/theirongolddev/mcro/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()

	l, kv, _, err := openLedger()
	if err != nil {
		return err
	}
	defer kv.Close()

	vals := tui.GoalValuesFrom(l.Goals())
	vals.Theme = cfg.Appearance.Theme

	fmt.Println()
	fmt.Println("  Welcome to mcro!")
	fmt.Println()

	if err := tui.NewSetupForm(&vals, true).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing changed.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	protein, calories := vals.Parse()
	if protein == nil && vals.Protein != "" {
		info("  %s\n", cli.RenderWarning(fmt.Sprintf("ignoring protein goal %q", vals.Protein)))
	}
	if calories == nil && vals.Calories != "" {
		info("  %s\n", cli.RenderWarning(fmt.Sprintf("ignoring calorie goal %q", vals.Calories)))
	}
	g := l.SetGoals(protein, calories)
	warnPersist(l)

	cfg.Appearance.Theme = theme.ByName(vals.Theme).Name
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Goals: %s protein, %s\n", cli.FormatGrams(g.ProteinGrams), cli.FormatKcal(g.CalorieKcal))
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `mcro setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
