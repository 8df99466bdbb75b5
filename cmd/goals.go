package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/mcro/internal/cli"
)

var (
	flagGoalProtein  string
	flagGoalCalories string
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Show or set daily goals",
	Long: "Show the current goals, or set them with --protein and --calories.\n" +
		"A value that is not a non-negative number is ignored and that goal is left as it was.",
	Example: "  mcro goals --protein 150 --calories 2000\n  mcro goals --calories 1800",
	RunE:    runGoals,
}

func init() {
	goalsCmd.Flags().StringVarP(&flagGoalProtein, "protein", "p", "", "Daily protein goal in grams")
	goalsCmd.Flags().StringVarP(&flagGoalCalories, "calories", "c", "", "Daily calorie goal in kcal")
	rootCmd.AddCommand(goalsCmd)
}

func runGoals(cmd *cobra.Command, _ []string) error {
	l, kv, _, err := openLedger()
	if err != nil {
		return err
	}
	defer kv.Close()

	if cmd.Flags().Changed("protein") || cmd.Flags().Changed("calories") {
		protein := parseField(cmd, "protein", flagGoalProtein)
		calories := parseField(cmd, "calories", flagGoalCalories)
		l.SetGoals(protein, calories)
		warnPersist(l)
	}

	g := l.Goals()
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Daily Goals",
		Headers: []string{"Goal", "Target"},
		Rows: [][]string{
			{"Protein", cli.FormatGrams(g.ProteinGrams)},
			{"Calories", cli.FormatKcal(g.CalorieKcal)},
		},
	}))
	if !g.IsSet() {
		fmt.Println(cli.RenderMuted("  A goal of 0 means not set; progress shows 0% until one is set."))
	}
	fmt.Println()
	return nil
}

// parseField parses a changed flag, telling the user when the value is ignored.
func parseField(cmd *cobra.Command, name, raw string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v := cli.ParseAmount(raw)
	if v == nil {
		info("  %s\n", cli.RenderWarning(fmt.Sprintf("ignoring --%s %q: not a non-negative number", name, raw)))
	}
	return v
}
