package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/mcro/internal/cli"
)

var showCmd = &cobra.Command{
	Use:   "show DATE",
	Short: "Show one day's totals",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	day, err := cli.ParseDay(args[0], time.Now())
	if err != nil {
		return err
	}

	l, kv, _, err := openLedger()
	if err != nil {
		return err
	}
	defer kv.Close()

	e, ok := l.Entry(day)
	if !ok {
		fmt.Printf("\n  No entry for %s.\n\n", cli.FormatDate(day))
		return nil
	}

	pr := l.ProgressOn(day)
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Date: " + cli.FormatDate(e.Date),
		Headers: []string{"Metric", "Intake", "Goal", "Progress"},
		Rows: [][]string{
			{"Protein", cli.FormatGrams(e.ProteinGrams), cli.FormatGrams(pr.ProteinGoal), cli.FormatPercent(pr.ProteinRatio)},
			{"Calories", cli.FormatKcal(e.CalorieKcal), cli.FormatKcal(pr.CalorieGoal), cli.FormatPercent(pr.CalorieRatio)},
		},
	}))
	fmt.Println()
	return nil
}
