package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/mcro/internal/cli"
	"github.com/theirongolddev/mcro/internal/model"
)

var flagTodayDate string

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show progress toward today's goals",
	RunE:  runToday,
}

func init() {
	todayCmd.Flags().StringVar(&flagTodayDate, "date", "", "Show another day (YYYY-MM-DD, yesterday)")
	rootCmd.AddCommand(todayCmd)
}

func runToday(_ *cobra.Command, _ []string) error {
	l, kv, _, err := openLedger()
	if err != nil {
		return err
	}
	defer kv.Close()

	day := l.Today()
	if flagTodayDate != "" {
		if day, err = cli.ParseDay(flagTodayDate, time.Now()); err != nil {
			return err
		}
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("PROGRESS  " + cli.FormatLongDate(day)))
	fmt.Println()
	fmt.Print(renderProgress(l.ProgressOn(day)))

	if !l.Goals().IsSet() {
		fmt.Println()
		fmt.Println(cli.RenderMuted("  No goals set yet. Run `mcro setup` or `mcro goals --protein 150 --calories 2000`."))
	}
	fmt.Println()
	return nil
}

// renderProgress renders the protein and calorie bars for one day.
func renderProgress(pr model.Progress) string {
	const barWidth = 30
	return cli.RenderRatioBar("Protein", pr.ProteinRatio, barWidth, cli.ColorAccent,
		cli.FormatOfGoal(pr.ProteinIntake, pr.ProteinGoal)+" g") + "\n" +
		cli.RenderRatioBar("Calories", pr.CalorieRatio, barWidth, cli.ColorPurple,
			cli.FormatOfGoal(pr.CalorieIntake, pr.CalorieGoal)+" kcal") + "\n"
}
