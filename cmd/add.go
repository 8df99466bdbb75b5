package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/mcro/internal/cli"
)

var (
	flagAddProtein  string
	flagAddCalories string
	flagAddDate     string
)

var addCmd = &cobra.Command{
	Use:   "add [PROTEIN [CALORIES]]",
	Short: "Record protein and calorie intake",
	Long: "Add intake to a day's running totals (today unless --date is given).\n" +
		"Values that are not non-negative numbers are ignored.",
	Example: "  mcro add 30 450\n  mcro add --protein 25\n  mcro add --calories 300 --date yesterday",
	Args:    cobra.MaximumNArgs(2),
	RunE:    runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&flagAddProtein, "protein", "p", "", "Protein in grams")
	addCmd.Flags().StringVarP(&flagAddCalories, "calories", "c", "", "Energy in kcal")
	addCmd.Flags().StringVar(&flagAddDate, "date", "", "Day to record on (YYYY-MM-DD, today, yesterday)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	rawProtein, rawCalories := flagAddProtein, flagAddCalories
	if len(args) > 0 {
		if cmd.Flags().Changed("protein") {
			return errors.New("protein given both as argument and --protein")
		}
		rawProtein = args[0]
	}
	if len(args) > 1 {
		if cmd.Flags().Changed("calories") {
			return errors.New("calories given both as argument and --calories")
		}
		rawCalories = args[1]
	}
	if rawProtein == "" && rawCalories == "" {
		return errors.New("nothing to add: give PROTEIN and/or CALORIES")
	}

	l, kv, _, err := openLedger()
	if err != nil {
		return err
	}
	defer kv.Close()

	day := l.Today()
	if flagAddDate != "" {
		if day, err = cli.ParseDay(flagAddDate, time.Now()); err != nil {
			return err
		}
	}

	entry := l.RecordIntakeOn(day, amountOrZero("protein", rawProtein), amountOrZero("calories", rawCalories))
	warnPersist(l)

	info("\n  %s  %s, %s\n\n", cli.FormatDate(entry.Date),
		cli.FormatGrams(entry.ProteinGrams), cli.FormatKcal(entry.CalorieKcal))
	if !flagQuiet {
		fmt.Print(renderProgress(l.ProgressOn(day)))
		fmt.Println()
	}
	return nil
}

// amountOrZero parses raw, warning and contributing nothing when it is invalid.
func amountOrZero(name, raw string) float64 {
	if raw == "" {
		return 0
	}
	v := cli.ParseAmount(raw)
	if v == nil {
		info("  %s\n", cli.RenderWarning(fmt.Sprintf("ignoring %s %q: not a non-negative number", name, raw)))
		return 0
	}
	return *v
}
