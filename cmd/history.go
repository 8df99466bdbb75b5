package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/mcro/internal/cli"
	"github.com/theirongolddev/mcro/internal/model"
)

var (
	flagHistoryAsc   bool
	flagHistoryDesc  bool
	flagHistoryLimit int
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"log", "ls"},
	Short:   "Per-day intake totals",
	RunE:    runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&flagHistoryAsc, "asc", false, "Oldest day first")
	historyCmd.Flags().BoolVar(&flagHistoryDesc, "desc", false, "Most recent day first")
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 0, "Show at most N days (0 = all)")
	historyCmd.MarkFlagsMutuallyExclusive("asc", "desc")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, _ []string) error {
	l, kv, cfg, err := openLedger()
	if err != nil {
		return err
	}
	defer kv.Close()

	if l.Len() == 0 {
		fmt.Println("\n  No logs available.")
		fmt.Println("  Logs will appear when data is added: `mcro add 30 450`.")
		return nil
	}

	order := model.ParseOrder(cfg.General.HistoryOrder)
	switch {
	case flagHistoryAsc:
		order = model.Ascending
	case flagHistoryDesc:
		order = model.Descending
	}

	today := l.Today()
	goal := l.Goals()
	rows := make([][]string, 0, l.Len())
	for e := range l.History(order) {
		if flagHistoryLimit > 0 && len(rows) >= flagHistoryLimit {
			break
		}
		rows = append(rows, []string{
			e.Date.Format(model.DayLayout),
			cli.FormatDayOfWeek(int(e.Date.Weekday())),
			cli.FormatGrams(e.ProteinGrams),
			cli.FormatKcal(e.CalorieKcal),
			goalMark(e, goal),
			cli.FormatAge(e.Date, today),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DAILY LOG  %d days", l.Len())))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Day", "Protein", "Calories", "Goals", "When"},
		Rows:    rows,
	}))
	return nil
}

// goalMark shows which goals a day reached: P for protein, C for calories.
func goalMark(e model.DailyLogEntry, g model.Goal) string {
	mark := ""
	if g.ProteinGrams > 0 && e.ProteinGrams >= g.ProteinGrams {
		mark += "P"
	}
	if g.CalorieKcal > 0 && e.CalorieKcal >= g.CalorieKcal {
		mark += "C"
	}
	if mark == "" {
		return "-"
	}
	return mark
}
