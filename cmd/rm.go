package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/mcro/internal/cli"
)

var rmCmd = &cobra.Command{
	Use:     "rm DATE",
	Aliases: []string{"delete"},
	Short:   "Delete one day's entry",
	Args:    cobra.ExactArgs(1),
	RunE:    runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(_ *cobra.Command, args []string) error {
	day, err := cli.ParseDay(args[0], time.Now())
	if err != nil {
		return err
	}

	l, kv, _, err := openLedger()
	if err != nil {
		return err
	}
	defer kv.Close()

	if !l.DeleteEntry(day) {
		info("  No entry for %s, nothing removed.\n", cli.FormatDate(day))
		return nil
	}
	warnPersist(l)
	info("  Removed %s.\n", cli.FormatDate(day))
	return nil
}
