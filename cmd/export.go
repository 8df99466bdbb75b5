package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/mcro/internal/ledger"
	"github.com/theirongolddev/mcro/internal/model"
)

var (
	flagExportFormat string
	flagExportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write goals and history as JSON or YAML",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "json", "Output format: json or yaml")
	exportCmd.Flags().StringVarP(&flagExportOut, "output", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

type exportGoals struct {
	ProteinGrams float64 `json:"protein_grams" yaml:"protein_grams"`
	CalorieKcal  float64 `json:"calorie_kcal" yaml:"calorie_kcal"`
}

type exportDay struct {
	Date         string  `json:"date" yaml:"date"`
	ProteinGrams float64 `json:"protein_grams" yaml:"protein_grams"`
	CalorieKcal  float64 `json:"calorie_kcal" yaml:"calorie_kcal"`
}

type exportDoc struct {
	Goals exportGoals `json:"goals" yaml:"goals"`
	Days  []exportDay `json:"days" yaml:"days"`
}

func buildExport(l *ledger.Ledger) exportDoc {
	g := l.Goals()
	doc := exportDoc{
		Goals: exportGoals{ProteinGrams: g.ProteinGrams, CalorieKcal: g.CalorieKcal},
		Days:  make([]exportDay, 0, l.Len()),
	}
	for e := range l.History(model.Ascending) {
		doc.Days = append(doc.Days, exportDay{
			Date:         e.Date.Format(model.DayLayout),
			ProteinGrams: e.ProteinGrams,
			CalorieKcal:  e.CalorieKcal,
		})
	}
	return doc
}

func writeExport(w io.Writer, doc exportDoc, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown export format %q (want json or yaml)", format)
	}
}

func runExport(_ *cobra.Command, _ []string) error {
	switch flagExportFormat {
	case "json", "yaml", "yml":
	default:
		return fmt.Errorf("unknown export format %q (want json or yaml)", flagExportFormat)
	}

	l, kv, _, err := openLedger()
	if err != nil {
		return err
	}
	defer kv.Close()

	doc := buildExport(l)
	if flagExportOut == "" {
		if err := writeExport(os.Stdout, doc, flagExportFormat); err != nil {
			return fmt.Errorf("exporting: %w", err)
		}
		return nil
	}

	if err := exportToFile(flagExportOut, doc, flagExportFormat); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "  Exported %d days to %s\n", len(doc.Days), flagExportOut)
	return nil
}

func exportToFile(path string, doc exportDoc, format string) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is a user flag
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing export file: %w", cerr)
		}
	}()

	if err := writeExport(f, doc, format); err != nil {
		return fmt.Errorf("exporting: %w", err)
	}
	return nil
}
