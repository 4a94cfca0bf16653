package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strrl/triage/internal/features"
	"github.com/strrl/triage/internal/history"
)

var (
	historyLedger string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Summarize recorded encounters",
	Long: `Read the encounter ledger and print per-diagnosis counts followed by the
most recent encounters.`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyLedger, "ledger", "", "Encounter ledger CSV (default from config)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of recent encounters to list (0 = all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := cfg.LedgerFile
	if historyLedger != "" {
		path = historyLedger
	}
	out := cmd.OutOrStdout()

	r, err := history.NewReader(path)
	if errors.Is(err, history.ErrNoLedger) {
		fmt.Fprintf(out, "No encounters recorded in %s\n", path)
		return nil
	}
	if err != nil {
		return err
	}

	counts, err := r.DiagnosisCounts()
	if err != nil {
		return err
	}

	total := 0
	for _, c := range counts {
		total += c.Count
	}
	fmt.Fprintf(out, "Ledger: %s (%d encounters)\n", path, total)
	for _, c := range counts {
		fmt.Fprintf(out, "  %-24s %d\n", c.Diagnosis, c.Count)
	}

	records, err := r.Recent(historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	fmt.Fprintf(out, "\nMost recent %d:\n", len(records))
	for _, rec := range records {
		fmt.Fprintf(out, "  - %s, age %s: %s\n", rec.Name, features.FormatNumber(rec.Age), rec.Diagnosis)
	}
	return nil
}
