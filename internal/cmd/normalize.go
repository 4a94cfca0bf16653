package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strrl/triage/internal/dataset"
	"github.com/strrl/triage/internal/logging"
)

var (
	normalizeIn  string
	normalizeOut string
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Convert a raw labeled dataset to numeric codes for training",
	Long: `Read a raw CSV with Male/Female and Yes/No columns and write the numeric
training dataset (gender Female=1, symptoms Yes=1) with the header
age,gender,fever,cough,headache,fatigue,breathlessness,Diagnosis.

Each non-blank input line yields one output row. Blank lines carry no record;
they are skipped and their count is reported.`,
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeCmd.Flags().StringVarP(&normalizeIn, "in", "i", "raw_data.csv", "Raw dataset to read")
	normalizeCmd.Flags().StringVarP(&normalizeOut, "out", "o", "processed_data.csv", "Processed dataset to write")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	n := dataset.NewNormalizer(logging.New("dataset"))

	stats, err := n.NormalizeFile(normalizeIn, normalizeOut)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Preprocessing completed: %d rows saved to %s\n", stats.Rows, normalizeOut)
	if stats.Unmapped > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "  %d unrecognized values coded as 0\n", stats.Unmapped)
	}
	if stats.Blank > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "  %d blank lines skipped\n", stats.Blank)
	}
	return nil
}
