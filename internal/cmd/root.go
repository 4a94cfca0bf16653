package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/strrl/triage/internal/config"
	"github.com/strrl/triage/internal/logging"
)

var (
	configPath string
	logLevel   string
	logFormat  string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Collect patient symptoms, predict a diagnosis and record the encounter",
	Long: `triage is an operator console for symptom intake. It asks a fixed set of
clinical questions, hands the encoded answers to an external diagnostic model,
suggests medication for the predicted diagnosis, and appends every encounter
to a CSV ledger.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = false

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config (default: ./"+config.DefaultPath+" if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (text or json)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if logLevel != "" {
		loaded.Log.Level = logLevel
	}
	if logFormat != "" {
		loaded.Log.Format = logFormat
	}

	if err := logging.Init(loaded.Log.Level, loaded.Log.Format, cmd.ErrOrStderr()); err != nil {
		return err
	}

	cfg = loaded
	return nil
}
