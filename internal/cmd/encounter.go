package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/strrl/triage/internal/config"
	"github.com/strrl/triage/internal/features"
	"github.com/strrl/triage/internal/ledger"
	"github.com/strrl/triage/internal/logging"
	"github.com/strrl/triage/internal/medication"
	"github.com/strrl/triage/internal/predict"
	"github.com/strrl/triage/internal/prompt"
	"github.com/strrl/triage/internal/session"
)

var (
	encounterLedger           string
	encounterFeatures         string
	encounterPredictor        []string
	encounterPredictorURL     string
	encounterPredictorTimeout time.Duration
)

var encounterCmd = &cobra.Command{
	Use:     "encounter",
	Aliases: []string{"predict"},
	Short:   "Run one interactive patient encounter",
	Long: `Prompt for the patient's name, age, sex and five symptoms, write the encoded
feature vector, ask the diagnostic model for a diagnosis, print the medication
recommendation, and append the encounter to the ledger.

If the model cannot be reached the encounter is still recorded with the
diagnosis "Unknown Diagnosis".`,
	RunE: runEncounter,
}

func init() {
	rootCmd.AddCommand(encounterCmd)

	encounterCmd.Flags().StringVar(&encounterLedger, "ledger", "", "Encounter ledger CSV (default from config: patient_data.csv)")
	encounterCmd.Flags().StringVar(&encounterFeatures, "features", "", "Feature file handed to the model (default from config: input_features.json)")
	encounterCmd.Flags().StringArrayVar(&encounterPredictor, "predictor", nil, "Predictor argv, one element per flag (e.g. --predictor python3 --predictor 'my model.py'); the feature file path is appended")
	encounterCmd.Flags().StringVar(&encounterPredictorURL, "predictor-url", "", "HTTP predictor endpoint, used instead of the command when set")
	encounterCmd.Flags().DurationVar(&encounterPredictorTimeout, "predictor-timeout", 0, "Give up on the predictor after this long (0 = wait indefinitely)")
}

func runEncounter(cmd *cobra.Command, args []string) error {
	c := cfg
	flags := cmd.Flags()
	if flags.Changed("ledger") {
		c.LedgerFile = encounterLedger
	}
	if flags.Changed("features") {
		c.FeatureFile = encounterFeatures
	}
	if flags.Changed("predictor") {
		c.Predictor.Command = append([]string(nil), encounterPredictor...)
		c.Predictor.URL = ""
	}
	if flags.Changed("predictor-url") {
		c.Predictor.URL = encounterPredictorURL
	}
	if flags.Changed("predictor-timeout") {
		c.Predictor.Timeout = encounterPredictorTimeout
	}
	if err := c.Validate(); err != nil {
		return err
	}

	predictor, err := buildPredictor(c.Predictor)
	if err != nil {
		return fmt.Errorf("failed to initialize predictor: %w", err)
	}

	out := cmd.OutOrStdout()
	s := session.New(session.Deps{
		Prompts:  prompt.NewReader(cmd.InOrStdin(), out),
		Features: features.NewWriter(c.FeatureFile),
		Gateway:  predict.NewGateway(predictor, logging.New("predict")),
		Advisor:  medication.NewAdvisor(c.Medications),
		Ledger:   ledger.New(c.LedgerFile),
		Out:      out,
		Log:      logging.New("session"),
	})

	res, err := s.Run(cmd.Context())
	if err != nil {
		return err
	}

	if res.Persisted {
		fmt.Fprintf(out, "Encounter saved to %s\n", c.LedgerFile)
	}
	return nil
}

func buildPredictor(pc config.PredictorConfig) (predict.Predictor, error) {
	if pc.URL != "" {
		return predict.NewHTTPPredictor(predict.HTTPConfig{
			URL:     pc.URL,
			Timeout: pc.Timeout,
		})
	}
	return predict.NewCommandPredictor(predict.CommandConfig{
		Command: pc.Command,
		Timeout: pc.Timeout,
	}, logging.New("predict"))
}
