package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/strrl/triage/internal/medication"
)

const DefaultPath = "triage.yaml"

type Config struct {
	FeatureFile string            `yaml:"feature_file"`
	LedgerFile  string            `yaml:"ledger_file"`
	Predictor   PredictorConfig   `yaml:"predictor"`
	Medications map[string]string `yaml:"medications"`
	Log         LogConfig         `yaml:"log"`
}

type PredictorConfig struct {
	// Command is run with the feature file path appended.
	Command []string `yaml:"command"`
	// URL selects the HTTP predictor instead of Command when set.
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		FeatureFile: "input_features.json",
		LedgerFile:  "patient_data.csv",
		Predictor: PredictorConfig{
			Command: []string{"python3", "predict_model.py"},
		},
		Medications: medication.DefaultRules(),
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file at DefaultPath is not an error; a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Parse(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Parse decodes YAML into cfg. A medications map in the document replaces
// the built-in table rather than merging into it.
func Parse(data []byte, cfg *Config) error {
	var doc struct {
		Medications map[string]string `yaml:"medications"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Medications != nil {
		cfg.Medications = nil
	}
	return yaml.Unmarshal(data, cfg)
}

func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("TRIAGE_LEDGER")); v != "" {
		c.LedgerFile = v
	}
	if v := strings.TrimSpace(os.Getenv("TRIAGE_FEATURE_FILE")); v != "" {
		c.FeatureFile = v
	}
	if v := strings.TrimSpace(os.Getenv("TRIAGE_PREDICTOR_URL")); v != "" {
		c.Predictor.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("TRIAGE_LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.FeatureFile) == "" {
		return fmt.Errorf("feature_file is required")
	}
	if strings.TrimSpace(c.LedgerFile) == "" {
		return fmt.Errorf("ledger_file is required")
	}
	if c.Predictor.URL == "" && len(c.Predictor.Command) == 0 {
		return fmt.Errorf("predictor.command or predictor.url is required")
	}
	if c.Predictor.Timeout < 0 {
		return fmt.Errorf("predictor.timeout must not be negative")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
