// Package config loads argue settings from an optional YAML file, .env
// files and ARGUE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is the complete runtime configuration.
type Config struct {
	Negotiation NegotiationConfig `mapstructure:"negotiation"`
	Output      OutputConfig      `mapstructure:"output"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// NegotiationConfig controls the engine and the agents.
type NegotiationConfig struct {
	// Threshold is the top percent of items an agent accepts outright.
	Threshold float64 `mapstructure:"threshold"`
	MaxRounds int     `mapstructure:"max_rounds"`
	Parallel  bool    `mapstructure:"parallel"`
	// Seed drives random profiles and counterpart picking. Zero keeps the
	// deterministic first-counterpart picker.
	Seed uint64 `mapstructure:"seed"`
}

// OutputConfig controls where run artifacts go.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Negotiation: NegotiationConfig{
			Threshold: 10,
			MaxRounds: 100,
		},
		Output:  OutputConfig{Dir: "output"},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads the configuration. An explicit path must exist; without one an
// argue.yaml in the working directory is used when present. ARGUE_* variables
// override file values, e.g. ARGUE_NEGOTIATION_MAX_ROUNDS.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	defaults := Default()
	v.SetDefault("negotiation.threshold", defaults.Negotiation.Threshold)
	v.SetDefault("negotiation.max_rounds", defaults.Negotiation.MaxRounds)
	v.SetDefault("negotiation.parallel", defaults.Negotiation.Parallel)
	v.SetDefault("negotiation.seed", defaults.Negotiation.Seed)
	v.SetDefault("output.dir", defaults.Output.Dir)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)

	v.SetEnvPrefix("ARGUE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("argue")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Negotiation.Threshold <= 0 || c.Negotiation.Threshold > 100 {
		return fmt.Errorf("config: negotiation.threshold must be in (0, 100], got %v", c.Negotiation.Threshold)
	}
	if c.Negotiation.MaxRounds < 1 {
		return fmt.Errorf("config: negotiation.max_rounds must be >= 1, got %d", c.Negotiation.MaxRounds)
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("config: output.dir is required")
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("config: logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// LoadDotEnv loads variables from a .env file without overriding variables
// already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: loading %s: %w", path, err)
	}
	return nil
}
