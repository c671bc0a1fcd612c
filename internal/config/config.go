package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Run     RunConfig     `mapstructure:"run"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// RunConfig controls the counter workload of `mediatrix run`.
type RunConfig struct {
	// Total number of Increment requests sent
	Requests int `mapstructure:"requests" validate:"min=1"`

	// Number of goroutines sending requests
	Workers int `mapstructure:"workers" validate:"min=1,max=1024"`

	// Number of recording listeners
	Listeners int `mapstructure:"listeners" validate:"min=0,max=64"`

	// Initial counter value
	Start int64 `mapstructure:"start"`

	// Requests per second admitted by the rate limiter, 0 disables it
	RateLimit float64 `mapstructure:"rate_limit" validate:"min=0"`

	// Rate limiter burst size
	Burst int `mapstructure:"burst" validate:"min=1"`

	// Overall deadline for the run
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Log format: json, console
	Format string `mapstructure:"format" validate:"required,oneof=json console"`
}

// MetricsConfig toggles the Prometheus collectors.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Print the collected series after the run
	Dump bool `mapstructure:"dump"`
}

// setDefaults registers every key so environment variables are picked up
// for keys absent from the config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("run.requests", 100)
	v.SetDefault("run.workers", 4)
	v.SetDefault("run.listeners", 2)
	v.SetDefault("run.start", 0)
	v.SetDefault("run.rate_limit", 0)
	v.SetDefault("run.burst", 1)
	v.SetDefault("run.timeout", 30*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.dump", false)
}

// New returns a viper instance with defaults, the MEDIATRIX_ environment
// prefix and the optional config file applied.
func New(configPath string) (*viper.Viper, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("mediatrix")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix("MEDIATRIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - we'll use env vars and defaults
	}

	return v, nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (mediatrix.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	v, err := New(configPath)
	if err != nil {
		return nil, err
	}
	return Load(v)
}

// Validate validates a struct using validation tags
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			messages := make([]string, 0, len(validationErrs))
			for _, e := range validationErrs {
				messages = append(messages, fmt.Sprintf(
					"field '%s' failed validation: %s (value: '%v')",
					e.Namespace(),
					e.Tag(),
					e.Value(),
				))
			}
			return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
		}
		return err
	}
	return nil
}
