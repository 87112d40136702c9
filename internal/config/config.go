// Package config reads the demo's settings from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/YuminosukeSato/mantar/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration values.
type Config struct {
	// HTTP
	Addr string `validate:"required"`

	// Inputs
	DatasetPath    string `validate:"required"`
	ScalerPath     string `validate:"required"`
	ClassifierPath string `validate:"required"`

	// Logging
	LogLevel string `validate:"oneof=debug info warn error"`
	LogFile  string

	// Page
	SampleRows int           `validate:"min=1,max=100"`
	ChartTTL   time.Duration `validate:"gt=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:           ":8501",
		DatasetPath:    "data/mushrooms.csv",
		ScalerPath:     "artifacts/scaler.json",
		ClassifierPath: "artifacts/logreg_model.json",
		LogLevel:       "info",
		SampleRows:     5,
		ChartTTL:       10 * time.Minute,
	}
}

// Load reads a .env file when present, then the environment, and validates
// the result.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Debug("no .env file loaded, using process environment", "error", err)
	}

	d := Default()
	cfg := Config{
		Addr:           getEnv("MANTAR_ADDR", d.Addr),
		DatasetPath:    getEnv("MANTAR_DATASET", d.DatasetPath),
		ScalerPath:     getEnv("MANTAR_SCALER", d.ScalerPath),
		ClassifierPath: getEnv("MANTAR_CLASSIFIER", d.ClassifierPath),
		LogLevel:       strings.ToLower(getEnv("MANTAR_LOG_LEVEL", d.LogLevel)),
		LogFile:        getEnv("MANTAR_LOG_FILE", d.LogFile),
		SampleRows:     getEnvAsInt("MANTAR_SAMPLE_ROWS", d.SampleRows),
		ChartTTL:       getEnvAsDuration("MANTAR_CHART_TTL", d.ChartTTL),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
