// Package cli provides the command-line interface for mantar.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/YuminosukeSato/mantar/internal/app"
	"github.com/YuminosukeSato/mantar/internal/config"
	"github.com/YuminosukeSato/mantar/pkg/errors"
	"github.com/YuminosukeSato/mantar/pkg/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	envFile        string
	datasetPath    string
	scalerPath     string
	classifierPath string
	logLevel       string
	logFile        string

	// Loaded in PersistentPreRunE
	cfg      config.Config
	closeLog func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mantar",
	Short: "Mushroom edibility demo",
	Long: `Mantar predicts whether a mushroom is edible from its gill size and
gill color, using a logistic regression fitted on the UCI mushroom dataset.

Run "mantar serve" for the web page, "mantar predict" for a single
prediction, or "mantar check" to verify the dataset and artifacts.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		var err error
		if envFile != "" {
			cfg, err = config.Load(envFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		if err := applyFlags(cmd, &cfg); err != nil {
			return err
		}

		// serve logs to stdout like a server; the other commands print
		// their result there.
		var w io.Writer = cmd.ErrOrStderr()
		if cmd == serveCmd {
			w = cmd.OutOrStdout()
		}
		closeLog, err = log.SetupLoggerTo(w, cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return err
		}
		installWarnings(w)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	defer finish()
	return rootCmd.Execute()
}

// finish undoes PersistentPreRunE. PersistentPostRun is skipped when RunE
// fails, so this runs from Execute instead.
func finish() {
	errors.SetZerologWarnFunc(nil)
	if closeLog != nil {
		if err := closeLog(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
		closeLog = nil
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "read settings from this .env file (default .env)")
	rootCmd.PersistentFlags().StringVar(&datasetPath, "dataset", "", "mushroom CSV (MANTAR_DATASET)")
	rootCmd.PersistentFlags().StringVar(&scalerPath, "scaler", "", "scaler artifact, .json or .gob (MANTAR_SCALER)")
	rootCmd.PersistentFlags().StringVar(&classifierPath, "classifier", "", "classifier artifact, .json or .gob (MANTAR_CLASSIFIER)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (MANTAR_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also append JSON logs to this file (MANTAR_LOG_FILE)")

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(convertCmd)
}

// applyFlags lets explicitly set flags override the environment.
func applyFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("dataset") {
		c.DatasetPath = datasetPath
	}
	if flags.Changed("scaler") {
		c.ScalerPath = scalerPath
	}
	if flags.Changed("classifier") {
		c.ClassifierPath = classifierPath
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("log-file") {
		c.LogFile = logFile
	}
	if flags.Changed("addr") {
		c.Addr = serveAddr
	}
	if flags.Changed("sample-rows") {
		c.SampleRows = serveSampleRows
	}
	return c.Validate()
}

// installWarnings routes errors.Warn through zerolog so drift and
// convergence warnings keep their structured fields.
func installWarnings(w io.Writer) {
	zl := zerolog.New(w).With().Timestamp().Str("component", "mantar").Logger()
	errors.SetZerologWarnFunc(func(warning error) {
		ev := zl.Warn()
		if m, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev = ev.EmbedObject(m)
		}
		ev.Msg(warning.Error())
	})
}

// loadDemo loads the dataset and artifacts named by the configuration.
func loadDemo() (*app.Demo, error) {
	return app.Load(cfg, log.Default())
}
