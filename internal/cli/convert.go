package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/YuminosukeSato/mantar/inference"
	"github.com/YuminosukeSato/mantar/pkg/errors"
	"github.com/YuminosukeSato/mantar/preprocessing"
	"github.com/YuminosukeSato/mantar/sklearn/linear_model"
	"github.com/spf13/cobra"
)

var (
	convertDir    string
	convertFormat string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Rewrite the artifacts in another format",
	Long: `Load the scaler and classifier and write them again as JSON or gob.
The fitted values are copied unchanged.

Examples:
  mantar convert --format gob --out artifacts
  mantar convert --classifier artifacts/logreg_model.gob --format json --out /tmp`,
	Args: cobra.NoArgs,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertDir, "out", ".", "output directory")
	convertCmd.Flags().StringVar(&convertFormat, "format", inference.FormatGob, "json or gob")
}

func runConvert(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(convertFormat)
	if format != inference.FormatJSON && format != inference.FormatGob {
		return errors.Wrapf(errors.ErrUnknownFormat, "--format %q", convertFormat)
	}

	a, err := inference.LoadArtifacts(cfg.ScalerPath, cfg.ClassifierPath)
	if err != nil {
		return err
	}

	scalerOut := filepath.Join(convertDir, stem(cfg.ScalerPath)+"."+format)
	if err := inference.SaveArtifact(a.Scaler, scalerOut, preprocessing.StandardScalerType); err != nil {
		return err
	}
	classifierOut := filepath.Join(convertDir, stem(cfg.ClassifierPath)+"."+format)
	if err := inference.SaveArtifact(a.Classifier, classifierOut, linear_model.LogisticRegressionType); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), scalerOut)
	fmt.Fprintln(cmd.OutOrStdout(), classifierOut)
	return nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
