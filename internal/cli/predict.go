package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/YuminosukeSato/mantar/catalog"
	"github.com/YuminosukeSato/mantar/inference"
	"github.com/spf13/cobra"
)

var (
	predictGillSize  string
	predictGillColor string
	predictJSON      bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict edibility for one gill size and gill color",
	Long: `Run the pipeline once and print the prediction.

Values may be raw dataset letters or integer codes.

Examples:
  mantar predict --gill-size n --gill-color w
  mantar predict --gill-size 1 --gill-color 0
  mantar predict --gill-size b --gill-color k --json`,
	Args: cobra.NoArgs,
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().StringVar(&predictGillSize, "gill-size", "", "gill size (letter or code)")
	predictCmd.Flags().StringVar(&predictGillColor, "gill-color", "", "gill color (letter or code)")
	predictCmd.Flags().BoolVar(&predictJSON, "json", false, "print JSON")
	_ = predictCmd.MarkFlagRequired("gill-size")
	_ = predictCmd.MarkFlagRequired("gill-color")
}

type predictOutput struct {
	GillSize      string     `json:"gill_size"`
	GillColor     string     `json:"gill_color"`
	Codes         [2]int     `json:"codes"`
	Class         int        `json:"class"`
	Label         string     `json:"label"`
	Probabilities [2]float64 `json:"probabilities"`
}

func runPredict(cmd *cobra.Command, args []string) error {
	d, err := loadDemo()
	if err != nil {
		return err
	}

	sel, err := d.Encoding.Resolve(predictGillSize, predictGillColor)
	if err != nil {
		return err
	}
	pred, err := d.Pipeline.Predict(sel)
	if err != nil {
		return err
	}

	size, color := d.Encoding.Labels(sel)
	out := predictOutput{
		GillSize:      size,
		GillColor:     color,
		Codes:         [2]int{sel.GillSize, sel.GillColor},
		Class:         pred.Class,
		Label:         pred.Label,
		Probabilities: pred.Probabilities,
	}

	if predictJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	printPrediction(cmd.OutOrStdout(), out)
	return nil
}

func printPrediction(w io.Writer, p predictOutput) {
	fmt.Fprintf(w, "%s: %s (%d)\n", catalog.ColumnLabel(catalog.GillSize), p.GillSize, p.Codes[0])
	fmt.Fprintf(w, "%s: %s (%d)\n", catalog.ColumnLabel(catalog.GillColor), p.GillColor, p.Codes[1])
	fmt.Fprintf(w, "Tahmin: %s\n", p.Label)
	fmt.Fprintf(w, "Yenilebilir Olasılığı: %.2f\n", p.Probabilities[inference.ClassEdible])
	fmt.Fprintf(w, "Zehirli Olasılığı: %.2f\n", p.Probabilities[inference.ClassPoisonous])
}
