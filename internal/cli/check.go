package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/YuminosukeSato/mantar/catalog"
	"github.com/YuminosukeSato/mantar/inference"
	"github.com/YuminosukeSato/mantar/internal/app"
	"github.com/YuminosukeSato/mantar/pkg/errors"
	"github.com/spf13/cobra"
)

var checkStrict bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the dataset, encoders, catalog and artifacts",
	Long: `Load everything the demo needs and report on it: the code space of each
feature encoder, catalog coverage, artifact dimensions, and how the
classifier scores on the dataset. Nothing is retrained or written.

Examples:
  mantar check
  mantar check --strict`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "fail when the catalog does not cover the dataset")
}

func runCheck(cmd *cobra.Command, args []string) error {
	d, err := loadDemo()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Dataset: %s (%d rows, %d columns)\n\n", cfg.DatasetPath, d.Table.Len(), len(d.Table.Header))
	printEncoders(out, d)
	printCatalog(out, d)
	printArtifacts(out, d)

	report, err := d.Evaluate()
	if err != nil {
		return err
	}
	printReport(out, report)

	if checkStrict && len(d.Drift) > 0 {
		return errors.Newf("catalog does not cover %d attribute(s)", len(d.Drift))
	}
	return nil
}

func printEncoders(w io.Writer, d *app.Demo) {
	fmt.Fprintln(w, "Encoders")
	fmt.Fprintln(w, "════════")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, column := range []string{catalog.GillSize, catalog.GillColor} {
		opts := d.Encoding.Options(column)
		codes := make([]string, len(opts))
		for i, o := range opts {
			codes[i] = fmt.Sprintf("%d=%s(%s)", o.Code, o.Raw, o.Label)
		}
		fmt.Fprintf(tw, "%s\t%d codes\t%s\n", column, len(opts), strings.Join(codes, " "))
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func printCatalog(w io.Writer, d *app.Demo) {
	fmt.Fprintln(w, "Catalog")
	fmt.Fprintln(w, "═══════")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, column := range catalog.Columns() {
		le, ok := d.Encoder.Encoder(column)
		if !ok {
			fmt.Fprintf(tw, "%s\tnot in dataset\n", column)
			continue
		}
		missing, unused := catalog.Drift(column, le.Classes())
		status := "ok"
		if len(missing) > 0 {
			status = "missing: " + strings.Join(missing, ",")
		}
		if len(unused) > 0 {
			status += "\tunused: " + strings.Join(unused, ",")
		}
		fmt.Fprintf(tw, "%s\t%s\n", column, status)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func printArtifacts(w io.Writer, d *app.Demo) {
	fmt.Fprintln(w, "Artifacts")
	fmt.Fprintln(w, "═════════")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "scaler\t%s\t%d features\n", cfg.ScalerPath, d.Artifacts.Scaler.NFeaturesIn())
	clf := d.Artifacts.Classifier
	fmt.Fprintf(tw, "classifier\t%s\t%d features\tclasses %v\n", cfg.ClassifierPath, clf.NFeaturesIn(), clf.Classes())
	tw.Flush()
	fmt.Fprintln(w)
}

func printReport(w io.Writer, r *inference.Report) {
	fmt.Fprintln(w, "Evaluation")
	fmt.Fprintln(w, "══════════")
	fmt.Fprintf(w, "samples:  %d\n", r.Samples)
	fmt.Fprintf(w, "accuracy: %.4f\n", r.Accuracy)
	fmt.Fprintf(w, "auc:      %.4f\n", r.AUC)
	fmt.Fprintf(w, "log loss: %.4f\n", r.LogLoss)
	fmt.Fprintln(w)

	// rows are true classes
	poisonous, edible := inference.LabelOf(inference.ClassPoisonous), inference.LabelOf(inference.ClassEdible)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\t%s\t%s\t\n", poisonous, edible)
	fmt.Fprintf(tw, "%s\t%.0f\t%.0f\t\n", poisonous, r.Confusion.At(0, 0), r.Confusion.At(0, 1))
	fmt.Fprintf(tw, "%s\t%.0f\t%.0f\t\n", edible, r.Confusion.At(1, 0), r.Confusion.At(1, 1))
	tw.Flush()
}
