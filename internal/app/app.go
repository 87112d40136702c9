// Package app loads everything the demo needs at start-up: the dataset, its
// encoding, and the fitted artifacts. The result is read-only and shared by
// the web server and the CLI commands.
package app

import (
	"time"

	"github.com/YuminosukeSato/mantar/catalog"
	"github.com/YuminosukeSato/mantar/dataset"
	"github.com/YuminosukeSato/mantar/inference"
	"github.com/YuminosukeSato/mantar/internal/config"
	"github.com/YuminosukeSato/mantar/pkg/errors"
	"github.com/YuminosukeSato/mantar/pkg/log"
	"github.com/YuminosukeSato/mantar/preprocessing"
	"gonum.org/v1/gonum/mat"
)

// Demo is the loaded state of the demo.
type Demo struct {
	Table     *dataset.Table
	Encoder   *preprocessing.TableEncoder
	Encoded   *mat.Dense
	Encoding  *inference.Encoding
	Artifacts *inference.Artifacts
	Pipeline  *inference.Pipeline
	// Drift lists catalog mismatches found while loading. They are logged
	// and reported by the check command; loading still succeeds.
	Drift []*errors.CategoryDriftWarning
}

// Load reads the dataset and artifacts named by cfg.
func Load(cfg config.Config, logger log.Logger) (*Demo, error) {
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.With(log.ComponentKey, "app", log.PhaseKey, log.PhaseStartup)
	start := time.Now()

	tbl, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		return nil, err
	}
	logger.Info("dataset loaded",
		log.OperationKey, log.OperationLoad,
		log.PathKey, cfg.DatasetPath,
		log.SamplesKey, tbl.Len(),
		log.FeaturesKey, len(tbl.Header),
	)

	enc := preprocessing.NewTableEncoder()
	encoded, err := enc.FitTransform(tbl.Header, tbl.Rows)
	if err != nil {
		return nil, errors.Wrap(err, "encode dataset")
	}
	encoding, err := inference.NewEncoding(enc)
	if err != nil {
		return nil, err
	}

	d := &Demo{
		Table:    tbl,
		Encoder:  enc,
		Encoded:  encoded,
		Encoding: encoding,
	}

	for _, column := range catalog.Columns() {
		le, ok := enc.Encoder(column)
		if !ok {
			continue
		}
		if w := catalog.Check(column, le.Classes()); w != nil {
			d.Drift = append(d.Drift, w)
			logger.Warn("category drift",
				log.OperationKey, log.OperationEncode,
				log.AttributeKey, column,
				log.ErrorCodeKey, log.ErrorCategoryDrift,
				"missing", w.Missing,
			)
			errors.Warn(w)
		}
	}

	artifacts, err := inference.LoadArtifacts(cfg.ScalerPath, cfg.ClassifierPath)
	if err != nil {
		return nil, err
	}
	d.Artifacts = artifacts
	d.Pipeline = artifacts.Pipeline(inference.WithLogger(logger))

	logger.Info("artifacts loaded",
		log.OperationKey, log.OperationLoad,
		log.ModelNameKey, artifacts.Classifier.String(),
		log.FeaturesKey, artifacts.Scaler.NFeaturesIn(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return d, nil
}

// ClassCounts returns the frequency of each class, first-seen order.
func (d *Demo) ClassCounts() ([]dataset.ValueCount, error) {
	return d.Table.ValueCounts(catalog.Class)
}

// Features returns the encoded gill-size and gill-color columns (n × 2).
func (d *Demo) Features() (*mat.Dense, error) {
	sizeCol, ok := d.Table.ColumnIndex(catalog.GillSize)
	if !ok {
		return nil, errors.NewDatasetError(d.Table.Path, 0, "no column "+catalog.GillSize, nil)
	}
	colorCol, ok := d.Table.ColumnIndex(catalog.GillColor)
	if !ok {
		return nil, errors.NewDatasetError(d.Table.Path, 0, "no column "+catalog.GillColor, nil)
	}

	n, _ := d.Encoded.Dims()
	X := mat.NewDense(n, inference.NumFeatures, nil)
	X.SetCol(0, mat.Col(nil, sizeCol, d.Encoded))
	X.SetCol(1, mat.Col(nil, colorCol, d.Encoded))
	return X, nil
}

// Evaluate scores the loaded classifier against the whole dataset.
func (d *Demo) Evaluate() (*inference.Report, error) {
	X, err := d.Features()
	if err != nil {
		return nil, err
	}
	classes, err := d.Table.Column(catalog.Class)
	if err != nil {
		return nil, err
	}
	y, err := inference.Targets(classes)
	if err != nil {
		return nil, err
	}
	return d.Pipeline.Evaluate(X, y)
}
