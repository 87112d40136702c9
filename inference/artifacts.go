package inference

import (
	"path/filepath"
	"strings"

	"github.com/YuminosukeSato/mantar/core/model"
	"github.com/YuminosukeSato/mantar/pkg/errors"
	"github.com/YuminosukeSato/mantar/preprocessing"
	"github.com/YuminosukeSato/mantar/sklearn/linear_model"
)

// Artifact file formats, chosen by extension.
const (
	FormatJSON = "json"
	FormatGob  = "gob"
)

// Artifacts is the fitted scaler and classifier pair.
type Artifacts struct {
	Scaler     *preprocessing.StandardScaler
	Classifier *linear_model.LogisticRegression
}

// FormatOf returns the artifact format for a path.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".gob":
		return FormatGob, nil
	default:
		return "", errors.ErrUnknownFormat
	}
}

// LoadArtifacts reads both artifacts and checks they agree on the feature
// count. No retraining happens here.
func LoadArtifacts(scalerPath, classifierPath string) (*Artifacts, error) {
	scaler := preprocessing.NewStandardScalerDefault()
	if err := LoadArtifact(scaler, scalerPath, preprocessing.StandardScalerType); err != nil {
		return nil, err
	}

	clf := linear_model.NewLogisticRegression()
	if err := LoadArtifact(clf, classifierPath, linear_model.LogisticRegressionType); err != nil {
		return nil, err
	}

	if scaler.NFeaturesIn() != NumFeatures {
		return nil, errors.NewArtifactError(scalerPath, formatOrEmpty(scalerPath), preprocessing.StandardScalerType,
			errors.NewDimensionError("LoadArtifacts", NumFeatures, scaler.NFeaturesIn(), 1))
	}
	if clf.NFeaturesIn() != scaler.NFeaturesIn() {
		return nil, errors.NewArtifactError(classifierPath, formatOrEmpty(classifierPath), linear_model.LogisticRegressionType,
			errors.NewDimensionError("LoadArtifacts", scaler.NFeaturesIn(), clf.NFeaturesIn(), 1))
	}
	if c := clf.Classes(); c[0] != ClassPoisonous || c[1] != ClassEdible {
		return nil, errors.NewArtifactError(classifierPath, formatOrEmpty(classifierPath), linear_model.LogisticRegressionType,
			errors.NewValidationError("classes", "expected [0 1]", c))
	}

	return &Artifacts{Scaler: scaler, Classifier: clf}, nil
}

// LoadArtifact restores one model from path. Failures are wrapped in an
// ArtifactError naming the path, format and kind.
func LoadArtifact(m model.WeightExporter, path, kind string) error {
	format, err := FormatOf(path)
	if err != nil {
		return errors.NewArtifactError(path, "", kind, err)
	}

	switch format {
	case FormatJSON:
		err = model.LoadWeights(m, path)
	case FormatGob:
		err = model.LoadModel(m, path)
	}
	if err != nil {
		return errors.NewArtifactError(path, format, kind, err)
	}
	return nil
}

// SaveArtifact writes one fitted model to path in the format its extension
// names.
func SaveArtifact(m model.WeightExporter, path, kind string) error {
	format, err := FormatOf(path)
	if err != nil {
		return errors.NewArtifactError(path, "", kind, err)
	}

	switch format {
	case FormatJSON:
		err = model.SaveWeights(m, path)
	case FormatGob:
		err = model.SaveModel(m, path)
	}
	if err != nil {
		return errors.NewArtifactError(path, format, kind, err)
	}
	return nil
}

func formatOrEmpty(path string) string {
	f, _ := FormatOf(path)
	return f
}
