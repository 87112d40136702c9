package inference

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/mantar/pkg/errors"
	"github.com/YuminosukeSato/mantar/preprocessing"
	"github.com/YuminosukeSato/mantar/sklearn/linear_model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLoadArtifacts_Shipped(t *testing.T) {
	a := loadShipped(t)

	assert.True(t, a.Scaler.IsFitted())
	assert.True(t, a.Classifier.IsFitted())
	assert.Equal(t, NumFeatures, a.Scaler.NFeaturesIn())
	assert.Equal(t, NumFeatures, a.Classifier.NFeaturesIn())
	assert.Equal(t, []int{ClassPoisonous, ClassEdible}, a.Classifier.Classes())
}

func TestArtifacts_GobRoundTrip(t *testing.T) {
	a := loadShipped(t)
	dir := t.TempDir()
	scalerPath := filepath.Join(dir, "scaler.gob")
	clfPath := filepath.Join(dir, "logreg_model.gob")

	require.NoError(t, SaveArtifact(a.Scaler, scalerPath, preprocessing.StandardScalerType))
	require.NoError(t, SaveArtifact(a.Classifier, clfPath, linear_model.LogisticRegressionType))

	b, err := LoadArtifacts(scalerPath, clfPath)
	require.NoError(t, err)

	sel := Selection{GillSize: 0, GillColor: 9}
	want, err := a.Pipeline().Predict(sel)
	require.NoError(t, err)
	got, err := b.Pipeline().Predict(sel)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestArtifacts_JSONRoundTrip(t *testing.T) {
	a := loadShipped(t)
	dir := t.TempDir()
	scalerPath := filepath.Join(dir, "scaler.json")
	clfPath := filepath.Join(dir, "logreg_model.json")

	require.NoError(t, SaveArtifact(a.Scaler, scalerPath, preprocessing.StandardScalerType))
	require.NoError(t, SaveArtifact(a.Classifier, clfPath, linear_model.LogisticRegressionType))

	b, err := LoadArtifacts(scalerPath, clfPath)
	require.NoError(t, err)
	assert.Equal(t, a.Scaler.Mean, b.Scaler.Mean)
	assert.Equal(t, a.Classifier.Coef(), b.Classifier.Coef())
	assert.Equal(t, a.Classifier.Intercept(), b.Classifier.Intercept())
}

func TestLoadArtifacts_Errors(t *testing.T) {
	dir := t.TempDir()

	// a scaler fitted on three features
	wide := preprocessing.NewStandardScalerDefault()
	require.NoError(t, wide.Fit(mat.NewDense(2, 3, []float64{0, 1, 2, 1, 2, 4})))
	widePath := filepath.Join(dir, "wide.json")
	require.NoError(t, SaveArtifact(wide, widePath, preprocessing.StandardScalerType))

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("{not json"), 0o644))

	tests := []struct {
		name       string
		scaler     string
		classifier string
		path       string
		format     string
		check      func(t *testing.T, err error)
	}{
		{
			name:       "missing scaler",
			scaler:     filepath.Join(dir, "missing.json"),
			classifier: shippedClassifier,
			path:       filepath.Join(dir, "missing.json"),
			format:     FormatJSON,
		},
		{
			name:       "unknown extension",
			scaler:     shippedScaler,
			classifier: filepath.Join(dir, "model.pkl"),
			path:       filepath.Join(dir, "model.pkl"),
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, errors.ErrUnknownFormat))
			},
		},
		{
			name:       "corrupt classifier",
			scaler:     shippedScaler,
			classifier: garbage,
			path:       garbage,
			format:     FormatJSON,
		},
		{
			name:       "scaler is a classifier",
			scaler:     shippedClassifier,
			classifier: shippedClassifier,
			path:       shippedClassifier,
			format:     FormatJSON,
			check: func(t *testing.T, err error) {
				var ve *errors.ValidationError
				assert.True(t, errors.As(err, &ve))
			},
		},
		{
			name:       "feature count mismatch",
			scaler:     widePath,
			classifier: shippedClassifier,
			path:       widePath,
			format:     FormatJSON,
			check: func(t *testing.T, err error) {
				var de *errors.DimensionError
				require.True(t, errors.As(err, &de))
				assert.Equal(t, NumFeatures, de.Expected)
				assert.Equal(t, 3, de.Got)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadArtifacts(tt.scaler, tt.classifier)
			require.Error(t, err)

			var ae *errors.ArtifactError
			require.True(t, errors.As(err, &ae), "got %v", err)
			assert.Equal(t, tt.path, ae.Path)
			assert.Equal(t, tt.format, ae.Format)
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}
