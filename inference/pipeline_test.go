package inference

import (
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/mantar/catalog"
	"github.com/YuminosukeSato/mantar/dataset"
	"github.com/YuminosukeSato/mantar/pkg/errors"
	"github.com/YuminosukeSato/mantar/pkg/log"
	"github.com/YuminosukeSato/mantar/preprocessing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var (
	shippedScaler     = filepath.Join("..", "artifacts", "scaler.json")
	shippedClassifier = filepath.Join("..", "artifacts", "logreg_model.json")
	shippedDataset    = filepath.Join("..", "data", "mushrooms.csv")
)

func loadShipped(t *testing.T) *Artifacts {
	t.Helper()
	a, err := LoadArtifacts(shippedScaler, shippedClassifier)
	require.NoError(t, err)
	return a
}

func TestPredict_Fixtures(t *testing.T) {
	p := loadShipped(t).Pipeline()

	tests := []struct {
		name      string
		sel       Selection
		label     string
		poisonous float64
	}{
		// narrow gills, code 9 (green in the shipped data)
		{"narrow code 9", Selection{GillSize: 0, GillColor: 9}, catalog.Poisonous, 0.9759288480219271},
		{"narrow black", Selection{GillSize: 0, GillColor: 0}, catalog.Poisonous, 0.8470693153752711},
		{"broad black", Selection{GillSize: 1, GillColor: 0}, catalog.Edible, 0.14068230927601166},
		{"broad code 9", Selection{GillSize: 1, GillColor: 9}, catalog.Poisonous, 0.5451128205620357},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := p.Predict(tt.sel)
			require.NoError(t, err)

			assert.Equal(t, tt.label, pred.Label)
			assert.InDelta(t, tt.poisonous, pred.Poisonous(), 1e-9)
			assert.InDelta(t, 1.0, pred.Poisonous()+pred.Edible(), 1e-12)
		})
	}
}

func TestPredict_LabelMatchesArgmax(t *testing.T) {
	a := loadShipped(t)
	p := a.Pipeline()

	for size := 0; size < 2; size++ {
		for color := 0; color < 12; color++ {
			pred, err := p.Predict(Selection{GillSize: size, GillColor: color})
			require.NoError(t, err)

			wantClass := ClassEdible
			if pred.Poisonous() >= pred.Edible() {
				wantClass = ClassPoisonous
			}
			assert.Equal(t, wantClass, pred.Class)
			assert.Equal(t, LabelOf(wantClass), pred.Label)

			// the classifier's own Predict agrees
			scaled, err := a.Scaler.Transform(Selection{size, color}.Vector())
			require.NoError(t, err)
			labels, err := a.Classifier.Predict(scaled)
			require.NoError(t, err)
			assert.Equal(t, float64(pred.Class), labels.At(0, 0))
		}
	}
}

func TestPredict_Pure(t *testing.T) {
	p := loadShipped(t).Pipeline()
	sel := Selection{GillSize: 1, GillColor: 4}

	first, err := p.Predict(sel)
	require.NoError(t, err)
	second, err := p.Predict(sel)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPredict_LogsAtDebug(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	p := loadShipped(t).Pipeline(WithLogger(logger))

	_, err := p.Predict(Selection{GillSize: 0, GillColor: 9})
	require.NoError(t, err)

	assert.True(t, logger.ContainsMessage("prediction served"))
	assert.True(t, logger.ContainsField(log.PredsKey, catalog.Poisonous))
	assert.True(t, logger.ContainsField(log.ComponentKey, "inference"))
}

type panickingClassifier struct{}

func (panickingClassifier) Predict(mat.Matrix) (mat.Matrix, error) { panic("boom") }
func (panickingClassifier) PredictProba(mat.Matrix) (mat.Matrix, error) {
	panic("coefficient slice shorter than features")
}
func (panickingClassifier) Classes() []int { return []int{0, 1} }

func TestPredict_RecoversPanic(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	p := NewPipeline(loadShipped(t).Scaler, panickingClassifier{}, WithLogger(logger))

	_, err := p.Predict(Selection{})
	require.Error(t, err)

	var pe *errors.PanicError
	assert.True(t, errors.As(err, &pe))
	assert.True(t, logger.ContainsMessage("prediction failed"))
}

func TestEvaluate_ShippedDataset(t *testing.T) {
	tbl, err := dataset.Load(shippedDataset)
	require.NoError(t, err)

	enc := preprocessing.NewTableEncoder()
	cols := []string{catalog.GillSize, catalog.GillColor}
	rows := make([][]string, tbl.Len())
	sizes, _ := tbl.Column(catalog.GillSize)
	colors, _ := tbl.Column(catalog.GillColor)
	for i := range rows {
		rows[i] = []string{sizes[i], colors[i]}
	}
	X, err := enc.FitTransform(cols, rows)
	require.NoError(t, err)

	classes, _ := tbl.Column(catalog.Class)
	y, err := Targets(classes)
	require.NoError(t, err)

	report, err := loadShipped(t).Pipeline().Evaluate(X, y)
	require.NoError(t, err)

	assert.Equal(t, 240, report.Samples)
	assert.InDelta(t, 0.8, report.Accuracy, 1e-12)
	assert.Greater(t, report.AUC, 0.5)
	want := mat.NewDense(2, 2, []float64{
		82, 38,
		10, 110,
	})
	assert.True(t, mat.Equal(want, report.Confusion), "confusion = %v", mat.Formatted(report.Confusion))

	_, err = loadShipped(t).Pipeline().Evaluate(X, y[:3])
	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))
}

func TestTargets(t *testing.T) {
	y, err := Targets([]string{"p", "e", "e"})
	require.NoError(t, err)
	assert.Equal(t, []int{ClassPoisonous, ClassEdible, ClassEdible}, y)

	_, err = Targets([]string{"x"})
	var uc *errors.UnknownCategoryError
	assert.True(t, errors.As(err, &uc))
}
