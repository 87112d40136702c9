package preprocessing

import (
	"bytes"
	"math"
	"testing"

	"github.com/YuminosukeSato/mantar/core/model"
	"github.com/YuminosukeSato/mantar/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

func TestStandardScaler_FitTransform(t *testing.T) {
	// gill-size, gill-color codes
	X := mat.NewDense(4, 2, []float64{
		0, 0,
		1, 2,
		1, 4,
		0, 6,
	})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	wantMean := []float64{0.5, 3}
	wantScale := []float64{0.5, math.Sqrt(5)}
	for j := range wantMean {
		if math.Abs(scaler.Mean[j]-wantMean[j]) > 1e-12 {
			t.Errorf("Mean[%d] = %v, want %v", j, scaler.Mean[j], wantMean[j])
		}
		if math.Abs(scaler.Scale[j]-wantScale[j]) > 1e-12 {
			t.Errorf("Scale[%d] = %v, want %v", j, scaler.Scale[j], wantScale[j])
		}
	}

	// 各列の平均は0になる
	r, c := scaled.Dims()
	for j := 0; j < c; j++ {
		sum := 0.0
		for i := 0; i < r; i++ {
			sum += scaled.At(i, j)
		}
		if math.Abs(sum/float64(r)) > 1e-12 {
			t.Errorf("column %d mean = %v, want 0", j, sum/float64(r))
		}
	}
}

func TestStandardScaler_ConstantColumn(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{2, 2, 2})
	scaler := NewStandardScalerDefault()
	if err := scaler.Fit(X); err != nil {
		t.Fatal(err)
	}
	if scaler.Scale[0] != 1.0 {
		t.Errorf("constant column scale = %v, want 1", scaler.Scale[0])
	}
}

func TestStandardScaler_InverseTransform(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{0, 1, 1, 5, 0, 9})
	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatal(err)
	}
	back, err := scaler.InverseTransform(scaled)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.EqualApprox(X, back, 1e-12) {
		t.Errorf("InverseTransform did not restore input: %v", mat.Formatted(back))
	}
}

func TestStandardScaler_Errors(t *testing.T) {
	scaler := NewStandardScalerDefault()

	_, err := scaler.Transform(mat.NewDense(1, 2, []float64{0, 1}))
	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Errorf("expected NotFittedError, got %v", err)
	}

	if err := scaler.Fit(mat.NewDense(2, 2, []float64{0, 1, 1, 0})); err != nil {
		t.Fatal(err)
	}
	_, err = scaler.Transform(mat.NewDense(1, 3, []float64{0, 1, 2}))
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("expected DimensionError, got %v", err)
	}
	if dimErr.Expected != 2 || dimErr.Got != 3 {
		t.Errorf("DimensionError = %+v", dimErr)
	}
}

func TestStandardScaler_WeightsRoundTrip(t *testing.T) {
	scaler := NewStandardScalerDefault()
	if err := scaler.Fit(mat.NewDense(3, 2, []float64{0, 1, 1, 5, 0, 9})); err != nil {
		t.Fatal(err)
	}

	weights, err := scaler.ExportWeights()
	if err != nil {
		t.Fatal(err)
	}
	data, err := weights.ToJSON()
	if err != nil {
		t.Fatal(err)
	}

	var decoded model.ModelWeights
	if err := decoded.FromJSON(data); err != nil {
		t.Fatal(err)
	}
	restored := NewStandardScalerDefault()
	if err := restored.ImportWeights(&decoded); err != nil {
		t.Fatalf("ImportWeights failed: %v", err)
	}

	in := mat.NewDense(1, 2, []float64{1, 3})
	want, _ := scaler.Transform(in)
	got, err := restored.Transform(in)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.EqualApprox(want, got, 1e-12) {
		t.Errorf("restored scaler differs: want %v got %v", mat.Formatted(want), mat.Formatted(got))
	}
}

func TestStandardScaler_GobRoundTrip(t *testing.T) {
	scaler := NewStandardScalerDefault()
	if err := scaler.Fit(mat.NewDense(2, 2, []float64{0, 2, 1, 4})); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := model.SaveModelToWriter(scaler, &buf); err != nil {
		t.Fatalf("SaveModelToWriter: %v", err)
	}
	var restored StandardScaler
	if err := model.LoadModelFromReader(&restored, &buf); err != nil {
		t.Fatalf("LoadModelFromReader: %v", err)
	}
	if !restored.IsFitted() || restored.NFeaturesIn() != 2 {
		t.Errorf("restored scaler = %s", restored.String())
	}
	if restored.Mean[1] != 3 {
		t.Errorf("Mean[1] = %v, want 3", restored.Mean[1])
	}
}

func TestStandardScaler_ImportRejectsZeroScale(t *testing.T) {
	w := &model.ModelWeights{
		ModelType:    StandardScalerType,
		Version:      model.WeightsVersion,
		Coefficients: []float64{0.5, 4},
		Metadata:     map[string]interface{}{"scale": []interface{}{0.5, 0.0}},
		IsFitted:     true,
	}
	err := NewStandardScalerDefault().ImportWeights(w)
	var valErr *errors.ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}
