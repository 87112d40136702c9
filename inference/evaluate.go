package inference

import (
	"github.com/YuminosukeSato/mantar/catalog"
	"github.com/YuminosukeSato/mantar/metrics"
	"github.com/YuminosukeSato/mantar/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Report summarises how the loaded classifier does on a labelled table.
type Report struct {
	Samples  int
	Accuracy float64
	AUC      float64
	LogLoss  float64
	// Confusion rows are true classes, columns predicted, both ordered
	// poisonous then edible.
	Confusion *mat.Dense
}

// Targets converts raw class letters into class indices.
func Targets(classes []string) ([]int, error) {
	out := make([]int, len(classes))
	for i, c := range classes {
		switch c {
		case "p":
			out[i] = ClassPoisonous
		case "e":
			out[i] = ClassEdible
		default:
			return nil, errors.NewUnknownCategoryError(catalog.Class, c)
		}
	}
	return out, nil
}

// Evaluate scores the pipeline on feature rows X (n × 2) and targets y.
// It only reads the models.
func (p *Pipeline) Evaluate(X mat.Matrix, y []int) (*Report, error) {
	n, _ := X.Dims()
	if n != len(y) {
		return nil, errors.NewDimensionError("inference.Pipeline.Evaluate", n, len(y), 0)
	}
	if n == 0 {
		return nil, errors.ErrEmptyData
	}

	probs, err := p.PredictProba(X)
	if err != nil {
		return nil, err
	}

	yTrue := mat.NewVecDense(n, nil)
	yPred := mat.NewVecDense(n, nil)
	yProb := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yTrue.SetVec(i, float64(y[i]))
		p0, p1 := probs.At(i, 0), probs.At(i, 1)
		yProb.SetVec(i, p1)
		if p1 > p0 {
			yPred.SetVec(i, ClassEdible)
		}
	}

	r := &Report{Samples: n}
	if r.Accuracy, err = metrics.Accuracy(yTrue, yPred); err != nil {
		return nil, err
	}
	if r.AUC, err = metrics.AUC(yTrue, yProb); err != nil {
		return nil, err
	}
	if r.LogLoss, err = metrics.BinaryLogLoss(yTrue, yProb); err != nil {
		return nil, err
	}
	if r.Confusion, err = metrics.ConfusionMatrix(yTrue, yPred, []int{ClassPoisonous, ClassEdible}); err != nil {
		return nil, err
	}
	return r, nil
}
