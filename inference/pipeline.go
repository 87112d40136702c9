// Package inference composes the fitted scaler and classifier into the
// prediction pipeline of the demo:
//
//	predict(selection) = classifier(scaler([gill_size, gill_color]))
//
// Class 0 is poisonous and class 1 is edible. A Pipeline holds no mutable
// state and may be shared by concurrent requests.
package inference

import (
	"time"

	"github.com/YuminosukeSato/mantar/catalog"
	"github.com/YuminosukeSato/mantar/core/model"
	"github.com/YuminosukeSato/mantar/pkg/errors"
	"github.com/YuminosukeSato/mantar/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// NumFeatures is the width of a selection record.
const NumFeatures = 2

// Class indices as trained.
const (
	ClassPoisonous = 0
	ClassEdible    = 1
)

// Selection is the pair of encoded attributes the user picked.
type Selection struct {
	GillSize  int
	GillColor int
}

// Vector returns the selection as a 1×2 feature row.
func (s Selection) Vector() *mat.Dense {
	return mat.NewDense(1, NumFeatures, []float64{float64(s.GillSize), float64(s.GillColor)})
}

// Prediction is the result of one pipeline run.
type Prediction struct {
	Class int
	Label string
	// Probabilities holds [P(poisonous), P(edible)].
	Probabilities [2]float64
}

// Poisonous returns P(class 0).
func (p Prediction) Poisonous() float64 { return p.Probabilities[ClassPoisonous] }

// Edible returns P(class 1).
func (p Prediction) Edible() float64 { return p.Probabilities[ClassEdible] }

// LabelOf maps a class index to its display label.
func LabelOf(class int) string {
	if class == ClassEdible {
		return catalog.Edible
	}
	return catalog.Poisonous
}

// Pipeline is scaler followed by classifier.
type Pipeline struct {
	scaler     model.Transformer
	classifier model.Classifier
	logger     log.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the logger used for prediction records.
func WithLogger(l log.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// NewPipeline composes scaler and classifier.
func NewPipeline(scaler model.Transformer, classifier model.Classifier, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		scaler:     scaler,
		classifier: classifier,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.Default()
	}
	p.logger = p.logger.With(log.ComponentKey, "inference")
	return p
}

// Pipeline builds the prediction pipeline over the loaded artifacts.
func (a *Artifacts) Pipeline(opts ...PipelineOption) *Pipeline {
	return NewPipeline(a.Scaler, a.Classifier, opts...)
}

// Predict runs one selection through the pipeline. The label is derived
// from the probabilities: poisonous iff P(poisonous) >= P(edible).
func (p *Pipeline) Predict(sel Selection) (Prediction, error) {
	start := time.Now()

	probs, err := p.PredictProba(sel.Vector())
	if err != nil {
		p.logger.Error("prediction failed", err,
			log.OperationKey, log.OperationPredict,
			log.PhaseKey, log.PhaseInference,
		)
		return Prediction{}, err
	}

	pred := Prediction{Probabilities: [2]float64{probs.At(0, 0), probs.At(0, 1)}}
	pred.Class = ClassPoisonous
	if pred.Edible() > pred.Poisonous() {
		pred.Class = ClassEdible
	}
	pred.Label = LabelOf(pred.Class)

	p.logger.Debug("prediction served",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.PredsKey, pred.Label,
		log.ConfidenceKey, pred.Probabilities[pred.Class],
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return pred, nil
}

// PredictProba transforms X (n × 2) and returns the class probabilities
// (n × 2). A panic inside either model is returned as a PanicError.
func (p *Pipeline) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	var probs mat.Matrix
	err := errors.SafeExecute("inference.Pipeline.PredictProba", func() error {
		scaled, err := p.scaler.Transform(X)
		if err != nil {
			return errors.Wrap(err, "scale selection")
		}
		probs, err = p.classifier.PredictProba(scaled)
		if err != nil {
			return errors.Wrap(err, "classify selection")
		}
		r, c := probs.Dims()
		if c != 2 {
			return errors.NewDimensionError("inference.Pipeline.PredictProba", 2, c, 1)
		}
		for i := 0; i < r; i++ {
			row := []float64{probs.At(i, 0), probs.At(i, 1)}
			if err := errors.CheckNumericalStability("predict_proba", row, i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return probs, nil
}
