package linear_model

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/YuminosukeSato/mantar/core/model"
	"github.com/YuminosukeSato/mantar/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LogisticRegressionType is the model_type written to exported weights.
const LogisticRegressionType = "LogisticRegression"

// LogisticRegression implements binary logistic regression.
// Compatible with scikit-learn's LogisticRegression for two classes:
// classes are sorted ascending, column 1 of PredictProba is the larger label,
// and a sample is assigned the larger label only when P(larger) > 0.5.
type LogisticRegression struct {
	state *model.StateManager // State management (composition)

	// Hyperparameters
	penalty      string  // Regularization: "l2", "none"
	C            float64 // Inverse regularization strength (1/alpha)
	fitIntercept bool    // Whether to fit intercept
	randomState  int64   // Random seed
	maxIter      int     // Maximum iterations
	tol          float64 // Tolerance for stopping

	// Model parameters
	coef_      []float64 // Coefficients (n_features)
	intercept_ float64   // Intercept term
	classes_   []int     // Sorted class labels, always two once fitted
	nFeatures_ int       // Number of features
	nIter_     int       // Iterations run by the last Fit

	rand *rand.Rand
}

// LogisticRegressionOption is a functional option for LogisticRegression
type LogisticRegressionOption func(*LogisticRegression)

// NewLogisticRegression creates a new LogisticRegression classifier
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		penalty:      "l2",
		C:            1.0,
		fitIntercept: true,
		randomState:  -1,
		maxIter:      100,
		tol:          1e-4,
	}

	for _, opt := range opts {
		opt(lr)
	}

	if lr.randomState >= 0 {
		lr.rand = rand.New(rand.NewSource(lr.randomState))
	} else {
		lr.rand = rand.New(rand.NewSource(rand.Int63()))
	}

	return lr
}

// WithLRPenalty sets the regularization type
func WithLRPenalty(penalty string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.penalty = penalty
	}
}

// WithLRC sets the inverse regularization strength
func WithLRC(c float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.C = c
	}
}

// WithLogisticFitIntercept sets whether to fit intercept
func WithLogisticFitIntercept(fit bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.fitIntercept = fit
	}
}

// WithLRMaxIter sets the maximum number of iterations
func WithLRMaxIter(maxIter int) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.maxIter = maxIter
	}
}

// WithLRTol sets the tolerance for stopping criteria
func WithLRTol(tol float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// WithLRRandomState sets the random seed
func WithLRRandomState(seed int64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.randomState = seed
	}
}

func (lr *LogisticRegression) stateManager() *model.StateManager {
	if lr.state == nil {
		lr.state = model.NewStateManager()
	}
	return lr.state
}

// Fit trains the model with gradient descent. y must hold exactly two
// distinct labels.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("LogisticRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if nSamples != yRows {
		return errors.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("LogisticRegression.Fit", 1, yCols, 1)
	}

	classes := extractClasses(y)
	if len(classes) != 2 {
		return errors.NewValidationError("y", "binary classification needs exactly two classes", classes)
	}

	if lr.rand == nil {
		lr.rand = rand.New(rand.NewSource(rand.Int63()))
	}

	lr.classes_ = classes
	lr.nFeatures_ = nFeatures
	lr.coef_ = make([]float64, nFeatures)
	for j := range lr.coef_ {
		lr.coef_[j] = lr.rand.NormFloat64() * 0.01
	}
	lr.intercept_ = 0

	target := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		if int(y.At(i, 0)) == classes[1] {
			target[i] = 1
		}
	}

	if !lr.gradientDescent(X, target) {
		errors.Warn(errors.NewConvergenceWarning(LogisticRegressionType, lr.nIter_, ""))
	}

	lr.stateManager().SetDimensions(nFeatures, nSamples)
	lr.stateManager().SetFitted()
	return nil
}

// extractClasses returns the sorted distinct labels of y
func extractClasses(y mat.Matrix) []int {
	rows, _ := y.Dims()
	seen := make(map[int]bool)
	var classes []int
	for i := 0; i < rows; i++ {
		label := int(y.At(i, 0))
		if !seen[label] {
			seen[label] = true
			classes = append(classes, label)
		}
	}
	sort.Ints(classes)
	return classes
}

// gradientDescent minimises the mean log-loss (plus L2 term) and reports
// whether the largest gradient component dropped below tol.
func (lr *LogisticRegression) gradientDescent(X mat.Matrix, target []float64) bool {
	nSamples, nFeatures := X.Dims()
	baseLearningRate := 1.0
	gradWeights := make([]float64, nFeatures)

	for iter := 0; iter < lr.maxIter; iter++ {
		for j := range gradWeights {
			gradWeights[j] = 0
		}
		gradIntercept := 0.0

		for i := 0; i < nSamples; i++ {
			residual := sigmoid(lr.decision(X, i)) - target[i]
			gradIntercept += residual
			for j := 0; j < nFeatures; j++ {
				gradWeights[j] += residual * X.At(i, j)
			}
		}

		for j := range gradWeights {
			gradWeights[j] /= float64(nSamples)
		}
		gradIntercept /= float64(nSamples)

		if lr.penalty == "l2" {
			lambda := 1.0 / lr.C
			for j := range lr.coef_ {
				gradWeights[j] += lambda * lr.coef_[j]
			}
		}

		learningRate := baseLearningRate / (1.0 + 0.1*float64(iter))
		if lr.penalty == "l2" {
			// ステップ幅の上限は 1/(1+λ)
			learningRate = math.Min(learningRate, 1.0/(1.0+1.0/lr.C))
		}
		for j := range lr.coef_ {
			lr.coef_[j] -= learningRate * gradWeights[j]
		}
		if lr.fitIntercept {
			lr.intercept_ -= learningRate * gradIntercept
		}

		lr.nIter_ = iter + 1

		maxGrad := 0.0
		if lr.fitIntercept {
			maxGrad = math.Abs(gradIntercept)
		}
		for _, g := range gradWeights {
			maxGrad = math.Max(maxGrad, math.Abs(g))
		}
		if maxGrad < lr.tol {
			return true
		}
	}

	return false
}

// decision computes w·x_i + b for row i
func (lr *LogisticRegression) decision(X mat.Matrix, i int) float64 {
	z := lr.intercept_
	for j := 0; j < lr.nFeatures_; j++ {
		z += X.At(i, j) * lr.coef_[j]
	}
	return z
}

func (lr *LogisticRegression) checkInput(X mat.Matrix, method string) error {
	if err := lr.stateManager().RequireFitted(LogisticRegressionType, method); err != nil {
		return err
	}
	if _, c := X.Dims(); c != lr.nFeatures_ {
		return errors.NewDimensionError("LogisticRegression."+method, lr.nFeatures_, c, 1)
	}
	return nil
}

// DecisionFunction returns the signed distance to the hyperplane (n_samples × 1)
func (lr *LogisticRegression) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.checkInput(X, "DecisionFunction"); err != nil {
		return nil, err
	}
	nSamples, _ := X.Dims()
	out := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		out.Set(i, 0, lr.decision(X, i))
	}
	return out, nil
}

// Predict makes predictions for input data
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.checkInput(X, "Predict"); err != nil {
		return nil, err
	}

	nSamples, _ := X.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		label := lr.classes_[0]
		if lr.decision(X, i) > 0 {
			label = lr.classes_[1]
		}
		predictions.Set(i, 0, float64(label))
	}

	return predictions, nil
}

// PredictProba returns probability estimates for each class
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.checkInput(X, "PredictProba"); err != nil {
		return nil, err
	}

	nSamples, _ := X.Dims()
	probas := mat.NewDense(nSamples, 2, nil)
	for i := 0; i < nSamples; i++ {
		prob1 := sigmoid(lr.decision(X, i))
		probas.Set(i, 0, 1.0-prob1)
		probas.Set(i, 1, prob1)
	}

	return probas, nil
}

// Score returns the mean accuracy on the given test data and labels
func (lr *LogisticRegression) Score(X, y mat.Matrix) float64 {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0.0
	}

	nSamples, _ := X.Dims()
	correct := 0
	for i := 0; i < nSamples; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}

	return float64(correct) / float64(nSamples)
}

// Classes returns the sorted class labels seen during fitting
func (lr *LogisticRegression) Classes() []int {
	return append([]int(nil), lr.classes_...)
}

// NFeaturesIn returns the number of features seen during fitting
func (lr *LogisticRegression) NFeaturesIn() int {
	return lr.nFeatures_
}

// IsFitted reports whether Fit or ImportWeights has completed
func (lr *LogisticRegression) IsFitted() bool {
	return lr.stateManager().IsFitted()
}

// Coef returns a copy of the coefficients
func (lr *LogisticRegression) Coef() []float64 {
	return append([]float64(nil), lr.coef_...)
}

// Intercept returns the intercept term
func (lr *LogisticRegression) Intercept() float64 {
	return lr.intercept_
}

// NIter returns the number of iterations run by the last Fit
func (lr *LogisticRegression) NIter() int {
	return lr.nIter_
}

// GetParams returns the model hyperparameters
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"penalty":       lr.penalty,
		"C":             lr.C,
		"fit_intercept": lr.fitIntercept,
		"random_state":  lr.randomState,
		"max_iter":      lr.maxIter,
		"tol":           lr.tol,
	}
}

// SetParams sets the model hyperparameters
func (lr *LogisticRegression) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		var ok bool
		switch key {
		case "penalty":
			lr.penalty, ok = value.(string)
		case "C":
			lr.C, ok = value.(float64)
		case "fit_intercept":
			lr.fitIntercept, ok = value.(bool)
		case "random_state":
			lr.randomState, ok = value.(int64)
			if ok && lr.randomState >= 0 {
				lr.rand = rand.New(rand.NewSource(lr.randomState))
			}
		case "max_iter":
			lr.maxIter, ok = value.(int)
		case "tol":
			lr.tol, ok = value.(float64)
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
		if !ok {
			return errors.NewValidationError(key, fmt.Sprintf("unexpected type %T", value), value)
		}
	}
	return nil
}

// ExportWeights writes coefficients, intercept and classes as ModelWeights
func (lr *LogisticRegression) ExportWeights() (*model.ModelWeights, error) {
	if err := lr.stateManager().RequireFitted(LogisticRegressionType, "ExportWeights"); err != nil {
		return nil, err
	}
	classes := make([]float64, len(lr.classes_))
	for i, c := range lr.classes_ {
		classes[i] = float64(c)
	}
	return &model.ModelWeights{
		ModelType:    LogisticRegressionType,
		Version:      model.WeightsVersion,
		Coefficients: lr.Coef(),
		Intercept:    lr.intercept_,
		Hyperparameters: map[string]interface{}{
			"penalty":       lr.penalty,
			"C":             lr.C,
			"fit_intercept": lr.fitIntercept,
		},
		Metadata: map[string]interface{}{
			"classes": classes,
			"n_iter":  lr.nIter_,
		},
		IsFitted: true,
	}, nil
}

// ImportWeights restores a fitted binary model from ModelWeights.
// Missing classes default to [0, 1].
func (lr *LogisticRegression) ImportWeights(w *model.ModelWeights) error {
	if w.ModelType != LogisticRegressionType {
		return errors.NewValidationError("model_type", "expected "+LogisticRegressionType, w.ModelType)
	}
	if !w.IsFitted {
		return errors.NewNotFittedError(LogisticRegressionType, "ImportWeights")
	}
	if len(w.Coefficients) == 0 {
		return errors.NewValidationError("coefficients", "fitted model must have coefficients", 0)
	}
	for j, v := range w.Coefficients {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.NewValidationError(fmt.Sprintf("coefficients[%d]", j), "must be finite", v)
		}
	}

	classes := []int{0, 1}
	if _, ok := w.Metadata["classes"]; ok {
		raw, err := w.Floats("classes")
		if err != nil {
			return err
		}
		if len(raw) != 2 || raw[0] >= raw[1] {
			return errors.NewValidationError("metadata.classes", "must be two ascending labels", raw)
		}
		classes = []int{int(raw[0]), int(raw[1])}
	}

	if p, ok := w.Hyperparameters["penalty"].(string); ok {
		lr.penalty = p
	}
	if c, ok := w.Hyperparameters["C"].(float64); ok {
		lr.C = c
	}
	if fi, ok := w.Hyperparameters["fit_intercept"].(bool); ok {
		lr.fitIntercept = fi
	}

	lr.coef_ = append([]float64(nil), w.Coefficients...)
	lr.intercept_ = w.Intercept
	lr.classes_ = classes
	lr.nFeatures_ = len(w.Coefficients)
	lr.stateManager().SetDimensions(lr.nFeatures_, 0)
	lr.stateManager().SetFitted()
	return nil
}

// GobEncode stores the model through its ModelWeights document
func (lr *LogisticRegression) GobEncode() ([]byte, error) {
	return model.GobEncodeWeights(lr)
}

// GobDecode is the inverse of GobEncode
func (lr *LogisticRegression) GobDecode(data []byte) error {
	return model.GobDecodeWeights(lr, data)
}

// String returns a short description of the model
func (lr *LogisticRegression) String() string {
	if !lr.IsFitted() {
		return fmt.Sprintf("LogisticRegression(penalty=%s, C=%g)", lr.penalty, lr.C)
	}
	return fmt.Sprintf("LogisticRegression(penalty=%s, C=%g, n_features=%d, classes=%v)",
		lr.penalty, lr.C, lr.nFeatures_, lr.classes_)
}

// sigmoid computes the logistic function without overflowing for large |z|
func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1.0 / (1.0 + errors.StabilizeExp(-z))
	}
	e := errors.StabilizeExp(z)
	return e / (1.0 + e)
}
