// Package log defines standard attribute keys for the demo's log records.
//
// Keys follow a hierarchical naming convention (e.g. "ml.operation",
// "data.samples") so records from the loader, the inference pipeline and the
// HTTP layer can be filtered the same way.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model involved.
	// Examples: "StandardScaler", "LogisticRegression"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "load", "transform", "predict", "encode"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package emitted the record.
	// Examples: "dataset", "inference", "web"
	ComponentKey = "ml.component"

	// PhaseKey indicates the lifecycle phase.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of rows processed.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of feature columns.
	FeaturesKey = "data.features"

	// PathKey records the file a component read.
	PathKey = "data.path"

	// AttributeKey names a categorical attribute (CSV column).
	AttributeKey = "data.attribute"
)

// Performance and prediction output
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records classifier accuracy in evaluation runs.
	AccuracyKey = "metrics.accuracy"

	// PredsKey indicates the predicted label.
	PredsKey = "preds.label"

	// ConfidenceKey records the probability of the predicted class.
	ConfidenceKey = "preds.confidence"
)

// HTTP request context
const (
	MethodKey    = "http.method"
	RouteKey     = "http.route"
	StatusKey    = "http.status"
	RequestIDKey = "http.request_id"
)

// Error and Warning Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// SuggestionKey provides helpful suggestions for resolving issues.
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationLoad      = "load"
	OperationEncode    = "encode"
	OperationTransform = "transform"
	OperationPredict   = "predict"
	OperationEvaluate  = "evaluate"

	PhaseStartup   = "startup"
	PhaseInference = "inference"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorCategoryDrift     = "CATEGORY_DRIFT"
)
