// Package mantar is a small web demo that tells whether a mushroom is edible
// from two attributes, gill size and gill color.
//
// A logistic regression and a standard scaler were fitted offline on the UCI
// mushroom dataset. Mantar loads them together with the dataset, encodes the
// user's selection the same way the training table was encoded, and shows the
// class probabilities on a Turkish language page.
//
// # Quick Start
//
//	go run ./cmd/mantar serve
//	go run ./cmd/mantar predict --gill-size n --gill-color w
//	go run ./cmd/mantar check
//
// The page is served on :8501 by default. Settings come from MANTAR_*
// environment variables or a .env file; command-line flags override both.
//
// # Packages
//
//   - dataset: CSV loading, value counts and row sampling
//   - preprocessing: first-seen label encoding and the standard scaler
//   - sklearn/linear_model: binary logistic regression
//   - core/model: fitted state, weight documents and gob/JSON persistence
//   - catalog: raw dataset letters mapped to Turkish display labels
//   - inference: artifact loading, the scaler → classifier pipeline, evaluation
//   - metrics: accuracy, AUC, log loss and confusion matrix
//   - chart: class distribution bar chart (gonum/plot)
//   - web: fiber server, templates and embedded assets
//   - internal/cli: serve, predict, check and convert commands
//   - pkg/errors, pkg/log: error types and structured logging
//
// # Artifacts
//
// Artifacts are stored as JSON weight documents (artifacts/*.json) and can be
// rewritten as gob with "mantar convert". Both formats load the same way;
// the file extension picks the codec.
package mantar
