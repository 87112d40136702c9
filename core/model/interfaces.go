// Package model provides the shared contracts of the fitted artifacts: the
// fitted-state tracker, the weight document used for JSON export, and the
// gob/JSON persistence helpers.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Transformer はデータ変換のインターフェース
type Transformer interface {
	// Transform はデータを変換する
	Transform(X mat.Matrix) (mat.Matrix, error)
}

// Classifier は確率付きの分類器のインターフェース
type Classifier interface {
	// Predict は各サンプルのクラスラベルを返す (n_samples × 1)
	Predict(X mat.Matrix) (mat.Matrix, error)

	// PredictProba は各クラスの確率を返す (n_samples × n_classes)
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes は学習時に見たクラスラベルを昇順で返す
	Classes() []int
}

// WeightExporter は重みをエクスポート可能なモデルのインターフェース
type WeightExporter interface {
	// ExportWeights はモデルの重みをエクスポート
	ExportWeights() (*ModelWeights, error)

	// ImportWeights はモデルの重みをインポート
	ImportWeights(weights *ModelWeights) error
}

// FeatureCounter は学習時の特徴量数を報告する
type FeatureCounter interface {
	NFeaturesIn() int
}
