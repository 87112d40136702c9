package model

import (
	"encoding/json"

	"github.com/YuminosukeSato/mantar/pkg/errors"
)

// WeightsVersion は現在のModelWeightsフォーマットのバージョン
const WeightsVersion = "1.0"

// ModelWeights はモデルの重みを表す構造体（シリアライゼーション用）
//
// StandardScalerでは Coefficients が各特徴量の平均、Metadata["scale"] が標準偏差。
// LogisticRegressionでは Coefficients が二値分類の係数、Intercept が切片、
// Metadata["classes"] がクラスラベル。
type ModelWeights struct {
	// ModelType はモデルの種類（StandardScaler, LogisticRegression）
	ModelType string `json:"model_type"`

	// Version はフォーマットのバージョン（互換性チェック用）
	Version string `json:"version"`

	// Coefficients は重み係数
	Coefficients []float64 `json:"coefficients"`

	// Intercept は切片
	Intercept float64 `json:"intercept"`

	// Features は特徴量の名前（オプション）
	Features []string `json:"features,omitempty"`

	// Hyperparameters はモデルのハイパーパラメータ
	Hyperparameters map[string]interface{} `json:"hyperparameters"`

	// Metadata は追加のメタデータ
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// IsFitted はモデルが学習済みかどうか
	IsFitted bool `json:"is_fitted"`
}

// ToJSON はModelWeightsをJSON形式にシリアライズ
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	return json.MarshalIndent(mw, "", "  ")
}

// FromJSON はJSON形式からModelWeightsをデシリアライズ
func (mw *ModelWeights) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, mw); err != nil {
		return errors.Wrap(err, "decode model weights")
	}
	return nil
}

// Validate はModelWeightsの妥当性を検証
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return errors.NewValidationError("model_type", "is required", mw.ModelType)
	}

	if mw.Version == "" {
		return errors.NewValidationError("version", "is required", mw.Version)
	}

	if !mw.IsFitted && len(mw.Coefficients) > 0 {
		return errors.NewValidationError("coefficients", "unfitted model should not have coefficients", len(mw.Coefficients))
	}

	if mw.IsFitted && len(mw.Coefficients) == 0 {
		return errors.NewValidationError("coefficients", "fitted model must have coefficients", 0)
	}

	return nil
}

// Floats はMetadataから数値配列を取り出す。
// JSON経由では []interface{} になるため両方の形を受け付ける。
func (mw *ModelWeights) Floats(key string) ([]float64, error) {
	raw, ok := mw.Metadata[key]
	if !ok {
		return nil, errors.NewValidationError("metadata."+key, "is required", nil)
	}
	switch v := raw.(type) {
	case []float64:
		out := make([]float64, len(v))
		copy(out, v)
		return out, nil
	case []interface{}:
		out := make([]float64, len(v))
		for i, x := range v {
			f, ok := x.(float64)
			if !ok {
				return nil, errors.NewValidationError("metadata."+key, "must be numeric", x)
			}
			out[i] = f
		}
		return out, nil
	default:
		return nil, errors.NewValidationError("metadata."+key, "must be an array", raw)
	}
}
