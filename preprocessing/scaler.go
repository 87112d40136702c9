package preprocessing

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/mantar/core/model"
	"github.com/YuminosukeSato/mantar/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// StandardScalerType はModelWeights上のモデル種別名
const StandardScalerType = "StandardScaler"

// StandardScaler はscikit-learn互換の標準化スケーラー
// データを平均0、標準偏差1に変換する
type StandardScaler struct {
	state *model.StateManager

	// Mean は各特徴量の平均値
	Mean []float64

	// Scale は各特徴量の標準偏差
	Scale []float64

	// NFeatures は特徴量の数
	NFeatures int

	// WithMean は平均を引くかどうか (デフォルト: true)
	WithMean bool

	// WithStd は標準偏差で割るかどうか (デフォルト: true)
	WithStd bool
}

// NewStandardScaler は新しいStandardScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	err := scaler.Fit(X)
//	XScaled, err := scaler.Transform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		state:    model.NewStateManager(),
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault はデフォルト設定でStandardScalerを作成する
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

func (s *StandardScaler) stateManager() *model.StateManager {
	if s.state == nil {
		s.state = model.NewStateManager()
	}
	return s.state
}

// IsFitted はスケーラーが学習済みかどうかを返す
func (s *StandardScaler) IsFitted() bool {
	return s.stateManager().IsFitted()
}

// NFeaturesIn は学習時の特徴量数を返す
func (s *StandardScaler) NFeaturesIn() int {
	return s.NFeatures
}

// Fit は訓練データから統計情報（平均、標準偏差）を計算する
// 分散は母分散（n で割る）で、scikit-learnと同じ。
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	if s.WithMean {
		for j := 0; j < c; j++ {
			sum := 0.0
			for i := 0; i < r; i++ {
				sum += X.At(i, j)
			}
			s.Mean[j] = sum / float64(r)
		}
	}

	for j := 0; j < c; j++ {
		s.Scale[j] = 1.0
		if !s.WithStd {
			continue
		}
		sumSquares := 0.0
		for i := 0; i < r; i++ {
			diff := X.At(i, j) - s.Mean[j]
			sumSquares += diff * diff
		}
		std := math.Sqrt(sumSquares / float64(r))
		// 定数列は1のまま（ゼロ除算を避ける）
		if std >= 1e-8 {
			s.Scale[j] = std
		}
	}

	s.stateManager().SetDimensions(c, r)
	s.stateManager().SetFitted()
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.stateManager().RequireFitted("StandardScaler", "Transform"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, (X.At(i, j)-s.Mean[j])/s.Scale[j])
		}
	}

	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.stateManager().RequireFitted("StandardScaler", "InverseTransform"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.InverseTransform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, X.At(i, j)*s.Scale[j]+s.Mean[j])
		}
	}

	return result, nil
}

// GetParams はスケーラーのパラメータを取得する
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

// ExportWeights は平均と標準偏差をModelWeightsとして書き出す
func (s *StandardScaler) ExportWeights() (*model.ModelWeights, error) {
	if err := s.stateManager().RequireFitted("StandardScaler", "ExportWeights"); err != nil {
		return nil, err
	}
	mean := make([]float64, len(s.Mean))
	copy(mean, s.Mean)
	scale := make([]float64, len(s.Scale))
	copy(scale, s.Scale)

	return &model.ModelWeights{
		ModelType:       StandardScalerType,
		Version:         model.WeightsVersion,
		Coefficients:    mean,
		Hyperparameters: s.GetParams(),
		Metadata: map[string]interface{}{
			"scale": scale,
		},
		IsFitted: true,
	}, nil
}

// ImportWeights はModelWeightsから平均と標準偏差を復元する
func (s *StandardScaler) ImportWeights(w *model.ModelWeights) error {
	if w.ModelType != StandardScalerType {
		return errors.NewValidationError("model_type", "expected "+StandardScalerType, w.ModelType)
	}
	if !w.IsFitted {
		return errors.NewNotFittedError(StandardScalerType, "ImportWeights")
	}
	scale, err := w.Floats("scale")
	if err != nil {
		return err
	}
	if len(scale) != len(w.Coefficients) {
		return errors.NewDimensionError("StandardScaler.ImportWeights", len(w.Coefficients), len(scale), 1)
	}
	for j, v := range scale {
		if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.NewValidationError(fmt.Sprintf("scale[%d]", j), "must be finite and non-zero", v)
		}
	}

	s.WithMean = boolParam(w.Hyperparameters, "with_mean", true)
	s.WithStd = boolParam(w.Hyperparameters, "with_std", true)
	s.Mean = append([]float64(nil), w.Coefficients...)
	s.Scale = scale
	s.NFeatures = len(scale)
	s.stateManager().SetDimensions(s.NFeatures, 0)
	s.stateManager().SetFitted()
	return nil
}

// GobEncode はgob保存用にModelWeightsを経由してエンコードする
func (s *StandardScaler) GobEncode() ([]byte, error) {
	return model.GobEncodeWeights(s)
}

// GobDecode はGobEncodeの逆変換
func (s *StandardScaler) GobDecode(data []byte) error {
	return model.GobDecodeWeights(s, data)
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, s.NFeatures)
}

func boolParam(params map[string]interface{}, key string, fallback bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return fallback
}
