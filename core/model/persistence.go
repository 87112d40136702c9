package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/YuminosukeSato/mantar/pkg/errors"
)

// SaveModel はモデルをgob形式でファイルに保存する
//
// パラメータ:
//   - model: 保存するモデル（GobEncoderを実装した構造体）
//   - filename: 保存先のファイルパス
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScalerDefault()
//	// ... scaler.Fit(X) ...
//	err := model.SaveModel(scaler, "scaler.gob")
func SaveModel(model interface{}, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer file.Close()

	return SaveModelToWriter(model, file)
}

// LoadModel はgob形式のファイルからモデルを読み込む
//
// 使用例:
//
//	var clf linear_model.LogisticRegression
//	err := model.LoadModel(&clf, "logreg_model.gob")
func LoadModel(model interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	return LoadModelFromReader(model, file)
}

// SaveModelToWriter はモデルをio.Writerに保存する
func SaveModelToWriter(model interface{}, w io.Writer) error {
	encoder := gob.NewEncoder(w)
	if err := encoder.Encode(model); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadModelFromReader はio.Readerからモデルを読み込む
func LoadModelFromReader(model interface{}, r io.Reader) error {
	decoder := gob.NewDecoder(r)
	if err := decoder.Decode(model); err != nil {
		return errors.Wrap(err, "failed to decode model")
	}
	return nil
}

// SaveWeights はモデルの重みをJSONファイルに書き出す
func SaveWeights(m WeightExporter, filename string) error {
	weights, err := m.ExportWeights()
	if err != nil {
		return err
	}
	data, err := weights.ToJSON()
	if err != nil {
		return errors.Wrap(err, "failed to encode weights")
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write weights")
	}
	return nil
}

// LoadWeights はJSONファイルから重みを読み込み、modelにインポートする
func LoadWeights(m WeightExporter, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "failed to read weights")
	}
	var weights ModelWeights
	if err := weights.FromJSON(data); err != nil {
		return err
	}
	if err := weights.Validate(); err != nil {
		return err
	}
	return m.ImportWeights(&weights)
}

// GobEncodeWeights はWeightExporterのGobEncode実装を共通化する。
// 重みはJSONドキュメントとしてgobストリームに埋め込まれる。
func GobEncodeWeights(m WeightExporter) ([]byte, error) {
	weights, err := m.ExportWeights()
	if err != nil {
		return nil, err
	}
	return weights.ToJSON()
}

// GobDecodeWeights はGobEncodeWeightsの逆変換
func GobDecodeWeights(m WeightExporter, data []byte) error {
	var weights ModelWeights
	if err := weights.FromJSON(data); err != nil {
		return err
	}
	if err := weights.Validate(); err != nil {
		return err
	}
	return m.ImportWeights(&weights)
}
