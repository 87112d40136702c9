package preprocessing

import (
	"github.com/YuminosukeSato/mantar/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LabelEncoder はカテゴリ値を0始まりの整数コードに変換する。
// コードは値が最初に現れた順に割り当てられる（pandas.factorizeと同じ規則）。
// 同じ値の並びからは常に同じ対応が得られるが、行の順序が変われば対応も変わる。
type LabelEncoder struct {
	// Name はエラーメッセージに使う属性名（CSVの列名）
	Name string

	classes []string
	index   map[string]int
}

// NewLabelEncoder は属性名nameのLabelEncoderを作成する
func NewLabelEncoder(name string) *LabelEncoder {
	return &LabelEncoder{Name: name}
}

// Fit は出現順にコードを割り当てる
func (e *LabelEncoder) Fit(values []string) error {
	if len(values) == 0 {
		return errors.NewModelError("LabelEncoder.Fit", e.Name, errors.ErrEmptyData)
	}
	e.classes = e.classes[:0]
	e.index = make(map[string]int)
	for _, v := range values {
		if _, seen := e.index[v]; seen {
			continue
		}
		e.index[v] = len(e.classes)
		e.classes = append(e.classes, v)
	}
	return nil
}

// IsFitted はFit済みかどうかを返す
func (e *LabelEncoder) IsFitted() bool {
	return e.index != nil
}

// Transform は値の列をコードの列に変換する。未知の値はUnknownCategoryError。
func (e *LabelEncoder) Transform(values []string) ([]int, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("LabelEncoder", "Transform")
	}
	codes := make([]int, len(values))
	for i, v := range values {
		code, ok := e.index[v]
		if !ok {
			return nil, errors.NewUnknownCategoryError(e.Name, v)
		}
		codes[i] = code
	}
	return codes, nil
}

// FitTransform はFitとTransformを同時に実行する
func (e *LabelEncoder) FitTransform(values []string) ([]int, error) {
	if err := e.Fit(values); err != nil {
		return nil, err
	}
	return e.Transform(values)
}

// InverseTransform はコードの列を元の値に戻す
func (e *LabelEncoder) InverseTransform(codes []int) ([]string, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("LabelEncoder", "InverseTransform")
	}
	values := make([]string, len(codes))
	for i, c := range codes {
		v, ok := e.Value(c)
		if !ok {
			return nil, errors.NewUnknownCategoryError(e.Name, c)
		}
		values[i] = v
	}
	return values, nil
}

// Code は値に対応するコードを返す
func (e *LabelEncoder) Code(value string) (int, bool) {
	code, ok := e.index[value]
	return code, ok
}

// Value はコードに対応する値を返す
func (e *LabelEncoder) Value(code int) (string, bool) {
	if code < 0 || code >= len(e.classes) {
		return "", false
	}
	return e.classes[code], true
}

// Classes はコード順の値の一覧を返す（コピー）
func (e *LabelEncoder) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}

// Len はクラス数を返す
func (e *LabelEncoder) Len() int {
	return len(e.classes)
}

// TableEncoder は表の各列に独立したLabelEncoderを当てる。
// 列同士でコードの一貫性は保証しない。
type TableEncoder struct {
	columns  []string
	encoders []*LabelEncoder
	position map[string]int
}

// NewTableEncoder は空のTableEncoderを作成する
func NewTableEncoder() *TableEncoder {
	return &TableEncoder{}
}

// Fit は列ごとにエンコーダを学習する
func (t *TableEncoder) Fit(columns []string, rows [][]string) error {
	if len(columns) == 0 || len(rows) == 0 {
		return errors.NewModelError("TableEncoder.Fit", "empty table", errors.ErrEmptyData)
	}

	t.columns = append([]string(nil), columns...)
	t.encoders = make([]*LabelEncoder, len(columns))
	t.position = make(map[string]int, len(columns))

	values := make([]string, len(rows))
	for j, name := range columns {
		for i, row := range rows {
			if len(row) != len(columns) {
				return errors.NewDimensionError("TableEncoder.Fit", len(columns), len(row), 1)
			}
			values[i] = row[j]
		}
		enc := NewLabelEncoder(name)
		if err := enc.Fit(values); err != nil {
			return err
		}
		t.encoders[j] = enc
		t.position[name] = j
	}
	return nil
}

// Transform は行の集合を整数行列 (n_rows × n_columns) に変換する
func (t *TableEncoder) Transform(rows [][]string) (*mat.Dense, error) {
	if t.encoders == nil {
		return nil, errors.NewNotFittedError("TableEncoder", "Transform")
	}
	if len(rows) == 0 {
		return nil, errors.NewModelError("TableEncoder.Transform", "empty table", errors.ErrEmptyData)
	}

	out := mat.NewDense(len(rows), len(t.columns), nil)
	for i, row := range rows {
		if len(row) != len(t.columns) {
			return nil, errors.NewDimensionError("TableEncoder.Transform", len(t.columns), len(row), 1)
		}
		for j, enc := range t.encoders {
			code, ok := enc.Code(row[j])
			if !ok {
				return nil, errors.NewUnknownCategoryError(enc.Name, row[j])
			}
			out.Set(i, j, float64(code))
		}
	}
	return out, nil
}

// FitTransform はFitとTransformを同時に実行する
func (t *TableEncoder) FitTransform(columns []string, rows [][]string) (*mat.Dense, error) {
	if err := t.Fit(columns, rows); err != nil {
		return nil, err
	}
	return t.Transform(rows)
}

// Encoder は列名に対応するエンコーダを返す
func (t *TableEncoder) Encoder(column string) (*LabelEncoder, bool) {
	j, ok := t.position[column]
	if !ok {
		return nil, false
	}
	return t.encoders[j], true
}

// Columns は学習時の列名を返す（コピー）
func (t *TableEncoder) Columns() []string {
	return append([]string(nil), t.columns...)
}
