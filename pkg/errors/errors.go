// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// データセット読み込み、アーティファクト復元、推論の各段階で構造化されたエラー情報を返します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("mantar-warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler は警告ハンドラを設定します。
// CategoryDriftWarningやConvergenceWarningの処理方法を制御できます。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nilを渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// ConvergenceWarning は最適化アルゴリズムが収束しなかった場合に発生する警告です。
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Message    string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s failed to converge after %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
	}
	return fmt.Sprintf("%s failed to converge after %d iterations. Consider increasing max_iter or adjusting parameters.", w.Algorithm, w.Iterations)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning は新しいConvergenceWarningを作成します。
func NewConvergenceWarning(algorithm string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Message: message}
}

// CategoryDriftWarning はデータセットから導出したカテゴリと表示用カタログが食い違う場合の警告です。
// 例えば、データセットに新しいひだの色が追加されたがカタログに訳語が無い場合など。
type CategoryDriftWarning struct {
	Attribute string
	Missing   []string // カタログに無い生の値
	Unused    []string // データセットに現れないカタログの値
}

func (w *CategoryDriftWarning) Error() string {
	return fmt.Sprintf("category drift on '%s': missing labels for %v, unused labels %v", w.Attribute, w.Missing, w.Unused)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *CategoryDriftWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("attribute", w.Attribute).
		Strs("missing", w.Missing).
		Strs("unused", w.Unused).
		Str("type", "CategoryDriftWarning")
}

// NewCategoryDriftWarning は新しいCategoryDriftWarningを作成します。
func NewCategoryDriftWarning(attribute string, missing, unused []string) *CategoryDriftWarning {
	return &CategoryDriftWarning{Attribute: attribute, Missing: missing, Unused: unused}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` や `Transform` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("mantar: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("mantar: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("mantar: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("mantar: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError は機械学習モデルに関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mantar: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("mantar: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// DatasetError はデータセットファイルの読み込みや解析に失敗した場合のエラーです。
// Line は1始まりの行番号で、行に依存しない失敗では0になります。
type DatasetError struct {
	Path   string
	Line   int
	Reason string
	Err    error
}

func (e *DatasetError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if e.Err != nil {
		return fmt.Sprintf("mantar: dataset %s: %s: %v", loc, e.Reason, e.Err)
	}
	return fmt.Sprintf("mantar: dataset %s: %s", loc, e.Reason)
}

func (e *DatasetError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DatasetError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		Int("line", e.Line).
		Str("reason", e.Reason).
		Str("type", "DatasetError")
}

// NewDatasetError は新しいDatasetErrorを作成し、スタックトレースを付与します。
func NewDatasetError(path string, line int, reason string, err error) error {
	dsErr := &DatasetError{Path: path, Line: line, Reason: reason, Err: err}
	return errors.WithStack(dsErr)
}

// ArtifactError は学習済みアーティファクト（スケーラー・分類器）の復元に失敗した場合のエラーです。
type ArtifactError struct {
	Path   string
	Format string // "json" or "gob"
	Kind   string // "StandardScaler", "LogisticRegression"
	Err    error
}

func (e *ArtifactError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mantar: artifact %s (%s, %s): %v", e.Path, e.Kind, e.Format, e.Err)
	}
	return fmt.Sprintf("mantar: artifact %s (%s, %s)", e.Path, e.Kind, e.Format)
}

func (e *ArtifactError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ArtifactError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		Str("format", e.Format).
		Str("kind", e.Kind).
		Str("type", "ArtifactError")
}

// NewArtifactError は新しいArtifactErrorを作成し、スタックトレースを付与します。
func NewArtifactError(path, format, kind string, err error) error {
	artErr := &ArtifactError{Path: path, Format: format, Kind: kind, Err: err}
	return errors.WithStack(artErr)
}

// UnknownCategoryError はエンコーダが知らない値やコードが渡された場合のエラーです。
type UnknownCategoryError struct {
	Attribute string
	Value     interface{}
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("mantar: unknown category %v for attribute '%s'", e.Value, e.Attribute)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *UnknownCategoryError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("attribute", e.Attribute).
		Interface("value", e.Value).
		Str("type", "UnknownCategoryError")
}

// NewUnknownCategoryError は新しいUnknownCategoryErrorを作成し、スタックトレースを付与します。
func NewUnknownCategoryError(attribute string, value interface{}) error {
	err := &UnknownCategoryError{Attribute: attribute, Value: value}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrUnknownFormat はアーティファクトの拡張子が未対応の場合のエラーです。
	ErrUnknownFormat = New("unknown artifact format")
)
