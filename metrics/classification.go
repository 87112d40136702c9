// Package metrics は分類器を評価するための指標を提供する。
// mantar check はここで学習済み分類器をデータセット全体に対して評価する。
package metrics

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/mantar/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// logLossEpsilon は log(0) を避けるためのクリップ幅
const logLossEpsilon = 1e-15

func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError(op, "empty vector")
	}
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

func checkBinary(op string, y *mat.VecDense) error {
	for i := 0; i < y.Len(); i++ {
		if v := y.AtVec(i); v != 0 && v != 1 {
			return errors.NewValueError(op, "labels must be 0 or 1")
		}
	}
	return nil
}

// Accuracy は正解率を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ClassificationError は誤分類率 (1 - Accuracy) を計算する
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// AUC はROC曲線下面積を計算する。
// 同順位のスコアには平均順位を与える（Mann-Whitney U 統計量）。
// 片方のクラスしか存在しない場合は定義できないため 0.5 を返す。
func AUC(yTrue, yScore *mat.VecDense) (float64, error) {
	n, err := checkPair("AUC", yTrue, yScore)
	if err != nil {
		return 0, err
	}
	if err := checkBinary("AUC", yTrue); err != nil {
		return 0, err
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return yScore.AtVec(order[a]) < yScore.AtVec(order[b])
	})

	// 平均順位（1始まり）
	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && yScore.AtVec(order[j+1]) == yScore.AtVec(order[i]) {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}

	var nPos, nNeg, rankSum float64
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1 {
			nPos++
			rankSum += ranks[i]
		} else {
			nNeg++
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0.5, nil
	}

	u := rankSum - nPos*(nPos+1)/2
	return u / (nPos * nNeg), nil
}

// AUCMatrix は行列形式の入力に対してAUCを計算する（先頭列を使う）
func AUCMatrix(yTrue, yScore mat.Matrix) (float64, error) {
	vTrue, vScore, err := firstColumns("AUCMatrix", yTrue, yScore)
	if err != nil {
		return 0, err
	}
	return AUC(vTrue, vScore)
}

// AccuracyMatrix は行列形式の入力に対して正解率を計算する（先頭列を使う）。
// Predict の戻り値をそのまま渡せる。
func AccuracyMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	vTrue, vPred, err := firstColumns("AccuracyMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return Accuracy(vTrue, vPred)
}

func firstColumns(op string, a, b mat.Matrix) (*mat.VecDense, *mat.VecDense, error) {
	if a == nil || b == nil {
		return nil, nil, errors.NewValueError(op, "nil matrix")
	}
	ra, ca := a.Dims()
	rb, cb := b.Dims()
	if ra == 0 || ca == 0 || rb == 0 || cb == 0 {
		return nil, nil, errors.NewValueError(op, "empty matrix")
	}
	if ra != rb {
		return nil, nil, errors.NewDimensionError(op, ra, rb, 0)
	}
	va := mat.NewVecDense(ra, nil)
	vb := mat.NewVecDense(rb, nil)
	for i := 0; i < ra; i++ {
		va.SetVec(i, a.At(i, 0))
		vb.SetVec(i, b.At(i, 0))
	}
	return va, vb, nil
}

// BinaryLogLoss は二値分類の交差エントロピーを計算する。
// yProb は陽性クラス (1) の確率。
func BinaryLogLoss(yTrue, yProb *mat.VecDense) (float64, error) {
	n, err := checkPair("BinaryLogLoss", yTrue, yProb)
	if err != nil {
		return 0, err
	}
	if err := checkBinary("BinaryLogLoss", yTrue); err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		p := math.Min(math.Max(yProb.AtVec(i), logLossEpsilon), 1-logLossEpsilon)
		if yTrue.AtVec(i) == 1 {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}
	return sum / float64(n), nil
}

// ConfusionMatrix は混同行列を返す。行が正解ラベル、列が予測ラベルで、
// 並びは labels の順。labels に無いラベルはValueError。
func ConfusionMatrix(yTrue, yPred *mat.VecDense, labels []int) (*mat.Dense, error) {
	n, err := checkPair("ConfusionMatrix", yTrue, yPred)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, errors.NewValueError("ConfusionMatrix", "no labels")
	}

	pos := make(map[int]int, len(labels))
	for i, l := range labels {
		pos[l] = i
	}

	cm := mat.NewDense(len(labels), len(labels), nil)
	for i := 0; i < n; i++ {
		r, ok := pos[int(yTrue.AtVec(i))]
		if !ok {
			return nil, errors.NewValueError("ConfusionMatrix", "unknown true label")
		}
		c, ok := pos[int(yPred.AtVec(i))]
		if !ok {
			return nil, errors.NewValueError("ConfusionMatrix", "unknown predicted label")
		}
		cm.Set(r, c, cm.At(r, c)+1)
	}
	return cm, nil
}
