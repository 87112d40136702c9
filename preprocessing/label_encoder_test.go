package preprocessing

import (
	"testing"

	"github.com/YuminosukeSato/mantar/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelEncoder_FirstSeenOrder(t *testing.T) {
	enc := NewLabelEncoder("gill-color")
	codes, err := enc.FitTransform([]string{"k", "n", "k", "g", "n", "w"})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 0, 2, 1, 3}, codes)
	assert.Equal(t, []string{"k", "n", "g", "w"}, enc.Classes())
	assert.Equal(t, 4, enc.Len())

	code, ok := enc.Code("g")
	assert.True(t, ok)
	assert.Equal(t, 2, code)

	v, ok := enc.Value(3)
	assert.True(t, ok)
	assert.Equal(t, "w", v)

	_, ok = enc.Value(4)
	assert.False(t, ok)
}

func TestLabelEncoder_Deterministic(t *testing.T) {
	values := []string{"p", "e", "e", "p", "e"}
	a, err := NewLabelEncoder("class").FitTransform(values)
	require.NoError(t, err)
	b, err := NewLabelEncoder("class").FitTransform(values)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLabelEncoder_Refit(t *testing.T) {
	enc := NewLabelEncoder("gill-size")
	require.NoError(t, enc.Fit([]string{"n", "b"}))
	require.NoError(t, enc.Fit([]string{"b", "n"}))
	assert.Equal(t, []string{"b", "n"}, enc.Classes())
}

func TestLabelEncoder_Errors(t *testing.T) {
	enc := NewLabelEncoder("gill-size")

	_, err := enc.Transform([]string{"n"})
	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))

	assert.Error(t, enc.Fit(nil))

	require.NoError(t, enc.Fit([]string{"n", "b"}))
	_, err = enc.Transform([]string{"x"})
	var unknown *errors.UnknownCategoryError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "gill-size", unknown.Attribute)
	assert.Equal(t, "x", unknown.Value)

	_, err = enc.InverseTransform([]int{5})
	assert.True(t, errors.As(err, &unknown))
}

func TestLabelEncoder_InverseTransform(t *testing.T) {
	enc := NewLabelEncoder("gill-size")
	require.NoError(t, enc.Fit([]string{"n", "b", "n"}))
	values, err := enc.InverseTransform([]int{1, 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "n"}, values)
}

func TestTableEncoder_ColumnsIndependent(t *testing.T) {
	columns := []string{"class", "gill-size", "gill-color"}
	rows := [][]string{
		{"p", "n", "k"},
		{"e", "b", "k"},
		{"e", "b", "n"},
		{"p", "n", "w"},
	}

	enc := NewTableEncoder()
	X, err := enc.FitTransform(columns, rows)
	require.NoError(t, err)

	r, c := X.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 3, c)

	// class: p→0 e→1 ; gill-size: n→0 b→1 ; gill-color: k→0 n→1 w→2
	want := [][]float64{
		{0, 0, 0},
		{1, 1, 0},
		{1, 1, 1},
		{0, 0, 2},
	}
	for i := range want {
		for j := range want[i] {
			assert.Equalf(t, want[i][j], X.At(i, j), "cell (%d,%d)", i, j)
		}
	}

	// 同じ値 "n" でも列ごとに別のコード
	size, ok := enc.Encoder("gill-size")
	require.True(t, ok)
	color, ok := enc.Encoder("gill-color")
	require.True(t, ok)
	sizeN, _ := size.Code("n")
	colorN, _ := color.Code("n")
	assert.Equal(t, 0, sizeN)
	assert.Equal(t, 1, colorN)

	assert.Equal(t, columns, enc.Columns())
	_, ok = enc.Encoder("odor")
	assert.False(t, ok)
}

func TestTableEncoder_Errors(t *testing.T) {
	enc := NewTableEncoder()
	_, err := enc.Transform([][]string{{"p"}})
	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))

	err = enc.Fit([]string{"class", "odor"}, [][]string{{"p", "a"}, {"e"}})
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	require.NoError(t, enc.Fit([]string{"class"}, [][]string{{"p"}, {"e"}}))
	_, err = enc.Transform([][]string{{"x"}})
	var unknown *errors.UnknownCategoryError
	assert.True(t, errors.As(err, &unknown))
}
