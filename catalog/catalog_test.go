package catalog

import (
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/mantar/dataset"
	"github.com/YuminosukeSato/mantar/preprocessing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		column, raw, want string
	}{
		{GillSize, "n", "Dar"},
		{GillSize, "b", "Geniş"},
		{GillColor, "w", "Beyaz"},
		{GillColor, "h", "Çikolata"},
		{Class, "p", Poisonous},
		{Class, "e", Edible},
		{GillColor, "z", "z"},
		{"odor", "a", "a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.column, tt.raw), "%s/%s", tt.column, tt.raw)
	}
}

// Header と値ラベルは別物
func TestAttribute_HeaderAndDisplay(t *testing.T) {
	a, ok := Lookup(GillColor)
	require.True(t, ok)

	assert.Equal(t, "Solungaç Rengi", a.Label)
	assert.Equal(t, a.Label, ColumnLabel(GillColor))
	assert.Equal(t, "Yeşil", a.Display("r"))
	assert.Equal(t, "z", a.Display("z"))
	assert.Equal(t, a.Display("r"), Label(GillColor, "r"))

	cls, ok := Lookup(Class)
	require.True(t, ok)
	assert.Equal(t, "Sınıf", cls.Label)
	assert.Equal(t, Poisonous, cls.Display("p"))
}

func TestColumnLabel(t *testing.T) {
	assert.Equal(t, "Solungaç Rengi", ColumnLabel(GillColor))
	assert.Equal(t, "Koku", ColumnLabel("odor"))
	assert.Equal(t, "unknown", ColumnLabel("unknown"))
}

func TestEntriesUnique(t *testing.T) {
	for _, column := range Columns() {
		a, ok := Lookup(column)
		require.True(t, ok)
		raws := map[string]bool{}
		labels := map[string]bool{}
		for _, e := range a.Entries {
			assert.False(t, raws[e.Raw], "%s: duplicate raw %q", column, e.Raw)
			assert.False(t, labels[e.Label], "%s: duplicate label %q", column, e.Label)
			raws[e.Raw] = true
			labels[e.Label] = true
		}
	}
}

func TestDrift(t *testing.T) {
	missing, unused := Drift(GillSize, []string{"n", "b"})
	assert.Empty(t, missing)
	assert.Empty(t, unused)

	missing, unused = Drift(GillSize, []string{"n", "x"})
	assert.Equal(t, []string{"x"}, missing)
	assert.Equal(t, []string{"b"}, unused)

	assert.Nil(t, Check(GillSize, []string{"b", "n"}))
	assert.Nil(t, Check(GillColor, []string{"k"}), "unused entries alone are not drift")

	w := Check(GillColor, []string{"k", "q"})
	require.NotNil(t, w)
	assert.Equal(t, GillColor, w.Attribute)
	assert.Equal(t, []string{"q"}, w.Missing)
}

// Every class the shipped dataset produces must have a label.
func TestCatalogCoversShippedDataset(t *testing.T) {
	tbl, err := dataset.Load(filepath.Join("..", "data", "mushrooms.csv"))
	require.NoError(t, err)

	enc := preprocessing.NewTableEncoder()
	require.NoError(t, enc.Fit(tbl.Header, tbl.Rows))

	for _, column := range Columns() {
		le, ok := enc.Encoder(column)
		require.True(t, ok, column)
		missing, _ := Drift(column, le.Classes())
		assert.Empty(t, missing, column)
	}
}
