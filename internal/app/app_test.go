package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/mantar/internal/config"
	"github.com/YuminosukeSato/mantar/pkg/errors"
	"github.com/YuminosukeSato/mantar/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shippedConfig() config.Config {
	cfg := config.Default()
	cfg.DatasetPath = filepath.Join("..", "..", "data", "mushrooms.csv")
	cfg.ScalerPath = filepath.Join("..", "..", "artifacts", "scaler.json")
	cfg.ClassifierPath = filepath.Join("..", "..", "artifacts", "logreg_model.json")
	return cfg
}

func TestLoad_Shipped(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	d, err := Load(shippedConfig(), logger)
	require.NoError(t, err)

	assert.Equal(t, 240, d.Table.Len())
	assert.Empty(t, d.Drift)
	assert.True(t, logger.ContainsMessage("dataset loaded"))
	assert.True(t, logger.ContainsMessage("artifacts loaded"))

	r, c := d.Encoded.Dims()
	assert.Equal(t, 240, r)
	assert.Equal(t, 23, c)

	counts, err := d.ClassCounts()
	require.NoError(t, err)
	assert.Len(t, counts, 2)

	X, err := d.Features()
	require.NoError(t, err)
	// first row: p,...,gill-size n, gill-color k
	assert.Equal(t, 0.0, X.At(0, 0))
	assert.Equal(t, 0.0, X.At(0, 1))

	report, err := d.Evaluate()
	require.NoError(t, err)
	assert.InDelta(t, 0.8, report.Accuracy, 1e-12)
}

func TestLoad_Drift(t *testing.T) {
	dir := t.TempDir()
	csv := "class,gill-size,gill-color\np,n,k\ne,b,q\n"
	path := filepath.Join(dir, "drift.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	var warned []error
	errors.SetWarningHandler(func(w error) { warned = append(warned, w) })
	defer errors.SetWarningHandler(nil)

	cfg := shippedConfig()
	cfg.DatasetPath = path
	logger, _ := log.NewTestLogger(log.LevelDebug)

	d, err := Load(cfg, logger)
	require.NoError(t, err)
	require.Len(t, d.Drift, 1)
	assert.Equal(t, "gill-color", d.Drift[0].Attribute)
	assert.Equal(t, []string{"q"}, d.Drift[0].Missing)
	assert.Len(t, warned, 1)
	assert.True(t, logger.ContainsField(log.ErrorCodeKey, log.ErrorCategoryDrift))
}

func TestLoad_Errors(t *testing.T) {
	cfg := shippedConfig()
	cfg.DatasetPath = filepath.Join(t.TempDir(), "none.csv")
	_, err := Load(cfg, nil)
	var dsErr *errors.DatasetError
	assert.True(t, errors.As(err, &dsErr))

	cfg = shippedConfig()
	cfg.ClassifierPath = filepath.Join(t.TempDir(), "none.gob")
	_, err = Load(cfg, nil)
	var artErr *errors.ArtifactError
	assert.True(t, errors.As(err, &artErr))
}
