package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/mantar/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shipped = []string{
	"--dataset", filepath.Join("..", "..", "data", "mushrooms.csv"),
	"--scaler", filepath.Join("..", "..", "artifacts", "scaler.json"),
	"--classifier", filepath.Join("..", "..", "artifacts", "logreg_model.json"),
}

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		predictJSON, checkStrict = false, false
		logFile = ""
	})
	err := Execute()
	return stdout.String(), stderr.String(), err
}

func withShipped(args ...string) []string {
	return append(append([]string{}, args...), shipped...)
}

func TestPredict_Text(t *testing.T) {
	stdout, stderr, err := run(t, withShipped("predict", "--gill-size", "0", "--gill-color", "9")...)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Solungaç Boyutu: Dar (0)")
	assert.Contains(t, stdout, "Solungaç Rengi: Yeşil (9)")
	assert.Contains(t, stdout, "Tahmin: Zehirli")
	assert.Contains(t, stdout, "Yenilebilir Olasılığı: 0.02")
	assert.Contains(t, stdout, "Zehirli Olasılığı: 0.98")

	// logs stay off stdout
	assert.NotContains(t, stdout, "artifacts loaded")
	assert.Contains(t, stderr, "artifacts loaded")
}

func TestPredict_JSON(t *testing.T) {
	stdout, _, err := run(t, withShipped("predict", "--gill-size", "b", "--gill-color", "k", "--json")...)
	require.NoError(t, err)

	var out predictOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, [2]int{1, 0}, out.Codes)
	assert.Equal(t, 1, out.Class)
	assert.Equal(t, "Yenilebilir", out.Label)
	assert.InDelta(t, 0.14068230927601166, out.Probabilities[0], 1e-9)
	assert.InDelta(t, 1.0, out.Probabilities[0]+out.Probabilities[1], 1e-12)
}

func TestPredict_UnknownCategory(t *testing.T) {
	_, _, err := run(t, withShipped("predict", "--gill-size", "n", "--gill-color", "z")...)
	require.Error(t, err)

	var unknown *errors.UnknownCategoryError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "gill-color", unknown.Attribute)
}

func TestCheck(t *testing.T) {
	stdout, _, err := run(t, withShipped("check", "--strict")...)
	require.NoError(t, err)

	assert.Contains(t, stdout, "240 rows, 23 columns")
	assert.Contains(t, stdout, "12 codes")
	assert.Contains(t, stdout, "9=r(Yeşil)")
	assert.Contains(t, stdout, "classes [0 1]")
	assert.Contains(t, stdout, "accuracy: 0.8000")
	assert.Contains(t, stdout, "82")
	assert.Contains(t, stdout, "110")
	assert.NotContains(t, stdout, "missing:")
}

func TestConvert_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	stdout, _, err := run(t, withShipped("convert", "--format", "gob", "--out", dir)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, filepath.Join(dir, "scaler.gob"))
	assert.Contains(t, stdout, filepath.Join(dir, "logreg_model.gob"))

	stdout, _, err = run(t, "predict", "--gill-size", "0", "--gill-color", "9", "--json",
		"--dataset", filepath.Join("..", "..", "data", "mushrooms.csv"),
		"--scaler", filepath.Join(dir, "scaler.gob"),
		"--classifier", filepath.Join(dir, "logreg_model.gob"),
	)
	require.NoError(t, err)

	var out predictOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.InDelta(t, 0.9759288480219271, out.Probabilities[0], 1e-9)
}

func TestConvert_UnknownFormat(t *testing.T) {
	_, _, err := run(t, withShipped("convert", "--format", "pkl", "--out", t.TempDir())...)
	assert.True(t, errors.Is(err, errors.ErrUnknownFormat))
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := run(t, withShipped("check", "--log-level", "loud")...)
	assert.Error(t, err)

	// reset for the following tests
	_, _, err = run(t, withShipped("check", "--log-level", "info")...)
	assert.NoError(t, err)
}

// 失敗したコマンドでもログファイルと警告フックは片付けられる
func TestFailingCommandReleasesLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mantar.log")
	_, _, err := run(t, withShipped("predict", "--gill-size", "n", "--gill-color", "z", "--log-file", path)...)
	require.Error(t, err)

	assert.Nil(t, closeLog)

	// zerolog フックが残っていれば captured には届かない
	var captured []error
	errors.SetWarningHandler(func(w error) { captured = append(captured, w) })
	t.Cleanup(func() { errors.SetWarningHandler(nil) })
	errors.Warn(errors.NewCategoryDriftWarning("gill-color", []string{"z"}, nil))
	assert.Len(t, captured, 1)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}
