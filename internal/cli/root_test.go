package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/csvgen/internal/cli/config"
	"github.com/leapstack-labs/csvgen/internal/cli/testutil"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	return testutil.Execute(t, NewRootCmd(), args...)
}

func TestRootCmd_Help(t *testing.T) {
	stdout, _, err := run(t, "--help")
	require.NoError(t, err)

	for _, want := range []string{"generate", "inspect", "load", "history", "init", "version", "completion"} {
		assert.Contains(t, stdout, want)
	}
}

func TestRootCmd_Completion(t *testing.T) {
	stdout, _, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "csvgen")

	_, _, err = run(t, "completion", "tcsh")
	require.Error(t, err)
}

func TestRootCmd_GenerateWithFlags(t *testing.T) {
	dir := t.TempDir()
	testutil.Chdir(t, dir)

	stdout, _, err := run(t, "generate", "out.csv", "5", "--seed", "11", "-o", "json", "--state", "runs.db")
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, float64(11), res["seed"])
	assert.Equal(t, float64(5), res["rows"])

	_, err = os.Stat(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "runs.db"))
	require.NoError(t, err, "--state should place the history database")

	stdout, _, err = run(t, "history", "-o", "json", "--state", "runs.db")
	require.NoError(t, err)
	var runs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, float64(11), runs[0]["seed"])
}

func TestRootCmd_NoHistoryFlag(t *testing.T) {
	dir := t.TempDir()
	testutil.Chdir(t, dir)

	_, _, err := run(t, "generate", "out.csv", "1", "--no-history")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, config.DefaultStateFile))
	assert.True(t, os.IsNotExist(err))
}

func TestRootCmd_ConfigFileAndVerboseLogging(t *testing.T) {
	dir := t.TempDir()
	testutil.Chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName),
		[]byte("history: false\nlog_format: json\n"), 0o600))

	_, stderr, err := run(t, "generate", "out.csv", "2", "-v")
	require.NoError(t, err)

	assert.Contains(t, stderr, `"msg":"using config file"`)
	assert.Contains(t, stderr, `"msg":"generating csv"`)
	testutil.AssertNoANSI(t, stderr)
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	testutil.Chdir(t, t.TempDir())

	_, _, err := run(t, "history", "--log-format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log format")
}

func TestRootCmd_LoadUnknownTargetType(t *testing.T) {
	dir := t.TempDir()
	testutil.Chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("Column1\nx\n"), 0o600))

	_, _, err := run(t, "load", "a.csv", "--target-type", "sqlserver")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown adapter type")
}
