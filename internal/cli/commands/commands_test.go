package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/csvgen/internal/cli/config"
	"github.com/leapstack-labs/csvgen/internal/cli/testutil"
	"github.com/leapstack-labs/csvgen/internal/generator"
	"github.com/leapstack-labs/csvgen/internal/state"
	"github.com/leapstack-labs/csvgen/internal/textgen"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/csvgen/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/csvgen/pkg/adapters/postgres"
)

func listRuns(t *testing.T, cfg *config.Config) []*state.Run {
	t.Helper()
	store := state.NewSQLiteStore(nil)
	require.NoError(t, store.OpenAndMigrate(cfg.StatePath))
	defer func() { _ = store.Close() }()

	runs, err := store.ListRuns(100)
	require.NoError(t, err)
	return runs
}

func TestGenerateCommand_JSON(t *testing.T) {
	cfg := testutil.UseConfig(t, "output: json\nseed: 42\n")
	path := filepath.Join(t.TempDir(), "out.csv")

	stdout, _, err := testutil.Execute(t, NewGenerateCommand(), path, "10")
	require.NoError(t, err)

	var res GenerateResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, path, res.Path)
	assert.Equal(t, 10, res.Rows)
	assert.Equal(t, generator.ColumnCount, res.Columns)
	assert.Equal(t, int64(42), res.Seed)
	assert.NotEmpty(t, res.RunID)
	assert.Nil(t, res.Load)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), res.Bytes)

	runs := listRuns(t, cfg)
	require.Len(t, runs, 1)
	assert.Equal(t, res.RunID, runs[0].ID)
	assert.Equal(t, state.RunStatusCompleted, runs[0].Status)
	assert.Equal(t, int64(42), runs[0].Seed)
	assert.Equal(t, res.Bytes, runs[0].Bytes)
}

func TestGenerateCommand_SeedReproducesFile(t *testing.T) {
	testutil.UseConfig(t, "output: json\nseed: 7\nhistory: false\n")
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")

	_, _, err := testutil.Execute(t, NewGenerateCommand(), a, "25")
	require.NoError(t, err)
	_, _, err = testutil.Execute(t, NewGenerateCommand(), b, "25")
	require.NoError(t, err)

	da, err := os.ReadFile(a)
	require.NoError(t, err)
	db, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, da, db)

	// Same bytes as calling the generator directly with that seed.
	c := filepath.Join(dir, "c.csv")
	require.NoError(t, generator.GenerateCSV(c, 25, textgen.NewSeeded(7)))
	dc, err := os.ReadFile(c)
	require.NoError(t, err)
	assert.Equal(t, da, dc)
}

func TestGenerateCommand_RandomSeedIsRecorded(t *testing.T) {
	cfg := testutil.UseConfig(t, "output: json\n")
	path := filepath.Join(t.TempDir(), "out.csv")

	stdout, _, err := testutil.Execute(t, NewGenerateCommand(), path, "3")
	require.NoError(t, err)

	var res GenerateResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.NotZero(t, res.Seed)

	runs := listRuns(t, cfg)
	require.Len(t, runs, 1)
	assert.Equal(t, res.Seed, runs[0].Seed)
}

func TestGenerateCommand_NoHistory(t *testing.T) {
	cfg := testutil.UseConfig(t, "history: false\n")
	path := filepath.Join(t.TempDir(), "out.csv")

	_, _, err := testutil.Execute(t, NewGenerateCommand(), path, "3")
	require.NoError(t, err)

	_, err = os.Stat(cfg.StatePath)
	assert.True(t, os.IsNotExist(err), "state database should not be created")
}

func TestGenerateCommand_TextOutput(t *testing.T) {
	testutil.UseConfig(t, "output: text\nseed: 5\nhistory: false\n")
	path := filepath.Join(t.TempDir(), "out.csv")

	stdout, stderr, err := testutil.Execute(t, NewGenerateCommand(), path, "1500")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote 1,500 rows")
	assert.Contains(t, stdout, path)
	assert.Contains(t, stdout, "seed 5")
	testutil.AssertNoANSI(t, stdout)
	assert.Empty(t, stderr, "no progress bar when not on a terminal")
}

func TestGenerateCommand_InvalidArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "not a number", args: []string{"out.csv", "many"}, wantErr: "invalid row count"},
		{name: "negative", args: []string{"out.csv", "--", "-1"}, wantErr: "must not be negative"},
		{name: "missing rows", args: []string{"out.csv"}, wantErr: "accepts 2 arg(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.UseConfig(t, "history: false\n")
			_, _, err := testutil.Execute(t, NewGenerateCommand(), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerateCommand_MissingDirectoryRecordsFailure(t *testing.T) {
	cfg := testutil.UseConfig(t, "seed: 1\n")
	path := filepath.Join(t.TempDir(), "missing", "out.csv")

	_, _, err := testutil.Execute(t, NewGenerateCommand(), path, "3")
	require.Error(t, err)
	assert.ErrorIs(t, err, generator.ErrIO)

	runs := listRuns(t, cfg)
	require.Len(t, runs, 1)
	assert.Equal(t, state.RunStatusFailed, runs[0].Status)
	assert.Contains(t, runs[0].Error, "out.csv")
}

func TestGenerateCommand_Load(t *testing.T) {
	testutil.UseConfig(t, "output: json\nhistory: false\n")
	path := filepath.Join(t.TempDir(), "fake-data.csv")

	stdout, _, err := testutil.Execute(t, NewGenerateCommand(), path, "40", "--load")
	require.NoError(t, err)

	var res GenerateResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	require.NotNil(t, res.Load)
	assert.Equal(t, "duckdb", res.Load.Target)
	assert.Equal(t, "fake_data", res.Load.Table)
	assert.Equal(t, int64(40), res.Load.Rows)
}

func TestLoadCommand(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "fake.duckdb")
	testutil.UseConfig(t, "output: json\ntarget:\n  type: duckdb\n  database: "+dbPath+"\n")

	csvPath := filepath.Join(dir, "out.csv")
	require.NoError(t, generator.GenerateCSV(csvPath, 12, textgen.NewSeeded(1)))

	stdout, _, err := testutil.Execute(t, NewLoadCommand(), csvPath, "--table", "people")
	require.NoError(t, err)

	var res LoadResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, "people", res.Table)
	assert.Equal(t, int64(12), res.Rows)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "duckdb file should exist")
}

func TestLoadCommand_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		testutil.UseConfig(t, "history: false\n")
		_, _, err := testutil.Execute(t, NewLoadCommand(), filepath.Join(t.TempDir(), "nope.csv"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot load")
	})

	t.Run("unknown target", func(t *testing.T) {
		testutil.UseConfig(t, "target:\n  type: mysql\n")
		csvPath := filepath.Join(t.TempDir(), "out.csv")
		require.NoError(t, generator.GenerateCSV(csvPath, 1, textgen.NewSeeded(1)))

		_, _, err := testutil.Execute(t, NewLoadCommand(), csvPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown adapter type")
	})
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.csv")
	require.NoError(t, generator.GenerateCSV(good, 30, textgen.NewSeeded(2)))
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("a,b\n1,2\n3\n"), 0o600))

	t.Run("json valid", func(t *testing.T) {
		testutil.UseConfig(t, "output: json\n")
		stdout, _, err := testutil.Execute(t, NewInspectCommand(), good, "--strict")
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(stdout), &got))
		assert.Equal(t, true, got["valid"])
		assert.Equal(t, float64(30), got["rows"])
		assert.Equal(t, float64(generator.ColumnCount), got["columns"])
	})

	t.Run("text valid", func(t *testing.T) {
		testutil.UseConfig(t, "output: text\n")
		stdout, _, err := testutil.Execute(t, NewInspectCommand(), good)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Column1,Column2")
		assert.Contains(t, stdout, "matches the generator format")
	})

	t.Run("invalid without strict", func(t *testing.T) {
		testutil.UseConfig(t, "output: text\n")
		_, stderr, err := testutil.Execute(t, NewInspectCommand(), bad)
		require.NoError(t, err)
		assert.Contains(t, stderr, "invalid csv")
	})

	t.Run("invalid with strict", func(t *testing.T) {
		testutil.UseConfig(t, "output: json\n")
		stdout, _, err := testutil.Execute(t, NewInspectCommand(), bad, "--strict")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 rows do not have")
		assert.Contains(t, stdout, `"valid": false`)
	})

	t.Run("missing file", func(t *testing.T) {
		testutil.UseConfig(t, "")
		_, _, err := testutil.Execute(t, NewInspectCommand(), filepath.Join(dir, "nope.csv"))
		require.Error(t, err)
	})
}

func TestHistoryCommand(t *testing.T) {
	testutil.UseConfig(t, "output: json\nseed: 3\n")
	dir := t.TempDir()

	stdout, _, err := testutil.Execute(t, NewHistoryCommand())
	require.NoError(t, err)
	assert.Equal(t, "[]\n", stdout)

	for _, name := range []string{"a.csv", "b.csv", "c.csv"} {
		_, _, err := testutil.Execute(t, NewGenerateCommand(), filepath.Join(dir, name), "2")
		require.NoError(t, err)
	}

	stdout, _, err = testutil.Execute(t, NewHistoryCommand(), "--limit", "2")
	require.NoError(t, err)

	var runs []state.Run
	require.NoError(t, json.Unmarshal([]byte(stdout), &runs))
	require.Len(t, runs, 2)
	assert.Equal(t, filepath.Join(dir, "c.csv"), runs[0].Path)
	assert.Equal(t, filepath.Join(dir, "b.csv"), runs[1].Path)
	assert.Equal(t, int64(3), runs[0].Seed)
}

func TestHistoryCommand_Text(t *testing.T) {
	testutil.UseConfig(t, "output: text\nseed: 3\n")

	stdout, _, err := testutil.Execute(t, NewHistoryCommand())
	require.NoError(t, err)
	assert.Contains(t, stdout, "No runs recorded yet")

	_, _, err = testutil.Execute(t, NewGenerateCommand(), filepath.Join(t.TempDir(), "a.csv"), "2")
	require.NoError(t, err)

	stdout, _, err = testutil.Execute(t, NewHistoryCommand())
	require.NoError(t, err)
	assert.Contains(t, stdout, "completed")
	assert.Contains(t, stdout, "a.csv")
	assert.Contains(t, stdout, "TOOK")
	assert.Regexp(t, `\d+(\.\d+)?(ns|µs|ms|s)\s*│\s*$`, firstDataRow(t, stdout), "completed run shows its duration")

	_, _, err = testutil.Execute(t, NewHistoryCommand(), "--limit", "0")
	require.Error(t, err)
}

func TestInitCommand(t *testing.T) {
	tests := []struct {
		name     string
		setupDir func(t *testing.T, dir string)
		args     []string
		wantErr  string
		check    func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "default duckdb",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "duckdb", cfg.Target.Type)
				assert.True(t, strings.HasSuffix(cfg.Target.Database, "csvgen.duckdb"))
				assert.True(t, cfg.History)
			},
		},
		{
			name: "postgres",
			args: []string{"--target", "postgres"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "postgres", cfg.Target.Type)
				assert.Equal(t, "csvgen", cfg.Target.Database)
				assert.Equal(t, 5432, cfg.Target.Port)
				assert.Equal(t, "disable", cfg.Target.Options["sslmode"])
			},
		},
		{
			name: "existing config without force",
			setupDir: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte("existing"), 0o600))
			},
			wantErr: "already exists",
		},
		{
			name: "existing config with force",
			setupDir: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte("existing"), 0o600))
			},
			args: []string{"--force"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "duckdb", cfg.Target.Type)
			},
		},
		{
			name:    "unsupported target",
			args:    []string{"--target", "oracle"},
			wantErr: "unsupported target type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.UseConfig(t, "")
			dir := filepath.Join(t.TempDir(), "project")
			require.NoError(t, os.MkdirAll(dir, 0o750))
			if tt.setupDir != nil {
				tt.setupDir(t, dir)
			}

			stdout, _, err := testutil.Execute(t, NewInitCommand(), append([]string{dir}, tt.args...)...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, stdout, "Created")

			config.ResetConfig()
			cfg, err := config.LoadConfig(filepath.Join(dir, config.ConfigFileName), nil)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, config.DefaultStateFile), cfg.StatePath)
			tt.check(t, cfg)
		})
	}
}

func TestInitCommand_CreatesDirectory(t *testing.T) {
	testutil.UseConfig(t, "")
	dir := filepath.Join(t.TempDir(), "a", "b")

	_, _, err := testutil.Execute(t, NewInitCommand(), dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "state_path: .csvgen/state.db")
	assert.Contains(t, string(data), "type: duckdb")
}

// firstDataRow returns the first table line after the header separator.
func firstDataRow(t *testing.T, rendered string) string {
	t.Helper()
	lines := strings.Split(rendered, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "├") && i+1 < len(lines) {
			return lines[i+1]
		}
	}
	t.Fatalf("no data row in table:\n%s", rendered)
	return ""
}
