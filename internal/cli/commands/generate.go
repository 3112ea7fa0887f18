package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/csvgen/internal/cli/output"
	"github.com/leapstack-labs/csvgen/internal/generator"
	"github.com/leapstack-labs/csvgen/internal/state"
	"github.com/leapstack-labs/csvgen/internal/textgen"
)

// GenerateResult is the outcome of the generate command.
type GenerateResult struct {
	Path       string      `json:"path"`
	Rows       int         `json:"rows"`
	Columns    int         `json:"columns"`
	Bytes      int64       `json:"bytes"`
	Seed       int64       `json:"seed"`
	DurationMS int64       `json:"duration_ms"`
	RunID      string      `json:"run_id,omitempty"`
	Load       *LoadResult `json:"load,omitempty"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	var (
		load  bool
		table string
	)

	cmd := &cobra.Command{
		Use:   "generate <path> <rows>",
		Short: "Write a CSV file of random text",
		Long: `Write a CSV file with a header (Column1..Column7) followed by <rows>
rows of random text. Every cell holds at most 20 characters.

The file is written to a temporary file and renamed into place, so an
existing file at <path> is only replaced by a complete one.

Pass --seed to make the output reproducible. Without it a random seed is
picked and recorded in the run history.`,
		Example: `  # 1,000 rows
  csvgen generate fake_data.csv 1000

  # Reproducible output
  csvgen generate fake_data.csv 15000 --seed 42

  # Generate and load into DuckDB
  csvgen generate fake_data.csv 1000 --load --database fake.duckdb`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid row count %q: must be a whole number", args[1])
			}
			if rows < 0 {
				return fmt.Errorf("%w: %d", generator.ErrInvalidRowCount, rows)
			}

			c := NewCommandContext(cmd)
			res, err := c.generate(args[0], rows)
			if err != nil {
				return err
			}

			if load {
				res.Load, err = c.loadCSV(cmd.Context(), res.Path, table)
				if err != nil {
					return err
				}
			}

			return renderGenerate(c.Renderer, res)
		},
	}

	cmd.Flags().Int64("seed", 0, "Random seed (0 picks one)")
	cmd.Flags().Bool("no-history", false, "Do not record the run in the state database")
	cmd.Flags().BoolVar(&load, "load", false, "Load the file into the target database after writing it")
	cmd.Flags().StringVar(&table, "table", "", "Table name for --load (default: derived from the file name)")

	return cmd
}

// generate writes the file and records the run when history is enabled.
func (c *CommandContext) generate(path string, rows int) (*GenerateResult, error) {
	var (
		text *textgen.Faker
		seed = c.Cfg.Seed
	)
	if seed == 0 {
		text, seed = textgen.NewRandom()
	} else {
		text = textgen.NewSeeded(seed)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	var (
		store *state.SQLiteStore
		runID string
	)
	if c.Cfg.History {
		store, err = c.OpenStore()
		if err != nil {
			return nil, err
		}
		defer func() { _ = store.Close() }()

		run, err := store.CreateRun(absPath, rows, seed)
		if err != nil {
			return nil, err
		}
		runID = run.ID
	}

	progress := c.Renderer.Progress(rows, "generating")
	gen := generator.New(generator.Config{
		Text:     text,
		Logger:   c.Logger,
		Progress: progress,
	})

	c.Logger.Info("generating csv", slog.String("path", path), slog.Int("rows", rows), slog.Int64("seed", seed))
	res, genErr := gen.Generate(path, rows)
	progress.Finish()

	if store != nil {
		status, bytes, errMsg := state.RunStatusCompleted, int64(0), ""
		if genErr != nil {
			status, errMsg = state.RunStatusFailed, genErr.Error()
		} else {
			bytes = res.Bytes
		}
		if err := store.CompleteRun(runID, status, bytes, errMsg); err != nil {
			c.Logger.Warn("failed to record run", slog.String("run_id", runID), slog.Any("error", err))
		}
	}

	if genErr != nil {
		return nil, genErr
	}

	return &GenerateResult{
		Path:       res.Path,
		Rows:       res.Rows,
		Columns:    res.Columns,
		Bytes:      res.Bytes,
		Seed:       seed,
		DurationMS: res.Duration.Milliseconds(),
		RunID:      runID,
	}, nil
}

func renderGenerate(r *output.Renderer, res *GenerateResult) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(res)
	}

	r.Success(fmt.Sprintf("Wrote %s rows (%s) to %s in %s",
		r.Number(int64(res.Rows)),
		output.Bytes(res.Bytes),
		res.Path,
		(time.Duration(res.DurationMS) * time.Millisecond).String(),
	))
	details := fmt.Sprintf("  seed %d", res.Seed)
	if res.RunID != "" {
		details += ", run " + res.RunID
	}
	r.Muted(details)

	if res.Load != nil {
		return renderLoad(r, res.Load)
	}
	return nil
}
