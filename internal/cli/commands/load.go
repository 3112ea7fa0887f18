package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/csvgen/internal/cli/output"
	"github.com/leapstack-labs/csvgen/pkg/adapter"
)

// LoadResult describes a CSV loaded into the target.
type LoadResult struct {
	Path   string `json:"path"`
	Target string `json:"target"`
	Table  string `json:"table"`
	Rows   int64  `json:"rows"`
}

// NewLoadCommand creates the load command.
func NewLoadCommand() *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "load <path>",
		Short: "Load a CSV file into the target database",
		Long: `Load a CSV file into the configured target database.

The table is created or replaced with one text column per header field.
By default the table is named after the file.`,
		Example: `  # Load into an in-memory DuckDB (useful as a smoke test)
  csvgen load out.csv

  # Load into a DuckDB file under a chosen table name
  csvgen load out.csv --database fake.duckdb --table people`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := NewCommandContext(cmd)
			res, err := c.loadCSV(cmd.Context(), args[0], table)
			if err != nil {
				return err
			}
			return renderLoad(c.Renderer, res)
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "Table name (default: derived from the file name)")

	return cmd
}

// loadCSV loads path into table on the configured target and counts the rows.
func (c *CommandContext) loadCSV(ctx context.Context, path, table string) (*LoadResult, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot load %s: %w", path, err)
	}
	if table == "" {
		table = adapter.TableNameFromPath(path)
	}

	adp, err := c.ConnectTarget(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = adp.Close() }()

	c.Logger.Info("loading csv", slog.String("path", path), slog.String("table", table), slog.String("target", c.Cfg.Target.Type))

	if err := adp.LoadCSV(ctx, table, path); err != nil {
		return nil, err
	}

	n, err := adp.RowCount(ctx, table)
	if err != nil {
		return nil, err
	}

	return &LoadResult{Path: path, Target: c.Cfg.Target.Type, Table: table, Rows: n}, nil
}

func renderLoad(r *output.Renderer, res *LoadResult) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(res)
	}
	r.Success(fmt.Sprintf("Loaded %s rows into %s.%s", r.Number(res.Rows), res.Target, res.Table))
	return nil
}
