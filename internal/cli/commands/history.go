package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/csvgen/internal/cli/output"
	"github.com/leapstack-labs/csvgen/internal/state"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent generate runs",
		Long: `List recent generate runs recorded in the state database, newest first.
Each run keeps its seed, so any file can be reproduced with --seed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}

			c := NewCommandContext(cmd)
			store, err := c.OpenStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.ListRuns(limit)
			if err != nil {
				return err
			}
			return renderHistory(c.Renderer, runs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")

	return cmd
}

func renderHistory(r *output.Renderer, runs []*state.Run) error {
	if r.EffectiveMode() == output.ModeJSON {
		if runs == nil {
			runs = []*state.Run{}
		}
		return r.JSON(runs)
	}

	if len(runs) == 0 {
		r.Muted("No runs recorded yet. Run 'csvgen generate <path> <rows>' first.")
		return nil
	}

	styles := r.Styles()
	rows := make([]table.Row, 0, len(runs))
	for _, run := range runs {
		status := styles.StatusRunning.String()
		switch run.Status {
		case state.RunStatusCompleted:
			status = styles.StatusSuccess.String()
		case state.RunStatusFailed:
			status = styles.StatusFailed.String()
		}

		took := "-"
		if run.CompletedAt != nil {
			took = run.Duration().Round(time.Millisecond).String()
		}

		size := output.Bytes(run.Bytes)
		if run.Error != "" {
			size = run.Error
		}

		rows = append(rows, table.Row{
			status + " " + string(run.Status),
			run.Path,
			r.Number(int64(run.Rows)),
			run.Seed,
			size,
			output.Ago(run.StartedAt),
			took,
		})
	}

	r.Table(table.Row{"Status", "Path", "Rows", "Seed", "Size", "Started", "Took"}, rows)
	return nil
}
