package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/csvgen/internal/cli/output"
	"github.com/leapstack-labs/csvgen/internal/generator"
	"github.com/leapstack-labs/csvgen/internal/inspect"
)

// InspectOutput is the JSON form of the inspect command.
type InspectOutput struct {
	*inspect.Report
	Valid    bool   `json:"valid"`
	Problems string `json:"problems,omitempty"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "inspect <path>",
		Short: "Summarize a CSV file and check it against the generator format",
		Long: `Read a CSV file and report its header, row and column counts, rows with
a different field count, and the longest cell.

The file is also checked against the format written by generate: the
Column1..Column7 header, seven fields per row and at most 20 characters
per cell. With --strict a mismatch makes the command fail.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := NewCommandContext(cmd)

			report, err := inspect.Inspect(args[0])
			if err != nil {
				return err
			}
			validErr := report.Valid(generator.Header(), generator.MaxCellChars)

			if err := renderInspect(c.Renderer, report, validErr); err != nil {
				return err
			}
			if strict && validErr != nil {
				return validErr
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when the file does not match the generator format")

	return cmd
}

func renderInspect(r *output.Renderer, report *inspect.Report, validErr error) error {
	if r.EffectiveMode() == output.ModeJSON {
		out := InspectOutput{Report: report, Valid: validErr == nil}
		if validErr != nil {
			out.Problems = validErr.Error()
		}
		return r.JSON(out)
	}

	styles := r.Styles()
	r.Println(styles.Header1.Render(report.Path))

	inconsistent := r.Number(int64(report.InconsistentCount))
	if report.InconsistentCount > 0 {
		inconsistent = fmt.Sprintf("%s (rows %s)", inconsistent, joinInts(report.Inconsistent))
	}

	r.Table(table.Row{"Property", "Value"}, []table.Row{
		{"Header", strings.Join(report.Header, ",")},
		{"Rows", r.Number(int64(report.Rows))},
		{"Columns", report.Columns},
		{"Inconsistent rows", inconsistent},
		{"Longest cell", fmt.Sprintf("%d chars %q", report.MaxCellLen, report.LongestCell)},
		{"Size", output.Bytes(report.Bytes)},
	})

	if validErr != nil {
		r.Warning(validErr.Error())
	} else {
		r.Success("matches the generator format")
	}
	return nil
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}
