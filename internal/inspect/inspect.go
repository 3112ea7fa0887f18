// Package inspect reads generated CSV files back and checks their shape.
package inspect

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// maxReportedRows caps the row numbers kept in Report.Inconsistent.
const maxReportedRows = 20

// Report describes a CSV file.
type Report struct {
	Path    string   `json:"path"`
	Header  []string `json:"header"`
	Rows    int      `json:"rows"`
	Columns int      `json:"columns"`
	// Inconsistent holds 1-based data row numbers whose field count differs
	// from the header. At most maxReportedRows are kept.
	Inconsistent      []int  `json:"inconsistent,omitempty"`
	InconsistentCount int    `json:"inconsistent_count"`
	MaxCellLen        int    `json:"max_cell_len"`
	LongestCell       string `json:"longest_cell"`
	Bytes             int64  `json:"bytes"`
}

// Inspect streams the CSV at path and summarizes it.
func Inspect(path string) (*Report, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by the caller on purpose
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	report, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	report.Path = path
	report.Bytes = info.Size()
	return report, nil
}

// Read summarizes CSV data from r.
func Read(r io.Reader) (*Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file: missing header row")
	}
	if err != nil {
		return nil, err
	}

	report := &Report{
		Header:  append([]string(nil), header...),
		Columns: len(header),
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		report.Rows++

		if len(record) != report.Columns {
			report.InconsistentCount++
			if len(report.Inconsistent) < maxReportedRows {
				report.Inconsistent = append(report.Inconsistent, report.Rows)
			}
		}

		for _, cell := range record {
			if n := utf8.RuneCountInString(cell); n > report.MaxCellLen {
				report.MaxCellLen = n
				report.LongestCell = cell
			}
		}
	}

	return report, nil
}

// Valid reports whether the file matches the expected header, and whether
// every data cell fits in maxCell characters.
func (r *Report) Valid(header []string, maxCell int) error {
	var problems []string

	if strings.Join(r.Header, ",") != strings.Join(header, ",") {
		problems = append(problems, fmt.Sprintf("header is %q, want %q", strings.Join(r.Header, ","), strings.Join(header, ",")))
	}
	if r.InconsistentCount > 0 {
		problems = append(problems, fmt.Sprintf("%d rows do not have %d fields (first: %v)", r.InconsistentCount, len(header), r.Inconsistent))
	}
	if r.MaxCellLen > maxCell {
		problems = append(problems, fmt.Sprintf("longest cell has %d characters, limit is %d: %q", r.MaxCellLen, maxCell, r.LongestCell))
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("invalid csv: %s", strings.Join(problems, "; "))
}
