// Package generator writes CSV files of synthetic text rows.
//
// A file always has a header row (Column1..Column7) followed by the requested
// number of data rows. Every data cell comes from a TextGenerator asked for at
// most MaxCellChars characters. Rows are streamed to a temporary file next to
// the destination, which is renamed over the destination only once everything
// has been written and synced. A failed generation leaves nothing behind.
// A symlinked destination is followed, and an existing file keeps its mode.
package generator

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	// ColumnCount is the number of fields in every row.
	ColumnCount = 7

	// MaxCellChars is the maximum length requested for each data cell.
	MaxCellChars = 20

	outputPerm = 0o644
)

// TextGenerator produces a pseudo-random text of at most maxChars characters.
type TextGenerator interface {
	Text(maxChars int) (string, error)
}

// TextFunc adapts a plain function to the TextGenerator interface.
type TextFunc func(maxChars int) (string, error)

// Text calls f(maxChars).
func (f TextFunc) Text(maxChars int) (string, error) {
	return f(maxChars)
}

// Progress receives the number of data rows written since the last call.
// *progressbar.ProgressBar satisfies it.
type Progress interface {
	Add(n int) error
}

// Config configures a Generator.
type Config struct {
	Text     TextGenerator
	Logger   *slog.Logger
	Progress Progress
}

// Result describes a completed generation.
type Result struct {
	Path     string
	Rows     int
	Columns  int
	Bytes    int64
	Duration time.Duration
}

// Generator writes CSV files.
type Generator struct {
	text     TextGenerator
	logger   *slog.Logger
	progress Progress
}

// New creates a Generator. If cfg.Logger is nil, a discard logger is used.
func New(cfg Config) *Generator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{
		text:     cfg.Text,
		logger:   logger,
		progress: cfg.Progress,
	}
}

// GenerateCSV writes a header plus rowCount rows of generated text to path.
func GenerateCSV(path string, rowCount int, text TextGenerator) error {
	_, err := New(Config{Text: text}).Generate(path, rowCount)
	return err
}

// Header returns the header row.
func Header() []string {
	header := make([]string, ColumnCount)
	for i := range header {
		header[i] = "Column" + strconv.Itoa(i+1)
	}
	return header
}

// Generate writes a header plus rowCount rows to path, replacing any existing file.
func (g *Generator) Generate(path string, rowCount int) (*Result, error) {
	if rowCount < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRowCount, rowCount)
	}
	if g.text == nil {
		return nil, fmt.Errorf("%w: no text generator configured", ErrGenerator)
	}

	start := time.Now()
	g.logger.Debug("generating csv", slog.String("path", path), slog.Int("rows", rowCount))

	target, perm, err := resolveTarget(path)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrIO, path, err)
	}
	tmpPath := tmp.Name()

	published := false
	defer func() {
		if published {
			return
		}
		_ = tmp.Close()
		if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
			g.logger.Warn("failed to remove temporary file", slog.String("path", tmpPath), slog.Any("error", rmErr))
		}
	}()

	cw := &countingWriter{w: tmp}
	w := csv.NewWriter(cw)

	if err := g.writeRows(w, path, rowCount); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("%w: write %s: %w", ErrIO, path, err)
	}
	if err := tmp.Sync(); err != nil {
		return nil, fmt.Errorf("%w: sync %s: %w", ErrIO, path, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("%w: close %s: %w", ErrIO, path, err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return nil, fmt.Errorf("%w: chmod %s: %w", ErrIO, path, err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return nil, fmt.Errorf("%w: publish %s: %w", ErrIO, path, err)
	}
	published = true

	res := &Result{
		Path:     path,
		Rows:     rowCount,
		Columns:  ColumnCount,
		Bytes:    cw.n,
		Duration: time.Since(start),
	}

	g.logger.Debug("csv written",
		slog.String("path", path),
		slog.Int("rows", res.Rows),
		slog.Int64("bytes", res.Bytes),
		slog.Duration("duration", res.Duration),
	)

	return res, nil
}

// resolveTarget returns the file Generate replaces and the mode the new file
// gets. Symlinks are followed so the file they point at is rewritten and the
// link survives. An existing file keeps its permissions.
func resolveTarget(path string) (string, os.FileMode, error) {
	target := path
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		resolved, err := filepath.EvalSymlinks(path)
		switch {
		case err == nil:
			target = resolved
		case errors.Is(err, os.ErrNotExist):
			// Dangling link: create the file it names.
			dest, err := os.Readlink(path)
			if err != nil {
				return "", 0, fmt.Errorf("%w: resolve %s: %w", ErrIO, path, err)
			}
			if !filepath.IsAbs(dest) {
				dest = filepath.Join(filepath.Dir(path), dest)
			}
			target = dest
		default:
			return "", 0, fmt.Errorf("%w: resolve %s: %w", ErrIO, path, err)
		}
	}

	info, err := os.Stat(target)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return target, outputPerm, nil
	case err != nil:
		return "", 0, fmt.Errorf("%w: stat %s: %w", ErrIO, path, err)
	case info.IsDir():
		return "", 0, fmt.Errorf("%w: %s is a directory", ErrIO, path)
	}
	return target, info.Mode().Perm(), nil
}

func (g *Generator) writeRows(w *csv.Writer, path string, rowCount int) error {
	if err := w.Write(Header()); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrIO, path, err)
	}

	record := make([]string, ColumnCount)
	for row := 1; row <= rowCount; row++ {
		for col := range record {
			cell, err := g.text.Text(MaxCellChars)
			if err != nil {
				return fmt.Errorf("%w: row %d column %d: %w", ErrGenerator, row, col+1, err)
			}
			record[col] = cell
		}

		if err := w.Write(record); err != nil {
			return fmt.Errorf("%w: write %s: %w", ErrIO, path, err)
		}

		if g.progress != nil {
			if err := g.progress.Add(1); err != nil {
				g.logger.Debug("progress update failed", slog.Any("error", err))
			}
		}
	}

	return nil
}

// countingWriter counts bytes that reach the underlying file.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
