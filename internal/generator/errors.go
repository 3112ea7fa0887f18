package generator

import "errors"

// Sentinel errors for generation failures. Returned errors wrap one of these
// together with the underlying cause, so both match with errors.Is.
var (
	// ErrIO is returned when the destination cannot be created, written,
	// synced, closed or published.
	ErrIO = errors.New("csv output error")

	// ErrGenerator is returned when the text generator fails to produce a cell.
	ErrGenerator = errors.New("text generator error")

	// ErrInvalidRowCount is returned for a negative row count.
	ErrInvalidRowCount = errors.New("row count must not be negative")
)
