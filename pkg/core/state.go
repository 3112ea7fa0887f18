package core

import "time"

// Store records generation runs.
type Store interface {
	CreateRun(path string, rows int, seed int64) (*Run, error)
	CompleteRun(id string, status RunStatus, bytes int64, errMsg string) error
	GetRun(id string) (*Run, error)
	ListRuns(limit int) ([]*Run, error)
	Close() error
}

// RunStatus represents the status of a generation run.
type RunStatus string

// Run status constants.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one invocation of the generator from the CLI.
type Run struct {
	ID          string     `json:"id"`
	Path        string     `json:"path"`
	Rows        int        `json:"rows"`
	Seed        int64      `json:"seed"`
	Status      RunStatus  `json:"status"`
	Bytes       int64      `json:"bytes"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Duration returns how long the run took, or zero while it is still running.
func (r *Run) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}
