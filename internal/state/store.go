// Package state records generation runs in a SQLite database.
//
// Core types live in pkg/core; this package re-exports them via type aliases.
package state

import (
	"github.com/leapstack-labs/csvgen/pkg/core"
)

type (
	// Store is an alias for core.Store.
	Store = core.Store

	// RunStatus is an alias for core.RunStatus.
	RunStatus = core.RunStatus

	// Run is an alias for core.Run.
	Run = core.Run
)

const (
	RunStatusRunning   = core.RunStatusRunning
	RunStatusCompleted = core.RunStatusCompleted
	RunStatusFailed    = core.RunStatusFailed
)

var _ Store = (*SQLiteStore)(nil)
