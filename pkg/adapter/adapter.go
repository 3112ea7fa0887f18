// Package adapter provides the database adapter contract used to load
// generated CSV files into a table.
//
// Concrete implementations live in pkg/adapters/ subdirectories and register
// themselves from init(). Import them with a blank identifier.
package adapter

import (
	"github.com/leapstack-labs/csvgen/pkg/core"
)

type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Adapter is an alias for core.Adapter.
	Adapter = core.Adapter
)
