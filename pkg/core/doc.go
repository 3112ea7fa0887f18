// Package core defines the shared types of csvgen.
//
// This package contains:
//   - Domain entities (Run, RunStatus)
//   - Service interfaces (Adapter, Store)
//   - Configuration types (AdapterConfig, TargetConfig)
//
// pkg/core imports only the standard library. All other packages depend on
// core, not the reverse.
package core
