// Package commands implements the csvgen subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/csvgen/internal/cli/config"
	"github.com/leapstack-labs/csvgen/internal/cli/output"
	"github.com/leapstack-labs/csvgen/internal/state"
	"github.com/leapstack-labs/csvgen/pkg/adapter"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds the dependencies shared by every command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// OpenStore opens the run history database, creating its directory if needed.
func (c *CommandContext) OpenStore() (*state.SQLiteStore, error) {
	stateDir := filepath.Dir(c.Cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLiteStore(c.Logger)
	if err := store.OpenAndMigrate(c.Cfg.StatePath); err != nil {
		return nil, err
	}
	return store, nil
}

// ConnectTarget connects to the configured target database.
// Callers must Close the returned adapter.
func (c *CommandContext) ConnectTarget(ctx context.Context) (adapter.Adapter, error) {
	if err := config.ValidateTarget(c.Cfg.Target); err != nil {
		return nil, fmt.Errorf("invalid target configuration: %w", err)
	}

	adp, err := adapter.NewAdapter(c.Cfg.Target.AdapterConfig(), c.Logger)
	if err != nil {
		return nil, err
	}
	if err := adp.Connect(ctx, c.Cfg.Target.AdapterConfig()); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", c.Cfg.Target.Type, err)
	}
	return adp, nil
}

// getConfig returns the loaded configuration, or defaults when commands run
// without the root command (tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}
