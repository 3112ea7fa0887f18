package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/csvgen/internal/cli/config"
	"github.com/leapstack-labs/csvgen/internal/cli/output"
	"github.com/leapstack-labs/csvgen/pkg/core"
)

// projectFile is the layout of a freshly written csvgen.yaml.
type projectFile struct {
	StatePath string            `yaml:"state_path"`
	History   bool              `yaml:"history"`
	Seed      int64             `yaml:"seed"`
	LogLevel  string            `yaml:"log_level"`
	LogFormat string            `yaml:"log_format"`
	Output    string            `yaml:"output"`
	Target    core.TargetConfig `yaml:"target"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var (
		force      bool
		targetType string
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default csvgen.yaml",
		Long: `Write a csvgen.yaml configuration file with the default settings.

Commands run in the directory (or any directory below it) pick it up
automatically. Relative paths in the file are resolved against the
directory that contains it.`,
		Example: `  # Initialize in current directory
  csvgen init

  # Initialize a new directory with a Postgres target
  csvgen init fakes --target postgres

  # Force overwrite existing config
  csvgen init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			c := NewCommandContext(cmd)
			return runInit(c.Renderer, dir, targetType, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().StringVar(&targetType, "target", "duckdb", "Target database type (duckdb|postgres)")

	_ = cmd.RegisterFlagCompletionFunc("target", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"duckdb", "postgres"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func defaultProjectFile(targetType string) (*projectFile, error) {
	pf := &projectFile{
		StatePath: config.DefaultStateFile,
		History:   true,
		LogLevel:  config.DefaultLogLevel,
		LogFormat: config.DefaultLogFormat,
		Output:    config.DefaultOutput,
	}

	switch targetType {
	case "duckdb":
		pf.Target = core.TargetConfig{Type: "duckdb", Database: "csvgen.duckdb"}
	case "postgres":
		pf.Target = core.TargetConfig{
			Type:     "postgres",
			Host:     "localhost",
			Port:     5432,
			Database: "csvgen",
			User:     "${PGUSER}",
			Password: "${PGPASSWORD}",
			Schema:   "public",
			Options:  map[string]string{"sslmode": "disable"},
		}
	default:
		return nil, fmt.Errorf("unsupported target type %q (want duckdb or postgres)", targetType)
	}
	return pf, nil
}

func runInit(r *output.Renderer, dir, targetType string, force bool) error {
	pf, err := defaultProjectFile(targetType)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
	}

	var buf bytes.Buffer
	buf.WriteString("# csvgen configuration. Environment variables (CSVGEN_*) and flags override these values.\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(pf); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(configPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.Success("Created " + configPath)
	return nil
}
