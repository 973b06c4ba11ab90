package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/regaudit/internal/cli/config"
	"github.com/leapstack-labs/regaudit/internal/cli/output"
	"github.com/leapstack-labs/regaudit/internal/starlark"
	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/audit/rules"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration, or the defaults when no
// configuration was loaded (e.g. commands built directly in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// loadCatalog returns the built-in rules plus the scripts in the rules directory.
func loadCatalog(cfg *config.Config, logger *slog.Logger) (*audit.Catalog, error) {
	c, err := rules.NewCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to register built-in rules: %w", err)
	}
	if _, err := starlark.NewLoader(cfg.RulesDir, logger).Register(c); err != nil {
		return nil, err
	}
	return c, nil
}
