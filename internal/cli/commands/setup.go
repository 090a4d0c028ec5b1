package commands

import (
	"log/slog"

	"github.com/leapstack-labs/sqleaner/internal/cli/config"
	"github.com/leapstack-labs/sqleaner/internal/engine"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Engine *engine.Engine
}

// NewCommandContext builds the dependencies a command needs from the
// configuration the root command stored in the context.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	policy, err := engine.ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:    cfg,
		Logger: logger,
		Engine: engine.New(engine.Config{Policy: policy, Logger: logger}),
	}, nil
}
