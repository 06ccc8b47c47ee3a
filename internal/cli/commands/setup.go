// Package commands implements the nlnotebook subcommands.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/nlnotebook/internal/cli/config"
	"github.com/leapstack-labs/nlnotebook/internal/cli/output"
	"github.com/leapstack-labs/nlnotebook/internal/history"
	"github.com/leapstack-labs/nlnotebook/internal/metrics"
	"github.com/leapstack-labs/nlnotebook/internal/queryapi"
	"github.com/leapstack-labs/nlnotebook/internal/submit"
	"github.com/leapstack-labs/nlnotebook/internal/workspace"
)

// terminalWorkspace and terminalNotebook name the single page used by the
// terminal front-ends.
const (
	terminalWorkspace = "terminal"
	terminalNotebook  = "terminal"
)

// CommandContext holds the dependencies of a command run.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetCurrentConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// WorkspaceConfig translates the history and query API settings into a
// workspace configuration.
func WorkspaceConfig(cfg *config.Config, logger *slog.Logger, m *metrics.Collector) (workspace.Config, error) {
	policy, err := history.ParsePolicy(cfg.History.MalformedReply)
	if err != nil {
		return workspace.Config{}, err
	}
	guard, err := submit.ParseGuard(cfg.History.Concurrent)
	if err != nil {
		return workspace.Config{}, err
	}

	var opts []queryapi.Option
	if d := cfg.Timeout(); d > 0 {
		opts = append(opts, queryapi.WithTimeout(d))
	}

	return workspace.Config{
		Querier:  queryapi.New(cfg.QueryAPI.URL, opts...),
		Guard:    guard,
		Policy:   policy,
		Capacity: cfg.History.Capacity,
		TTL:      cfg.History.SessionTTL,
		Logger:   logger,
		Metrics:  m,
	}, nil
}

// terminalPage returns the page that ask and repl submit through.
func (c *CommandContext) terminalPage() (*workspace.Page, error) {
	wsCfg, err := WorkspaceConfig(c.Cfg, c.Logger, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid history configuration: %w", err)
	}
	return workspace.NewRegistry(wsCfg).Get(terminalWorkspace).Page(terminalNotebook), nil
}
