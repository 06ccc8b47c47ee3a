package commands

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/nlnotebook/internal/authclient"
	"github.com/leapstack-labs/nlnotebook/internal/metrics"
	"github.com/leapstack-labs/nlnotebook/internal/notebook"
	"github.com/leapstack-labs/nlnotebook/internal/ui"
	"github.com/leapstack-labs/nlnotebook/internal/workspace"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	NoBrowser bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"ui"},
		Short:   "Start the notebook dashboard",
		Long: `Start a local web server hosting the notebook dashboard.

Each browser session gets its own query history per notebook. Queries are
sent to the configured query service and answers are rendered as result cards.
Prometheus metrics are exposed on /metrics.`,
		Example: `  # Start on the default port
  nlnotebook serve

  # Start on a custom port without opening a browser
  nlnotebook serve --port 3000 --no-browser

  # Reload pages when stylesheets change
  nlnotebook serve --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().Int("port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().Bool("watch", false, "Reload pages when static assets change")
	cmd.Flags().String("static-dir", "", "Static asset directory to watch")
	cmd.Flags().String("auth-url", "", "Auth provider base URL")
	cmd.Flags().String("callback-url", "", "Path to open after sign-in")
	cmd.Flags().Duration("session-ttl", 0, "Idle time before a session's history is dropped")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cctx := NewCommandContext(cmd)
	cfg := cctx.Cfg

	m := metrics.New()
	wsCfg, err := WorkspaceConfig(cfg, cctx.Logger, m)
	if err != nil {
		return err
	}

	server := ui.NewServer(ui.Config{
		Catalog:       notebook.NewCatalog(cfg.Notebooks),
		Registry:      workspace.NewRegistry(wsCfg),
		Auth:          authclient.New(cfg.Auth.BaseURL, nil),
		CallbackURL:   cfg.Auth.CallbackURL,
		Metrics:       m,
		Port:          cfg.UI.Port,
		Watch:         cfg.UI.Watch,
		StaticDir:     cfg.UI.StaticDir,
		SessionSecret: cfg.GetSessionSecret(),
		Logger:        cctx.Logger,
	})

	url := fmt.Sprintf("http://localhost:%d", cfg.UI.Port)
	if cfg.UI.AutoOpen && !opts.NoBrowser {
		go openBrowser(url)
	}

	cctx.Renderer.Printf("Starting notebook dashboard on %s\n", url)
	cctx.Renderer.Printf("Sending queries to %s\n", cfg.QueryAPI.URL)
	cctx.Renderer.Println("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return server.Serve(ctx)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
