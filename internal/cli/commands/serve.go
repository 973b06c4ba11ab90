package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/regaudit/internal/server"
	"github.com/leapstack-labs/regaudit/pkg/audit"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	NoWatch bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve audits over HTTP",
		Long: `Start an HTTP server that audits uploaded tables.

Endpoints:
  GET  /healthz      liveness and rule count
  GET  /rules        rule catalog by category
  GET  /rules/{id}   one rule
  POST /audit        audit a csv or xlsx body, returns the JSON report
  GET  /events       server-sent events on rule reloads

Rule scripts in the rules directory are reloaded when they change.`,
		Example: `  # Start on the default address (:8686)
  regaudit serve

  # Audit a workbook with curl
  curl --data-binary @registry.xlsx \
    -H 'Content-Type: application/vnd.openxmlformats-officedocument.spreadsheetml.sheet' \
    'http://localhost:8686/audit?category=Общие'`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default: :8686)")
	cmd.Flags().BoolVar(&opts.NoWatch, "no-watch", false, "Don't reload rule scripts on change")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cc := NewCommandContext(cmd)

	watchDir := cc.Cfg.RulesDir
	if opts.NoWatch {
		watchDir = ""
	}

	srv, err := server.New(server.Config{
		Addr: cc.Cfg.Serve.Addr,
		LoadCatalog: func() (*audit.Catalog, error) {
			return loadCatalog(cc.Cfg, cc.Logger)
		},
		RuleConfig: cc.Cfg.RuleConfig(),
		WatchDir:   watchDir,
		Logger:     cc.Logger,
	})
	if err != nil {
		return err
	}

	cc.Renderer.Println(fmt.Sprintf("Serving %d rules on %s", srv.Catalog().Count(), cc.Cfg.Serve.Addr))
	cc.Renderer.Muted("Press Ctrl+C to stop")

	return srv.Serve(cmd.Context())
}
