package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapedi/internal/server"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port int // Listen port; 0 uses the configured default
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion server",
		Long: `Serve the codec over HTTP.

Endpoints:
  POST /v1/to-xml    EDI body in, XML out (?indent=1 to pretty-print)
  POST /v1/from-xml  XML body in, EDI out
  POST /v1/inspect   EDI body in, JSON structure summary out
  GET  /healthz      liveness check

The server runs until interrupted and shuts down gracefully.`,
		Example: `  # Serve on the default port
  leapedi serve

  # Custom port
  leapedi serve --port 9090`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Listen port (default from config)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	port := opts.Port
	if port <= 0 {
		port = cmdCtx.Cfg.Port
	}

	srv := server.NewServer(server.Config{
		Port:   port,
		Delims: cmdCtx.Delims,
		Logger: cmdCtx.Logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Serve(ctx)
}
