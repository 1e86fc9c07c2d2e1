package cli

import (
	"context"
	"errors"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/inboxatlas/inboxatlas/internal/api"
	"github.com/inboxatlas/inboxatlas/internal/server"
)

// newServeCmd creates the serve command group.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the triage store over MCP (stdio)",
		Long: `Serve runs the inboxatlas MCP server on stdio so an AI assistant can
read and write the triage store through tools. Use "serve http" for the
read-only HTTP API instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServeStdio(cmd.Context())
		},
	}

	cmd.AddCommand(newServeHTTPCmd())
	return cmd
}

// runServeStdio runs the MCP server on stdin/stdout. Logs go to stderr
// so they never corrupt the protocol stream.
func runServeStdio(ctx context.Context) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	s, cleanup, err := server.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Infof("Serving MCP on stdio (%s backend)", cfg.Store.Backend)
	return mcpserver.ServeStdio(s)
}

// newServeHTTPCmd creates the "serve http" subcommand.
func newServeHTTPCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the read-only HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServeHTTP(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

// runServeHTTP runs the chi API until the context is cancelled, then
// shuts down gracefully.
func runServeHTTP(ctx context.Context, addr string) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)
	if addr == "" {
		addr = cfg.HTTP.Addr
	}

	st, err := server.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := api.NewServer(addr, api.NewHandler(st))

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Serving HTTP on %s (%s backend)", addr, cfg.Store.Backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), srv.WriteTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
