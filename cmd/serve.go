package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/docuflow/docuflow/internal/handlers"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local API for a browser front end",
		Long: `Starts a local HTTP API that exposes login, generation and preview to a
browser front end. Generated documents are streamed back as attachments.`,
		Example: `  # Start server on the configured address (default :8888)
  docuflow serve

  # Start server on a custom address
  docuflow serve --addr 127.0.0.1:3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Serve.Addr
			}
			ctx := cmd.Context()

			slog.Info("Backend status", "api_url", a.api.BaseURL(), "status", a.probe.Check(ctx))
			if session, ok := a.auth.Restore(ctx); ok {
				slog.Info("Restored session", "username", session.Username)
			}

			handler := handlers.New(a.auth, a.probe, a.orchestrator(""), a.sessions)
			server := &http.Server{
				Addr:    addr,
				Handler: handler.Routes(),
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Docuflow API available", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-ctx.Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (defaults to serve.addr from config)")

	return cmd
}
