package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/gridlayout/internal/httpapi"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered layouts and the edit endpoints over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, app, addr, func(a string) {
				fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", a)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", app.Addr, "Listen address")
	return cmd
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func serve(ctx context.Context, app *App, addr string, started func(string)) error {
	api := &httpapi.Server{
		Layouts: app.Layouts,
		Edits:   app.Edits,
		Tokens:  app.Tokens,
		Pages:   app.Pages,
		Logger:  app.Logger,
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	started(addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http: %w", err)
		}
		return nil
	}
}
