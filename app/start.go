package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/leaderboard-api/pkg/observability"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Start serves HTTP until ctx is canceled or a listener fails, then drains
// in-flight requests.
func (app *App) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)

	app.wg.Add(1)
	go app.LeaderboardModule.Run(ctx, &app.wg)

	serve := func(name string, srv *http.Server) {
		app.Logger.InfoContext(ctx, "Starting HTTP listener",
			slog.String("listener", name),
			slog.String("address", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%s listener: %w", name, err)
		}
	}

	go serve("api", app.server)
	if app.metricsServer != nil {
		go serve("metrics", app.metricsServer)
	}

	var runErr error
	select {
	case <-ctx.Done():
		app.Logger.Info("Shutdown signal received")
	case runErr = <-errCh:
		app.Logger.Error("HTTP listener failed", observability.ErrorAttr(runErr))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("API server shutdown failed", observability.ErrorAttr(err))
	}
	if app.metricsServer != nil {
		if err := app.metricsServer.Shutdown(shutdownCtx); err != nil {
			app.Logger.Error("Metrics server shutdown failed", observability.ErrorAttr(err))
		}
	}

	cancel()
	app.wg.Wait()
	app.Logger.Info("HTTP servers stopped")
	return runErr
}
