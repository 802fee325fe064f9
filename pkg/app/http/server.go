package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/wallet-dashboard/pkg/config"
)

const defaultShutdownTimeout = 30 * time.Second

// ServeAndWait binds cfg's address, serves handler and blocks until ctx is
// done or the server fails. A bind failure is returned before serving starts.
// Shutdown is graceful and bounded by shutdownTimeout.
func ServeAndWait(
	ctx context.Context,
	handler http.Handler,
	logger *zap.Logger,
	cfg *config.ServerConfig,
	shutdownTimeout time.Duration,
) error {
	switch {
	case handler == nil:
		return errors.New("nil handler")
	case cfg == nil:
		return errors.New("nil server config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	ln, err := net.Listen("tcp", cfg.Address())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Address(), err)
	}

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	served := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.Stringer("address", ln.Addr()))
		served <- srv.Serve(ln)
	}()

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("HTTP server error", zap.Error(err))
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		logger.Info("Shutdown signal received", zap.Duration("timeout", shutdownTimeout))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	logger.Info("HTTP server stopped")
	return nil
}
