// internal/server/timeouts.go
//
// HTTP server helper with robust timeouts.
//
// Production hardening recommends:
//
//   - ReadTimeout   abort slow-loris headers (10 s)
//   - WriteTimeout  cap total response time (15 s)
//   - IdleTimeout   close keep-alives on idle clients (60 s)
//
// Values come from the `http` config block.  A zero value falls back to
// the default above rather than meaning "no timeout".
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/c0de128/4seasons/internal/config"
)

const (
	defaultRead     = 10 * time.Second
	defaultWrite    = 15 * time.Second
	defaultIdle     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// New constructs an *http.Server from cfg.
func New(cfg config.HTTP, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadTimeout:       orDefault(cfg.ReadTimeout, defaultRead),
		ReadHeaderTimeout: orDefault(cfg.ReadTimeout, defaultRead),
		WriteTimeout:      orDefault(cfg.WriteTimeout, defaultWrite),
		IdleTimeout:       orDefault(cfg.IdleTimeout, defaultIdle),
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		zap.S().Infow("http server listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	zap.S().Info("http server shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
