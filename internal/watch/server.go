package watch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mfulz/boincgeist/internal/metrics"
)

// NewHandler routes /metrics, /healthz and /snapshot.
func NewHandler(p *Poller, reg *metrics.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", reg.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := p.Healthy(); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok\n"))
	})
	r.Get("/snapshot", func(w http.ResponseWriter, _ *http.Request) {
		s, ok := p.Latest()
		if !ok {
			http.Error(w, ErrNoSnapshot.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s); err != nil {
			p.log.Warnw("snapshot encode failed", "error", err)
		}
	})
	return r
}

// Serve runs the HTTP server until ctx is done, then shuts it down with a
// five second grace period.
func Serve(ctx context.Context, addr string, h http.Handler, log *zap.SugaredLogger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infow("serving metrics", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnw("graceful shutdown did not complete", "error", err)
		return srv.Close()
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
