package httphandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const (
	DefaultRequestTimeout = 5 * time.Second

	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 30 * time.Second
	timeoutMessage    = "unavailable"
)

type ServerConfig struct {
	Addr string
	// RequestTimeout bounds a whole request, handler included.
	// Non-positive means DefaultRequestTimeout.
	RequestTimeout time.Duration
}

// An HTTPServer serves the storefront API until Close.
type HTTPServer struct {
	httpServer *http.Server
}

func NewHTTPServer(cfg ServerConfig, handler http.Handler) HTTPServer {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           http.TimeoutHandler(handler, cfg.RequestTimeout, timeoutMessage),
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
	return HTTPServer{s}
}

// Run blocks until the server stops and then calls stopFn, so a listener
// failure shuts the application down.
func (s HTTPServer) Run(stopFn context.CancelFunc) {
	const op = "HTTPServer.Run"
	log := slog.With("op", op, "addr", s.httpServer.Addr)

	defer stopFn()
	log.Info("listening")
	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("listener failed", "err", err)
	}
}

// Close waits for in-flight requests until ctx is done.
func (s HTTPServer) Close(ctx context.Context) {
	const op = "HTTPServer.Close"
	log := slog.With("op", op)

	log.Info("closing http server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown gracefully", "err", err)
		return
	}
	log.Info("http server is closed")
}
