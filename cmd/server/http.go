package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/JaimeStill/mandate/internal/config"
	"github.com/JaimeStill/mandate/pkg/lifecycle"
)

type httpServer struct {
	srv    *http.Server
	logger *slog.Logger
	drain  time.Duration
}

func newHTTPServer(cfg *config.ServerConfig, handler http.Handler, logger *slog.Logger, drain time.Duration) *httpServer {
	logger = logger.With("system", "http")

	return &httpServer{
		srv: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: cfg.ReadHeaderTimeoutDuration(),
			ReadTimeout:       cfg.ReadTimeoutDuration(),
			WriteTimeout:      cfg.WriteTimeoutDuration(),
			IdleTimeout:       cfg.IdleTimeoutDuration(),
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		logger: logger,
		drain:  drain,
	}
}

// Start binds the listener before returning so address errors surface to
// the caller. Serving continues in the background until shutdown.
func (s *httpServer) Start(lc *lifecycle.Coordinator) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	s.logger.Info("server listening", "addr", ln.Addr().String())

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("serve failed", "error", err)
		}
	}()

	lc.OnDrain(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.drain)
		defer cancel()

		started := time.Now()
		if err := s.srv.Shutdown(ctx); err != nil {
			s.logger.Error("server shutdown incomplete", "error", err)
			return
		}
		s.logger.Info("server drained", "elapsed", time.Since(started))
	})

	return nil
}
