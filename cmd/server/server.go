package main

import (
	"fmt"

	"github.com/JaimeStill/mandate/internal/config"
	"github.com/JaimeStill/mandate/internal/infrastructure"
)

// Server wires infrastructure, the API module, and the HTTP listener.
type Server struct {
	cfg   *config.Config
	infra *infrastructure.Infrastructure
	http  *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("infrastructure: %w", err)
	}

	modules, err := NewModules(infra.Lifecycle.Context(), infra, cfg)
	if err != nil {
		return nil, fmt.Errorf("modules: %w", err)
	}

	router := buildRouter(infra)
	modules.Mount(router)

	return &Server{
		cfg:   cfg,
		infra: infra,
		http:  newHTTPServer(&cfg.Server, router, infra.Logger, cfg.ShutdownTimeoutDuration()),
	}, nil
}

func (s *Server) Start() error {
	s.infra.Logger.Info("starting service",
		"version", s.cfg.Version,
		"env", s.cfg.Env(),
		"comparison_store", s.cfg.Comparisons.Store,
	)

	if err := s.infra.Start(); err != nil {
		return err
	}
	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("startup complete", "ready", s.infra.Lifecycle.Ready())
	}()

	return nil
}

func (s *Server) Shutdown() error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(s.cfg.ShutdownTimeoutDuration())
}
