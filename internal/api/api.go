// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/JaimeStill/mandate/internal/config"
	"github.com/JaimeStill/mandate/internal/infrastructure"
	"github.com/JaimeStill/mandate/pkg/middleware"
	"github.com/JaimeStill/mandate/pkg/module"
	"github.com/JaimeStill/mandate/pkg/openapi"
	"github.com/JaimeStill/mandate/pkg/routes"
)

// NewModule creates the API module with all domain handlers and middleware.
// The OpenAPI document describing those handlers is served at SpecPath.
// When auth is enabled the OIDC issuer is contacted during construction.
func NewModule(ctx context.Context, cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	groups := routeGroups(domain, runtime)
	mux := http.NewServeMux()
	patterns := routes.Register(mux, groups...)
	runtime.Logger.Debug("api routes registered", "count", len(patterns))

	spec, err := buildSpec(cfg, groups)
	if err != nil {
		return nil, fmt.Errorf("openapi spec: %w", err)
	}
	mux.HandleFunc("GET "+SpecPath, openapi.ServeSpec(spec))

	stack := []middleware.Middleware{
		middleware.CORS(&cfg.API.CORS),
		middleware.Logger(runtime.Logger),
	}

	if cfg.API.Auth.Enabled {
		verifier, err := middleware.NewOIDCVerifier(ctx, &cfg.API.Auth)
		if err != nil {
			return nil, fmt.Errorf("auth init failed: %w", err)
		}
		stack = append(stack, middleware.Auth(verifier, runtime.Logger))
	}

	return module.New(cfg.API.BasePath, mux, stack...)
}
