package api

import (
	"github.com/JaimeStill/mandate/internal/comparisons"
	"github.com/JaimeStill/mandate/internal/config"
	"github.com/JaimeStill/mandate/internal/documents"
	"github.com/JaimeStill/mandate/internal/projects"
	"github.com/JaimeStill/mandate/internal/rulesets"
	"github.com/JaimeStill/mandate/pkg/openapi"
	"github.com/JaimeStill/mandate/pkg/routes"
)

// SpecPath is where the API module serves its OpenAPI document, relative to the base path.
const SpecPath = "/openapi.json"

func buildSpec(cfg *config.Config, groups []routes.Group) ([]byte, error) {
	spec := openapi.NewSpec(&cfg.API.OpenAPI, cfg.Version)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(projects.Spec.Schemas())
	spec.Components.AddSchemas(documents.Spec.Schemas())
	spec.Components.AddSchemas(rulesets.Spec.Schemas())
	spec.Components.AddSchemas(comparisons.Spec.Schemas())

	if err := routes.Describe(spec, groups...); err != nil {
		return nil, err
	}
	return openapi.MarshalJSON(spec)
}
