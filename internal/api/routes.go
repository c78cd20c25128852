package api

import "github.com/JaimeStill/mandate/pkg/routes"

func routeGroups(domain *Domain, runtime *Runtime) []routes.Group {
	return []routes.Group{
		domain.Projects.Handler().Routes(),
		domain.Documents.Handler(runtime.MaxUploadSize).Routes(),
		domain.Rulesets.Handler().Routes(),
		domain.Comparisons.Handler().Routes(),
	}
}
