package api

import (
	"github.com/JaimeStill/mandate/internal/comparisons"
	"github.com/JaimeStill/mandate/internal/documents"
	"github.com/JaimeStill/mandate/internal/projects"
	"github.com/JaimeStill/mandate/internal/rulesets"
	"github.com/JaimeStill/mandate/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Projects    projects.System
	Documents   documents.System
	Rulesets    rulesets.System
	Comparisons comparisons.System
}

// NewDomain creates all domain systems from the API runtime.
// The comparison runner is registered with the lifecycle so in-flight jobs
// drain on shutdown.
func NewDomain(runtime *Runtime) *Domain {
	projectsSystem := projects.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	docsSystem := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	rulesetsSystem := rulesets.New(
		runtime.Database.Connection(),
		&workflow.Runtime{
			Agent:  runtime.Agent,
			Agents: runtime.Agents,
			Instructions: workflow.Instructions{
				Rules:       runtime.Prompts.Rules,
				Mapping:     runtime.Prompts.Mapping,
				GapAnalysis: runtime.Prompts.GapAnalysis,
			},
			Extraction: runtime.Extraction,
			Documents:  docsSystem,
			Projects:   projectsSystem,
			Logger:     runtime.Logger,
		},
		runtime.Logger,
	)

	store := newJobStore(runtime)
	runner := comparisons.NewRunner(
		runtime.Lifecycle.Context(),
		store,
		comparisons.NewAgentComparer(runtime.Agent, runtime.Agents.Comparison).
			WithInstructions(runtime.Prompts.Comparison),
		runtime.Logger,
	)
	runner.Start(runtime.Lifecycle)

	return &Domain{
		Projects:    projectsSystem,
		Documents:   docsSystem,
		Rulesets:    rulesetsSystem,
		Comparisons: comparisons.New(store, runner, runtime.Logger),
	}
}

func newJobStore(runtime *Runtime) comparisons.Store {
	ttl := runtime.Comparisons.JobTTLDuration()
	if runtime.Cache != nil {
		return comparisons.NewRedisStore(runtime.Cache, ttl)
	}
	return comparisons.NewMemoryStore(ttl)
}
