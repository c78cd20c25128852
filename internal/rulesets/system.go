package rulesets

import (
	"context"

	"github.com/google/uuid"
)

// System defines the ruleset version interface.
type System interface {
	Handler() *Handler

	// List returns every version of a project, oldest first.
	List(ctx context.Context, projectID uuid.UUID) ([]Version, error)
	Find(ctx context.Context, projectID uuid.UUID, version int) (*Version, error)
	// FindByCustomer resolves a version number across the customer's projects.
	// When several projects have the version, the most recently created one wins.
	FindByCustomer(ctx context.Context, customerID string, version int) (*Version, error)
	Create(ctx context.Context, cmd CreateCommand) (*Version, error)
	// Generate runs the rule-mapping workflow and appends its result.
	Generate(ctx context.Context, cmd GenerateCommand) (*Version, error)
}
