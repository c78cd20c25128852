package projects

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/JaimeStill/mandate/pkg/pagination"
)

// System defines the project management interface.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Project], error)
	Find(ctx context.Context, id uuid.UUID) (*Project, error)
	Create(ctx context.Context, cmd CreateCommand) (*Project, error)
	UpdateCatalog(ctx context.Context, id uuid.UUID, catalog json.RawMessage) (*Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
