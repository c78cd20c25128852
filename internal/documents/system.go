package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/mandate/pkg/pagination"
	"github.com/JaimeStill/mandate/pkg/storage"
)

// System defines the document management interface.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error)
	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	// Open returns the document and a reader over its stored contents.
	// The caller closes the blob body.
	Open(ctx context.Context, id uuid.UUID) (*Document, *storage.Blob, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
