package comparisons

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/mandate/pkg/reconcile"
)

// System defines the comparison job interface.
type System interface {
	Handler() *Handler

	// Submit validates req, records a pending job, and starts it in the background.
	// Invalid requests return an error and create no record.
	Submit(ctx context.Context, req SubmitRequest) (*Job, error)
	Find(ctx context.Context, id uuid.UUID) (*Job, error)
	// Table reconciles a completed job and applies q. Jobs that have not
	// completed return ErrNotCompleted.
	Table(ctx context.Context, id uuid.UUID, q reconcile.Query) (*reconcile.View, error)
}
