package comparisons

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/mandate/pkg/reconcile"
)

type service struct {
	store  Store
	runner *Runner
	logger *slog.Logger
	now    func() time.Time
}

// New creates a comparison system that records jobs in store and executes
// them on runner.
func New(store Store, runner *Runner, logger *slog.Logger) System {
	return &service{
		store:  store,
		runner: runner,
		logger: logger.With("system", "comparisons"),
		now:    time.Now,
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (*Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	job := Job{
		JobID:      uuid.New(),
		ProjectID:  req.ProjectID,
		CustomerID: req.CustomerID,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.Create(ctx, &job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.runner.Run(job, req)

	s.logger.Info(
		"comparison job submitted",
		"job_id", job.JobID,
		"project_id", job.ProjectID,
		"versions", len(req.Versions),
	)
	return &job, nil
}

func (s *service) Find(ctx context.Context, id uuid.UUID) (*Job, error) {
	return s.store.Find(ctx, id)
}

func (s *service) Table(ctx context.Context, id uuid.UUID, q reconcile.Query) (*reconcile.View, error) {
	job, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != StatusCompleted || job.Result == nil {
		return nil, fmt.Errorf("%w: status %s", ErrNotCompleted, job.Status)
	}

	view := job.Result.Table().View(q)
	return &view, nil
}
