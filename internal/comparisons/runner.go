package comparisons

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/JaimeStill/mandate/pkg/lifecycle"
)

const finalizeTimeout = 10 * time.Second

// ErrRunnerClosed is recorded on jobs submitted after draining began.
var ErrRunnerClosed = errors.New("comparison runner is shutting down")

// Runner executes each job in its own goroutine under a long-lived context,
// so jobs outlive the request that submitted them.
type Runner struct {
	ctx      context.Context
	store    Store
	comparer Comparer
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewRunner creates a Runner whose jobs run under ctx.
func NewRunner(ctx context.Context, store Store, comparer Comparer, logger *slog.Logger) *Runner {
	return &Runner{
		ctx:      ctx,
		store:    store,
		comparer: comparer,
		logger:   logger.With("system", "comparison-runner"),
		now:      time.Now,
	}
}

// Start drains in-flight jobs when the coordinator shuts down. The job store
// stays open until the drain returns, so interrupted jobs record their
// terminal state.
func (r *Runner) Start(lc *lifecycle.Coordinator) {
	lc.OnDrain(func() {
		r.logger.Info("draining comparison jobs")
		r.Close()
		r.logger.Info("comparison jobs drained")
	})
}

// Run launches job in the background and returns immediately. After Close,
// the job is recorded as failed instead.
func (r *Runner) Run(job Job, req SubmitRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		logger := r.logger.With("job_id", job.JobID, "project_id", job.ProjectID)
		r.finish(logger, job, nil, ErrRunnerClosed)
		return
	}

	r.wg.Go(func() {
		r.execute(job, req)
	})
}

// Wait blocks until every launched job has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Close stops accepting jobs and waits for the running ones.
func (r *Runner) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Runner) execute(job Job, req SubmitRequest) {
	logger := r.logger.With("job_id", job.JobID, "project_id", job.ProjectID)
	start := r.now()

	defer func() {
		if p := recover(); p != nil {
			logger.Error("comparison job panicked", "panic", p)
			r.finish(logger, job, nil, fmt.Errorf("panic: %v", p))
		}
	}()

	job.Status = StatusProcessing
	job.UpdatedAt = r.now()
	if err := r.store.Update(r.ctx, &job); err != nil {
		r.finish(logger, job, nil, fmt.Errorf("mark job processing: %w", err))
		return
	}

	comparisons, err := r.comparer.Compare(r.ctx, req.Versions)
	if err != nil {
		r.finish(logger, job, nil, err)
		return
	}

	r.finish(logger, job, &Result{Versions: req.Infos(), Comparisons: comparisons}, nil)
	logger.Info("comparison job completed", "comparisons", len(comparisons), "duration", r.now().Sub(start))
}

// finish records the terminal state. It writes under a detached context so a
// job interrupted by shutdown is still recorded as failed.
func (r *Runner) finish(logger *slog.Logger, job Job, result *Result, err error) {
	if err != nil {
		job.Status = StatusFailed
		job.Error = err.Error()
		job.Result = nil
		logger.Warn("comparison job failed", "error", err)
	} else {
		job.Status = StatusCompleted
		job.Result = result
		job.Error = ""
	}
	job.UpdatedAt = r.now()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.ctx), finalizeTimeout)
	defer cancel()

	if err := r.store.Update(ctx, &job); err != nil {
		logger.Error("record job result failed", "status", job.Status, "error", err)
	}
}
