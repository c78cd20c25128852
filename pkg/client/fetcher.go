package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
)

var errStillRunning = errors.New("job still running")

// FetcherConfig bounds the polling loop of a Fetcher.
type FetcherConfig struct {
	MaxAttempts  uint
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultFetcherConfig polls up to 60 times with delays growing from 500ms to 5s.
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		MaxAttempts:  60,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
	}
}

// Fetcher submits comparison jobs and polls them to a terminal state.
type Fetcher struct {
	client *Client
	cfg    FetcherConfig
	logger *slog.Logger
}

// NewFetcher creates a Fetcher. Zero fields in cfg take their defaults.
func NewFetcher(client *Client, cfg FetcherConfig, logger *slog.Logger) *Fetcher {
	def := DefaultFetcherConfig()
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = def.InitialDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = def.MaxDelay
	}
	return &Fetcher{
		client: client,
		cfg:    cfg,
		logger: logger.With("system", "fetcher"),
	}
}

// Fetch validates req, submits it and polls until the job completes.
// Versions are submitted in the order given.
//
// A failed job returns a *JobFailedError. A job still running after MaxAttempts
// polls returns ErrTimeout.
func (f *Fetcher) Fetch(ctx context.Context, req SubmitRequest) (*ComparisonResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sub, err := f.client.SubmitComparison(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit comparison: %w", err)
	}

	f.logger.InfoContext(ctx, "comparison submitted", "job_id", sub.JobID, "versions", len(req.Versions))

	return f.Wait(ctx, sub.JobID)
}

// Wait polls an existing job until it reaches a terminal state.
func (f *Fetcher) Wait(ctx context.Context, jobID string) (*ComparisonResult, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = f.cfg.InitialDelay
	policy.MaxInterval = f.cfg.MaxDelay

	poll := func() (*ComparisonResult, error) {
		job, err := f.client.FindComparison(ctx, jobID)
		if err != nil {
			err = fmt.Errorf("poll job %s: %w", jobID, err)
			if !retryable(ctx, err) {
				return nil, backoff.Permanent(err)
			}
			f.logger.WarnContext(ctx, "comparison poll failed, retrying", "job_id", jobID, "error", err)
			return nil, err
		}

		switch {
		case job.Status.Running():
			return nil, errStillRunning
		case job.Status == StatusCompleted:
			if job.Result == nil {
				return &ComparisonResult{}, nil
			}
			return job.Result, nil
		case job.Status == StatusFailed:
			return nil, backoff.Permanent(&JobFailedError{JobID: jobID, Message: job.Error})
		default:
			return nil, backoff.Permanent(fmt.Errorf("job %s: unknown status %q", jobID, job.Status))
		}
	}

	result, err := backoff.Retry(ctx, poll,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(f.cfg.MaxAttempts),
	)
	if errors.Is(err, errStillRunning) {
		f.logger.WarnContext(ctx, "comparison polling gave up", "job_id", jobID, "attempts", f.cfg.MaxAttempts)
		return nil, fmt.Errorf("%w: job %s after %d attempts", ErrTimeout, jobID, f.cfg.MaxAttempts)
	}
	if err != nil {
		return nil, err
	}

	f.logger.InfoContext(ctx, "comparison completed", "job_id", jobID, "comparisons", len(result.Comparisons))
	return result, nil
}

// retryable reports whether a failed poll may succeed on a later attempt.
// Client errors are final; transport errors and 5xx responses are not.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	return true
}
