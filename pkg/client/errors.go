package client

import (
	"errors"
	"fmt"
)

var (
	ErrVersionsRequired = errors.New("at least two versions required")
	ErrInvalidRequest   = errors.New("invalid comparison request")
	ErrJobFailed        = errors.New("comparison job failed")
	ErrTimeout          = errors.New("comparison job timed out")
	ErrNotFound         = errors.New("not found")
)

// JobFailedError carries the error text recorded on a failed job.
type JobFailedError struct {
	JobID   string
	Message string
}

func (e *JobFailedError) Error() string {
	return fmt.Sprintf("job %s failed: %s", e.JobID, e.Message)
}

func (e *JobFailedError) Is(target error) bool {
	return target == ErrJobFailed
}

// APIError is a non-success response from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Validate checks the request locally so malformed submissions never reach the network.
func (r *SubmitRequest) Validate() error {
	if r.ProjectID == "" {
		return fmt.Errorf("%w: projectId required", ErrInvalidRequest)
	}
	if r.CustomerID == "" {
		return fmt.Errorf("%w: customerId required", ErrInvalidRequest)
	}
	if len(r.Versions) < 2 {
		return fmt.Errorf("%w: got %d", ErrVersionsRequired, len(r.Versions))
	}
	for i, v := range r.Versions {
		if v.VersionName == "" {
			return fmt.Errorf("%w: versions[%d] missing versionName", ErrInvalidRequest, i)
		}
		if len(v.RawRules) == 0 {
			return fmt.Errorf("%w: versions[%d] missing raw_rules", ErrInvalidRequest, i)
		}
	}
	return nil
}
