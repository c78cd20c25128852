package agent

import "errors"

var (
	// ErrRequestFailed indicates the agent service answered with a non-success status.
	ErrRequestFailed = errors.New("agent request failed")
	// ErrEmptyResponse indicates the agent service returned no usable result.
	ErrEmptyResponse = errors.New("agent returned empty response")
)
