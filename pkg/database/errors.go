package database

import "errors"

var (
	// ErrNotReady is logged when the startup ping never succeeds.
	ErrNotReady = errors.New("database not ready")
	// ErrUnavailable wraps readiness failures reported by Ping.
	ErrUnavailable = errors.New("database unavailable")
)
