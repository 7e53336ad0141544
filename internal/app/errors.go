package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrRebuildBusy   = errors.New("rebuild already pending")
	ErrLimitExceeded = errors.New("recommendation limit exceeded")
)
