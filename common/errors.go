package common

import (
	"errors"
)

// Common error constants
var (
	// ErrInvalidConfig is returned when an invalid configuration is provided
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSourceDisabled is returned when a sync is requested for a disabled source
	ErrSourceDisabled = errors.New("source is disabled")

	// ErrSyncInProgress is returned when a sync is already running for a source
	ErrSyncInProgress = errors.New("sync already in progress for source")

	// ErrNotImplemented is returned when a method is not implemented
	ErrNotImplemented = errors.New("method not implemented")
)
