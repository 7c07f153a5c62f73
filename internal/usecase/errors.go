package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrVersionConflict       = errors.New("row version conflict")
	ErrMissingReason         = errors.New("rejection reason is required")
	ErrCacheNotReady         = errors.New("ranking cache has not been warmed up")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
