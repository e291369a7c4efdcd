package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrJobNotReady  = errors.New("job not ready")
	ErrRateLimited  = errors.New("rate limited")
	ErrUnauthorized = errors.New("unauthorized")
	ErrContextDone  = errors.New("context cancelled")
)
