package domain

import "errors"

// Sentinel errors shared by services and adapters. Wrap them with
// fmt.Errorf("...: %w", ErrX) and test with errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrConflict      = errors.New("conflict")
	ErrUnavailable   = errors.New("service unavailable")
	ErrUpstream      = errors.New("upstream error")
	ErrUpstreamTimed = errors.New("upstream timeout")
)
