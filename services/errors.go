package services

import "errors"

// Sentinel errors for the controller layer to map onto HTTP statuses.
// Wrap with fmt.Errorf("%w: detail", …) so errors.Is keeps working while the
// detail stays available for server-side logs.
var (
	ErrValidation       = errors.New("missing or invalid input")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrSelfFollow       = errors.New("Cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
	ErrUpstream         = errors.New("upstream service unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
)
