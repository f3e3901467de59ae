package model

import "errors"

// Sentinel kinds shared by the lifecycles, the service and the HTTP layer.
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrAlreadyReviewed = errors.New("application already reviewed")
	ErrInvalidDecision = errors.New("invalid review decision")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrDuplicate       = errors.New("duplicate submission")
	ErrTooLarge        = errors.New("file too large")
)
