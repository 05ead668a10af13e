package game

import "errors"

var (
	ErrConflictingKind  = errors.New("entity flags name both ball and player")
	ErrMissingKind      = errors.New("entity flags name no kind")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrNonFinite        = errors.New("non-finite value")
	ErrInvalidConfig    = errors.New("invalid room config")
)
