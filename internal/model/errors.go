package model

import "errors"

// Domain errors surfaced by the engine and translated by the transport
// layer. "Not found" deliberately covers "exists but not yours": a caller
// cannot distinguish a foreign booking from a missing one.
var (
	ErrNotFound         = errors.New("not found")
	ErrSlotUnavailable  = errors.New("slot unavailable")
	ErrServiceNotFound  = errors.New("service not found")
	ErrInvalidRating    = errors.New("rating must be an integer between 1 and 5")
	ErrInvalidState     = errors.New("booking is not in a valid state for this action")
	ErrDuplicateReview  = errors.New("booking already has a review")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
	ErrForbidden        = errors.New("forbidden")
	ErrEmailTaken       = errors.New("email already registered")
)
