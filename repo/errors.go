package repo

import "errors"

// Sentinel errors surfaced by the repository core. Store-level errors
// (connection, constraint) are returned unwrapped; callers decide on retry.
var (
	ErrValidation = errors.New("validation failed")
	ErrSelfBid    = errors.New("cannot bid on your own listing")
	ErrNotFound   = errors.New("record not found")
)
