package subscription

import "errors"

// Error taxonomy for the package lifecycle and tenant aggregation core.
// None of these are retried internally; callers decide retry policy.
// ErrTransactionFailure means the whole transition rolled back and no
// partial state persists, so a retry is safe.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrTransactionFailure = errors.New("transaction failure")
)
