package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrNotSignedIn    = errors.New("not signed in")

	// Validation errors. Callers treat these as silent no-ops.
	ErrEmptyDisplayName = errors.New("display name is empty")
	ErrNothingToSend    = errors.New("nothing to send")
	ErrSendRejected     = errors.New("send rejected")
	ErrNoPeerSelected   = errors.New("no peer selected")

	// Gate errors.
	ErrInvalidPassword = errors.New("invalid password")
)
