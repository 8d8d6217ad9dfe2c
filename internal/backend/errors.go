package backend

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password should be at least 6 characters")
	ErrNotSignedIn        = errors.New("not signed in")
)
