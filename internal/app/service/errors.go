package service

import "errors"

// Service-level failure kinds. Handlers match these with errors.Is and map
// them to fixed HTTP statuses; anything else is a generic fault.
var (
	// ErrValidation signals bad or missing input. Wrapped with detail.
	ErrValidation = errors.New("invalid input")

	// ErrEmailTaken signals a registration against an existing email.
	ErrEmailTaken = errors.New("user already exists")

	// ErrInvalidCredentials signals a failed email/password login.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken signals a missing, malformed, expired, or stale
	// token.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrShortURLTaken signals a short-code uniqueness violation.
	ErrShortURLTaken = errors.New("short url already exists")

	// ErrNotOwner signals an authenticated caller acting on a resource
	// owned by someone else.
	ErrNotOwner = errors.New("not authorized to access this resource")
)
