package auth

import "errors"

var (
	// ErrTokenExpired reports a structurally valid token whose expiry passed.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrTokenInvalid reports any signature or structure failure.
	ErrTokenInvalid = errors.New("auth: invalid token")
	// ErrUnauthenticated is the single terminal failure of session
	// resolution, whatever step failed.
	ErrUnauthenticated = errors.New("auth: unauthenticated")

	// ErrAccountNotFound reports login or refresh against a missing account.
	ErrAccountNotFound = errors.New("auth: account not found")
	// ErrInvalidCredentials reports a password mismatch.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// Registration conflicts, in check order.
	ErrOrganizationExists = errors.New("auth: organization already exists")
	ErrUsernameExists     = errors.New("auth: username already exists")
	ErrEmailExists        = errors.New("auth: email already exists")
)
