// Package common contains shared constants, sentinel errors and small
// helpers used across handtext components. Callers should use errors.Is
// to match the sentinel values.
package common

import "errors"

var (
	// Local validation failures. Raised before any network or provider
	// call is made.
	ErrValidation = errors.New("validation error")

	// Session/identity mismatch: the caller is not authenticated, or the
	// requested user id does not match the active session.
	ErrUnauthorized = errors.New("unauthorized")

	// Document-store errors.
	ErrNotFound = errors.New("not found")

	// Identity errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")

	// The identity was created but the profile document was not. The
	// account exists without a profile; nothing is rolled back.
	ErrPartialRegistration = errors.New("identity created without profile")

	// Recognition pipeline errors.
	ErrCapture            = errors.New("image capture failed")
	ErrNoImage            = errors.New("no image acquired")
	ErrRecognitionService = errors.New("recognition service error")

	// Transport failure (endpoint unreachable, connection dropped).
	ErrNetwork = errors.New("network error")
)
