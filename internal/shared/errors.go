package shared

import "errors"

var (
	// ErrNotFound indicates the targeted record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDenied indicates the subject may not mutate the targeted record.
	ErrDenied = errors.New("permission denied")
	// ErrAdminOnly indicates a non-admin attempted an admin-gated operation.
	ErrAdminOnly = errors.New("admin only")
	// ErrProtectedAccount indicates an attempted mutation of the root admin account.
	ErrProtectedAccount = errors.New("protected account")
	// ErrDuplicateUsername indicates a username collision on user creation.
	ErrDuplicateUsername = errors.New("duplicate username")
	// ErrValidation indicates a request that failed input validation.
	ErrValidation = errors.New("invalid input")
	// ErrNotAuthenticated indicates no subject is present in the session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
