package httpx

import (
	"errors"
	"net/http"

	"github.com/salescope/salescope/internal/shared"
)

// RespondError maps domain errors to RFC7807 problem responses. Every
// authorization failure is recovered here; none propagates as a fatal
// failure and a denied operation has already left state unchanged.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrDenied):
		Problem(w, http.StatusForbidden, "Denied", err.Error())
	case errors.Is(err, shared.ErrAdminOnly):
		Problem(w, http.StatusForbidden, "Admin Only", err.Error())
	case errors.Is(err, shared.ErrProtectedAccount):
		Problem(w, http.StatusForbidden, "Protected Account", err.Error())
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
	case errors.Is(err, shared.ErrDuplicateUsername):
		Problem(w, http.StatusConflict, "Duplicate Username", err.Error())
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, shared.ErrNotAuthenticated):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
