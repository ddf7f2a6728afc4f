package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/employee"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/session"
	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var transitionErr *attendance.TransitionError
	if errors.As(err, &transitionErr) {
		ConflictWithCode(w, transitionErr.Code, transitionErr.Reason)
		return
	}

	switch {
	// Auth and session errors
	case errors.Is(err, auth.ErrCredentialExpired):
		Unauthorized(w, "Google credential expired, please sign in again")
	case errors.Is(err, auth.ErrAuth):
		Unauthorized(w, "Google authentication failed, please sign in again")
	case errors.Is(err, auth.ErrProviderUnavailable):
		BadGateway(w, "Google is unavailable, please retry")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired session token")
	case errors.Is(err, session.ErrSessionNotFound):
		Unauthorized(w, "Not signed in")
	case errors.Is(err, session.ErrSessionExpired):
		Unauthorized(w, "Session expired")
	case errors.Is(err, session.ErrNotConfirmed):
		Forbidden(w, "Sign-in has not been confirmed")
	case errors.Is(err, session.ErrAlreadyActive):
		Conflict(w, "Sign-in already confirmed")
	case errors.Is(err, session.ErrNoEmployee):
		BadRequest(w, "Select an employee first", nil)

	// Employee errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Record store errors
	case errors.Is(err, attendance.ErrMalformedRecord):
		slog.Error("Malformed attendance record", "error", err)
		BadGateway(w, "Attendance record could not be read")
	case errors.Is(err, attendance.ErrStore):
		BadGateway(w, "Attendance store unavailable, please retry")

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

// IsSessionFatal reports whether err ends the session, so the session cookie
// should be cleared along with the error response.
func IsSessionFatal(err error) bool {
	return errors.Is(err, auth.ErrAuth) ||
		errors.Is(err, session.ErrSessionNotFound) ||
		errors.Is(err, session.ErrSessionExpired)
}
