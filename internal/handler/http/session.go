package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/employee"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/session"
	"github.com/cmlabs-hris/timesheet-portal/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/jwt"
)

type SessionHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	SelectEmployee(w http.ResponseWriter, r *http.Request)
}

type sessionHandlerImpl struct {
	sessionService session.Service
	jwtService     jwt.Service
}

func NewSessionHandler(sessionService session.Service, jwtService jwt.Service) SessionHandler {
	return &sessionHandlerImpl{
		sessionService: sessionService,
		jwtService:     jwtService,
	}
}

// Get returns the session and consumes its status message.
func (h *sessionHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		response.HandleError(w, session.ErrSessionNotFound)
		return
	}

	message, err := h.sessionService.TakeStatus(r.Context(), s.ID)
	if err != nil {
		handleSessionError(w, h.jwtService, err)
		return
	}
	s.StatusMessage = message

	response.Success(w, session.NewSessionResponse(s))
}

// SelectEmployee implements SessionHandler.
func (h *sessionHandlerImpl) SelectEmployee(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		response.HandleError(w, session.ErrSessionNotFound)
		return
	}

	var req employee.SelectEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SelectEmployee decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.sessionService.SelectEmployee(r.Context(), s.ID, req.EmployeeName)
	if err != nil {
		handleSessionError(w, h.jwtService, err)
		return
	}

	response.SuccessWithMessage(w, "Employee selected", session.NewSessionResponse(updated))
}

// handleSessionError writes the error response and clears the session cookie
// when the error ended the session.
func handleSessionError(w http.ResponseWriter, jwtService jwt.Service, err error) {
	if response.IsSessionFatal(err) {
		http.SetCookie(w, jwtService.ClearSessionCookie())
	}
	response.HandleError(w, err)
}
