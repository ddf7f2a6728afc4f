package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/session"
	"github.com/cmlabs-hris/timesheet-portal/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Today(w http.ResponseWriter, r *http.Request)
	Perform(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	jwtService        jwt.Service
	now               func() time.Time
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, jwtService jwt.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		jwtService:        jwtService,
		now:               time.Now,
	}
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		response.HandleError(w, session.ErrSessionNotFound)
		return
	}

	name, err := employeeName(s, r.URL.Query().Get("employee_name"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.attendanceService.Today(r.Context(), s, attendance.TodayRequest{
		EmployeeName: name,
		At:           h.now(),
	})
	if err != nil {
		slog.Error("Today service error", "session_id", s.ID, "error", err)
		handleSessionError(w, h.jwtService, err)
		return
	}

	response.Success(w, resp)
}

// Perform records the action named in the URL, e.g. POST /attendance/check-in.
func (h *attendanceHandlerImpl) Perform(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		response.HandleError(w, session.ErrSessionNotFound)
		return
	}

	action, err := attendance.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		response.NotFound(w, "Unknown attendance action")
		return
	}

	var req attendance.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Attendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req.EmployeeName, err = employeeName(s, req.EmployeeName)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.Action = action
	req.At = h.now()

	resp, err := h.attendanceService.Perform(r.Context(), s, req)
	if err != nil {
		handleSessionError(w, h.jwtService, err)
		return
	}

	response.SuccessWithMessage(w, resp.Message, resp)
}

// employeeName prefers an explicit name and falls back to the session's selection.
func employeeName(s session.Session, explicit string) (string, error) {
	if name := strings.TrimSpace(explicit); name != "" {
		return name, nil
	}
	if s.EmployeeName != "" {
		return s.EmployeeName, nil
	}
	return "", session.ErrNoEmployee
}
