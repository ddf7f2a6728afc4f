package attendance

import (
	"context"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/session"
)

// AttendanceService is the action boundary: every call re-reads the
// authoritative record before deciding.
type AttendanceService interface {
	// Perform validates and records one action, returning the new state and a user message.
	Perform(ctx context.Context, sess session.Session, req ActionRequest) (ActionResponse, error)

	// Today returns the current record, its state and the actions allowed next.
	Today(ctx context.Context, sess session.Session, req TodayRequest) (TodayResponse, error)
}
