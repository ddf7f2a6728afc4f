package session

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/auth"
)

// State is the session-level authentication state. Unauthenticated is the
// absence of a session.
type State string

const (
	// StateAuthenticated follows a successful code exchange and waits for the
	// user to acknowledge the sign-in.
	StateAuthenticated State = "authenticated"
	StateActive        State = "active"
)

// Session is the explicit per-user context handed to every handler.
type Session struct {
	ID            string          `json:"id"`
	State         State           `json:"state"`
	Credential    auth.Credential `json:"credential"`
	EmployeeName  string          `json:"employee_name,omitempty"`
	StatusMessage string          `json:"status_message,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	ExpiresAt     time.Time       `json:"expires_at"`
}

// IsExpired reports whether the session lifetime has elapsed.
func (s Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IsActive reports whether the sign-in has been confirmed.
func (s Session) IsActive() bool {
	return s.State == StateActive
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored by the session middleware.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}
