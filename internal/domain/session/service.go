package session

import (
	"context"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/auth"
)

// Service drives the session lifecycle:
// Unauthenticated -> Authenticated (code exchanged) -> Active (confirmed).
type Service interface {
	GenerateState() string
	AuthorizationURL(state string) string

	// SignIn exchanges the authorization code and opens an Authenticated session.
	// A failed exchange leaves no session behind.
	SignIn(ctx context.Context, code string) (Session, error)

	// Confirm moves an Authenticated session to Active.
	Confirm(ctx context.Context, id string) (Session, error)

	// SignOut destroys the session and its credential.
	SignOut(ctx context.Context, id string) error

	// Get loads a live session.
	Get(ctx context.Context, id string) (Session, error)

	SelectEmployee(ctx context.Context, id string, employeeName string) (Session, error)

	// SetStatus stores the transient status message shown on the next read.
	SetStatus(ctx context.Context, id string, message string) error

	// TakeStatus returns and clears the transient status message.
	TakeStatus(ctx context.Context, id string) (string, error)

	// ActiveCredential refreshes the session credential when needed and returns
	// a usable one. Any auth failure destroys the session.
	ActiveCredential(ctx context.Context, id string) (auth.Credential, error)

	// PurgeExpired drops sessions past their lifetime.
	PurgeExpired(ctx context.Context) (int, error)
}
