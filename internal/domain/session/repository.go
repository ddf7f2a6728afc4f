package session

import (
	"context"
	"time"
)

// Repository persists sessions for their lifetime.
type Repository interface {
	// Save creates or replaces the session.
	Save(ctx context.Context, s Session) error

	// Get returns ErrSessionNotFound when the session is unknown or already purged.
	Get(ctx context.Context, id string) (Session, error)

	Delete(ctx context.Context, id string) error

	// DeleteExpired removes sessions whose expiry is before now and reports how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
