package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/session"
	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/database"
	goredis "github.com/redis/go-redis/v9"
)

// sessionRepository stores each session as a JSON value whose TTL matches the
// session expiry, so Redis evicts expired sessions on its own.
type sessionRepository struct {
	rdb *database.Redis
}

func NewSessionRepository(rdb *database.Redis) session.Repository {
	return &sessionRepository{rdb: rdb}
}

func (r *sessionRepository) key(id string) string {
	return r.rdb.Key("session", id)
}

func (r *sessionRepository) Save(ctx context.Context, s session.Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return r.Delete(ctx, s.ID)
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := r.rdb.Set(ctx, r.key(s.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, id string) (session.Session, error) {
	payload, err := r.rdb.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return session.Session{}, session.ErrSessionNotFound
		}
		return session.Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return session.Session{}, fmt.Errorf("failed to decode session: %w", err)
	}
	return s, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: keys expire through their TTL.
func (r *sessionRepository) DeleteExpired(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}
