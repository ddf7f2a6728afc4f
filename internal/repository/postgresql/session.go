package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/session"
	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const createSessionTable = `
	CREATE TABLE IF NOT EXISTS sessions (
		id             TEXT PRIMARY KEY,
		state          TEXT NOT NULL,
		credential     JSONB NOT NULL,
		employee_name  TEXT NOT NULL DEFAULT '',
		status_message TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL,
		expires_at     TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expires_at_idx ON sessions (expires_at)
`

// SessionRepository is a session.Repository backed by PostgreSQL.
type SessionRepository interface {
	session.Repository
	EnsureSchema(ctx context.Context) error
}

type sessionRepositoryImpl struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) SessionRepository {
	return &sessionRepositoryImpl{db: db}
}

// EnsureSchema creates the sessions table when it does not exist.
func (r *sessionRepositoryImpl) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createSessionTable); err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}
	return nil
}

func (r *sessionRepositoryImpl) Save(ctx context.Context, s session.Session) error {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO sessions (id, state, credential, employee_name, status_message, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			state = EXCLUDED.state,
			credential = EXCLUDED.credential,
			employee_name = EXCLUDED.employee_name,
			status_message = EXCLUDED.status_message,
			expires_at = EXCLUDED.expires_at
	`
	_, err := q.Exec(ctx, query,
		s.ID,
		string(s.State),
		s.Credential,
		s.EmployeeName,
		s.StatusMessage,
		s.CreatedAt.UTC(),
		s.ExpiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *sessionRepositoryImpl) Get(ctx context.Context, id string) (session.Session, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, state, credential, employee_name, status_message, created_at, expires_at
		FROM sessions
		WHERE id = $1
	`

	var s session.Session
	var state string
	var cred auth.Credential
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&state,
		&cred,
		&s.EmployeeName,
		&s.StatusMessage,
		&s.CreatedAt,
		&s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, session.ErrSessionNotFound
		}
		return session.Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	s.State = session.State(state)
	s.Credential = cred
	return s, nil
}

func (r *sessionRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	if _, err := q.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *sessionRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
