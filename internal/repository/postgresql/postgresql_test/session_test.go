package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/session"
	"github.com/cmlabs-hris/timesheet-portal/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessions(t *testing.T) postgresql.SessionRepository {
	t.Helper()
	setup, err := NewTestDatabase(t)
	require.NoError(t, err)
	t.Cleanup(setup.Close)

	repo := postgresql.NewSessionRepository(setup.DB)
	ctx := context.Background()
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, setup.Truncate(ctx, "sessions"))
	return repo
}

func TestSessionRepository_SaveGetDelete(t *testing.T) {
	repo := setupSessions(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	s := session.Session{
		ID:    "session-1",
		State: session.StateAuthenticated,
		Credential: auth.Credential{
			AccessToken:  "access",
			RefreshToken: "refresh",
			Scopes:       []string{"https://www.googleapis.com/auth/spreadsheets"},
			Expiry:       now.Add(time.Hour),
		},
		CreatedAt: now,
		ExpiresAt: now.Add(12 * time.Hour),
	}
	require.NoError(t, repo.Save(ctx, s))

	s.State = session.StateActive
	s.EmployeeName = "Alice"
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, session.StateActive, got.State)
	assert.Equal(t, "Alice", got.EmployeeName)
	assert.Equal(t, "refresh", got.Credential.RefreshToken)
	assert.Equal(t, s.Credential.Scopes, got.Credential.Scopes)
	assert.True(t, s.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, repo.Delete(ctx, "session-1"))
	_, err = repo.Get(ctx, "session-1")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	repo := setupSessions(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Save(ctx, session.Session{ID: "old", State: session.StateActive, CreatedAt: now, ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, repo.Save(ctx, session.Session{ID: "live", State: session.StateActive, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))

	removed, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = repo.Get(ctx, "live")
	assert.NoError(t, err)
}
