package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/session"
	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) session.Repository {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	rdb, err := database.NewRedisClient(addr, "", 0, "timesheet-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSessionRepository(rdb)
}

func TestSessionRepository_RoundTrip(t *testing.T) {
	repo := setupRedis(t)
	ctx := context.Background()

	s := session.Session{
		ID:    uuid.NewString(),
		State: session.StateActive,
		Credential: auth.Credential{
			AccessToken:  "access",
			RefreshToken: "refresh",
			Scopes:       []string{"spreadsheets"},
		},
		EmployeeName: "Alice",
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
		ExpiresAt:    time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.EmployeeName, got.EmployeeName)
	assert.Equal(t, s.Credential.RefreshToken, got.Credential.RefreshToken)
	assert.True(t, s.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, repo.Delete(ctx, s.ID))
	_, err = repo.Get(ctx, s.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestSessionRepository_SaveExpiredDeletes(t *testing.T) {
	repo := setupRedis(t)
	ctx := context.Background()

	id := uuid.NewString()
	require.NoError(t, repo.Save(ctx, session.Session{ID: id, ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, repo.Save(ctx, session.Session{ID: id, ExpiresAt: time.Now().Add(-time.Second)}))

	_, err := repo.Get(ctx, id)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}
