package memory

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimesheetStore_AppendAndUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewTimesheetStore()

	require.NoError(t, s.AppendRow(ctx, []string{"Alice", "2024-03-04", "09:00:00", "", "", "", "", "10"}))
	require.NoError(t, s.AppendRow(ctx, []string{"Bob", "2024-03-04", "08:30:00"}))
	require.NoError(t, s.UpdateCell(ctx, 2, int(attendance.ColumnCheckOut), "17:00:00"))

	rows, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "17:00:00", rows[0]["Check Out"])
	assert.Equal(t, "Bob", rows[1]["Name"])
	assert.Equal(t, "", rows[1]["Week"])

	assert.Error(t, s.UpdateCell(ctx, 1, 1, "header"))
	assert.Error(t, s.UpdateCell(ctx, 4, 1, "missing"))
	assert.Error(t, s.UpdateCell(ctx, 2, 9, "bad column"))
}

func TestTimesheetStore_FetchAllIsSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewTimesheetStore()
	require.NoError(t, s.AppendRow(ctx, []string{"Alice", "2024-03-04", "09:00:00"}))

	rows, err := s.FetchAll(ctx)
	require.NoError(t, err)
	rows[0]["Name"] = "Mallory"

	again, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice", again[0]["Name"])
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()
	now := time.Now()

	require.NoError(t, s.Save(ctx, session.Session{ID: "live", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, s.Save(ctx, session.Session{ID: "stale", ExpiresAt: now.Add(-time.Minute)}))

	got, err := s.Get(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "live", got.ID)

	removed, err := s.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = s.Get(ctx, "stale")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	require.NoError(t, s.Delete(ctx, "live"))
	_, err = s.Get(ctx, "live")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}
