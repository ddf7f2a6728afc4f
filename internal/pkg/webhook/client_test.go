package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent() notification.Event {
	return notification.Event{
		Type:         notification.TypeCheckIn,
		Label:        "Check In",
		EmployeeName: "Alice",
		Date:         "2024-03-04",
		Time:         "09:00:00",
	}
}

type captured struct {
	contentType string
	body        string
}

func newServer(t *testing.T, status int, got *captured) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		got.contentType = r.Header.Get("Content-Type")
		got.body = string(b)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSend_Text(t *testing.T) {
	var got captured
	srv := newServer(t, http.StatusOK, &got)

	err := NewClient(srv.URL, FormatText, time.Second).Send(context.Background(), testEvent())
	require.NoError(t, err)

	assert.Equal(t, "text/plain; charset=utf-8", got.contentType)
	assert.Equal(t, "Alice: Check In at 09:00:00 on 2024-03-04", got.body)
}

func TestSend_JSON(t *testing.T) {
	var got captured
	srv := newServer(t, http.StatusNoContent, &got)

	err := NewClient(srv.URL, FormatJSON, time.Second).Send(context.Background(), testEvent())
	require.NoError(t, err)

	assert.Equal(t, "application/json", got.contentType)
	assert.JSONEq(t, `{"text":"Alice: Check In at 09:00:00 on 2024-03-04"}`, got.body)
}

func TestSend_Rejected(t *testing.T) {
	var got captured
	srv := newServer(t, http.StatusInternalServerError, &got)

	err := NewClient(srv.URL, FormatText, time.Second).Send(context.Background(), testEvent())
	assert.ErrorIs(t, err, notification.ErrSinkRejected)
}

func TestSend_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewClient(url, FormatText, time.Second).Send(context.Background(), testEvent())
	assert.Error(t, err)
}
