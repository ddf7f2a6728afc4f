package email

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-portal/internal/config"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestSink(t *testing.T, failures int) (*Sink, *[]sentMail) {
	t.Helper()
	sink, err := NewSink(config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     2525,
		From:     "portal@example.com",
		FromName: "Timesheet Portal",
		To:       []string{"hr@example.com"},
	})
	require.NoError(t, err)

	var sent []sentMail
	calls := 0
	sink.backoff = time.Millisecond
	sink.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		calls++
		if calls <= failures {
			return errors.New("connection refused")
		}
		sent = append(sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}
	return sink, &sent
}

func checkOut() notification.Event {
	hours := 7.5
	return notification.Event{
		Type:         notification.TypeCheckOut,
		Label:        "Check Out",
		EmployeeName: "Alice",
		Date:         "2024-03-04",
		Time:         "17:00:00",
		State:        "checked_out",
		HoursWorked:  &hours,
	}
}

func TestSend_RendersEvent(t *testing.T) {
	sink, sent := newTestSink(t, 0)

	require.NoError(t, sink.Send(context.Background(), checkOut()))
	require.Len(t, *sent, 1)

	mail := (*sent)[0]
	assert.Equal(t, "smtp.example.com:2525", mail.addr)
	assert.Equal(t, "portal@example.com", mail.from)
	assert.Equal(t, []string{"hr@example.com"}, mail.to)
	assert.Contains(t, mail.msg, "Subject: Alice: Check Out\r\n")
	assert.Contains(t, mail.msg, "at 17:00:00 on 2024-03-04")
	assert.Contains(t, mail.msg, "Hours worked: 7.50")
}

func TestSend_RetriesThenSucceeds(t *testing.T) {
	sink, sent := newTestSink(t, 2)

	require.NoError(t, sink.Send(context.Background(), checkOut()))
	assert.Len(t, *sent, 1)
}

func TestSend_GivesUp(t *testing.T) {
	sink, sent := newTestSink(t, maxRetries)

	err := sink.Send(context.Background(), checkOut())
	assert.ErrorIs(t, err, notification.ErrSinkRejected)
	assert.Empty(t, *sent)
}

func TestSend_NotConfigured(t *testing.T) {
	sink, err := NewSink(config.SMTPConfig{})
	require.NoError(t, err)
	sink.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called")
		return nil
	}

	assert.NoError(t, sink.Send(context.Background(), checkOut()))
}
