package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/session"
)

type SessionJobs struct {
	sessions session.Service
	interval time.Duration
}

func NewSessionJobs(sessions session.Service, interval time.Duration) *SessionJobs {
	return &SessionJobs{
		sessions: sessions,
		interval: interval,
	}
}

func (j *SessionJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_expired_sessions", j.interval, j.PurgeExpiredSessions)
}

// PurgeExpiredSessions drops sessions whose lifetime has elapsed.
func (j *SessionJobs) PurgeExpiredSessions(ctx context.Context) error {
	removed, err := j.sessions.PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("purge expired sessions: %w", err)
	}
	if removed > 0 {
		slog.Info("Cron: Purged expired sessions", "count", removed)
	}
	return nil
}
