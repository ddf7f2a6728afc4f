package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/employee"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/session"
	"github.com/google/uuid"
)

type AuthServiceImpl struct {
	auth.Provider
	sessions  session.Repository
	employees employee.EmployeeService
	ttl       time.Duration
	now       func() time.Time
}

func NewAuthService(provider auth.Provider, sessions session.Repository, employees employee.EmployeeService, ttl time.Duration) session.Service {
	return &AuthServiceImpl{
		Provider:  provider,
		sessions:  sessions,
		employees: employees,
		ttl:       ttl,
		now:       time.Now,
	}
}

// SignIn implements session.Service.
func (a *AuthServiceImpl) SignIn(ctx context.Context, code string) (session.Session, error) {
	cred, err := a.Provider.Exchange(ctx, code)
	if err != nil {
		return session.Session{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to generate session id: %w", err)
	}

	now := a.now()
	s := session.Session{
		ID:         id.String(),
		State:      session.StateAuthenticated,
		Credential: cred,
		CreatedAt:  now,
		ExpiresAt:  now.Add(a.ttl),
	}
	if err := a.sessions.Save(ctx, s); err != nil {
		return session.Session{}, fmt.Errorf("failed to save session: %w", err)
	}

	slog.Info("Session authenticated", "session_id", s.ID)
	return s, nil
}

// Confirm implements session.Service.
func (a *AuthServiceImpl) Confirm(ctx context.Context, id string) (session.Session, error) {
	s, err := a.Get(ctx, id)
	if err != nil {
		return session.Session{}, err
	}
	if s.IsActive() {
		return session.Session{}, session.ErrAlreadyActive
	}

	s.State = session.StateActive
	s.StatusMessage = "Google Sign-In successful! You can now access the app."
	if err := a.sessions.Save(ctx, s); err != nil {
		return session.Session{}, fmt.Errorf("failed to save session: %w", err)
	}
	return s, nil
}

// SignOut implements session.Service.
func (a *AuthServiceImpl) SignOut(ctx context.Context, id string) error {
	if err := a.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	slog.Info("Session signed out", "session_id", id)
	return nil
}

// Get implements session.Service.
func (a *AuthServiceImpl) Get(ctx context.Context, id string) (session.Session, error) {
	s, err := a.sessions.Get(ctx, id)
	if err != nil {
		return session.Session{}, err
	}
	if s.IsExpired(a.now()) {
		if err := a.sessions.Delete(ctx, id); err != nil {
			slog.Warn("Failed to delete expired session", "session_id", id, "error", err)
		}
		return session.Session{}, session.ErrSessionExpired
	}
	return s, nil
}

// SelectEmployee implements session.Service.
func (a *AuthServiceImpl) SelectEmployee(ctx context.Context, id string, employeeName string) (session.Session, error) {
	s, err := a.activeSession(ctx, id)
	if err != nil {
		return session.Session{}, err
	}

	e, err := a.employees.Resolve(ctx, employeeName)
	if err != nil {
		return session.Session{}, err
	}

	s.EmployeeName = e.Name
	if err := a.sessions.Save(ctx, s); err != nil {
		return session.Session{}, fmt.Errorf("failed to save session: %w", err)
	}
	return s, nil
}

// SetStatus implements session.Service.
func (a *AuthServiceImpl) SetStatus(ctx context.Context, id string, message string) error {
	s, err := a.Get(ctx, id)
	if err != nil {
		return err
	}
	s.StatusMessage = message
	if err := a.sessions.Save(ctx, s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// TakeStatus implements session.Service.
func (a *AuthServiceImpl) TakeStatus(ctx context.Context, id string) (string, error) {
	s, err := a.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if s.StatusMessage == "" {
		return "", nil
	}

	msg := s.StatusMessage
	s.StatusMessage = ""
	if err := a.sessions.Save(ctx, s); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return msg, nil
}

// ActiveCredential implements session.Service.
func (a *AuthServiceImpl) ActiveCredential(ctx context.Context, id string) (auth.Credential, error) {
	s, err := a.activeSession(ctx, id)
	if err != nil {
		return auth.Credential{}, err
	}

	cred, err := a.Provider.Refresh(ctx, s.Credential)
	if err != nil {
		a.destroy(ctx, id, err)
		return auth.Credential{}, err
	}
	if cred.IsExpired(a.now()) {
		err := fmt.Errorf("%w: %w", auth.ErrAuth, auth.ErrCredentialExpired)
		a.destroy(ctx, id, err)
		return auth.Credential{}, err
	}

	if cred.AccessToken != s.Credential.AccessToken || !cred.Expiry.Equal(s.Credential.Expiry) {
		s.Credential = cred
		if err := a.sessions.Save(ctx, s); err != nil {
			return auth.Credential{}, fmt.Errorf("failed to save refreshed credential: %w", err)
		}
		slog.Debug("Credential refreshed", "session_id", id, "expiry", cred.Expiry)
	}

	return cred, nil
}

// PurgeExpired implements session.Service.
func (a *AuthServiceImpl) PurgeExpired(ctx context.Context) (int, error) {
	return a.sessions.DeleteExpired(ctx, a.now())
}

func (a *AuthServiceImpl) activeSession(ctx context.Context, id string) (session.Session, error) {
	s, err := a.Get(ctx, id)
	if err != nil {
		return session.Session{}, err
	}
	if !s.IsActive() {
		return session.Session{}, session.ErrNotConfirmed
	}
	return s, nil
}

// destroy ends a session after a fatal auth failure.
func (a *AuthServiceImpl) destroy(ctx context.Context, id string, cause error) {
	if !errors.Is(cause, auth.ErrAuth) {
		return
	}
	if err := a.sessions.Delete(ctx, id); err != nil {
		slog.Error("Failed to destroy session after auth failure", "session_id", id, "error", err)
		return
	}
	slog.Warn("Session destroyed after auth failure", "session_id", id, "error", cause)
}
