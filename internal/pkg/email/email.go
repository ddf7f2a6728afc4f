package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/cmlabs-hris/timesheet-portal/internal/config"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/notification"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Sink mails each attendance event to a fixed recipient list.
type Sink struct {
	cfg       config.SMTPConfig
	templates *template.Template
	send      sendFunc
	backoff   time.Duration
}

var _ notification.Sink = (*Sink)(nil)

func NewSink(cfg config.SMTPConfig) (*Sink, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &Sink{
		cfg:       cfg,
		templates: tmpl,
		send:      smtp.SendMail,
		backoff:   time.Second,
	}, nil
}

type attendanceEmailData struct {
	Label        string
	EmployeeName string
	Date         string
	Time         string
	State        string
	HoursWorked  string
}

// Send implements notification.Sink.
func (s *Sink) Send(ctx context.Context, event notification.Event) error {
	data := attendanceEmailData{
		Label:        event.Label,
		EmployeeName: event.EmployeeName,
		Date:         event.Date,
		Time:         event.Time,
		State:        event.State,
	}
	if event.HoursWorked != nil {
		data.HoursWorked = attendance.FormatHours(*event.HoursWorked)
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "attendance.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject := fmt.Sprintf("%s: %s", event.EmployeeName, event.Label)
	return s.sendHTML(ctx, subject, body.String())
}

func (s *Sink) message(subject, htmlBody string) []byte {
	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, s.cfg.From)
	headers += fmt.Sprintf("To: %s\r\n", strings.Join(s.cfg.To, ", "))
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"
	return []byte(headers + htmlBody)
}

func (s *Sink) sendHTML(ctx context.Context, subject, htmlBody string) error {
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "subject", subject)
		return nil
	}

	message := s.message(subject, htmlBody)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.send(addr, auth, s.cfg.From, s.cfg.To, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", s.cfg.To, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", s.cfg.To,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Exponential backoff: 1s, 2s, 4s
		if attempt < maxRetries {
			select {
			case <-time.After(s.backoff << (attempt - 1)):
			case <-ctx.Done():
				return fmt.Errorf("%w: %w", notification.ErrSinkRejected, ctx.Err())
			}
		}
	}

	return fmt.Errorf("%w: failed to send email after %d attempts: %w", notification.ErrSinkRejected, maxRetries, lastErr)
}
