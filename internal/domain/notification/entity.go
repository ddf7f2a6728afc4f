package notification

import (
	"fmt"
	"time"
)

// EventType mirrors the attendance action that produced the event.
type EventType string

const (
	TypeCheckIn    EventType = "check_in"
	TypeBreakStart EventType = "break_start"
	TypeBreakEnd   EventType = "break_end"
	TypeCheckOut   EventType = "check_out"
)

// Event is one recorded attendance action, fanned out to the webhook and live subscribers.
type Event struct {
	ID           string
	Type         EventType
	Label        string
	EmployeeName string
	Date         string
	Time         string
	State        string
	HoursWorked  *float64
	CreatedAt    time.Time
}

// Text renders the plain-text webhook message.
func (e Event) Text() string {
	msg := fmt.Sprintf("%s: %s at %s on %s", e.EmployeeName, e.Label, e.Time, e.Date)
	if e.HoursWorked != nil {
		msg += fmt.Sprintf(" (%.2f hours worked)", *e.HoursWorked)
	}
	return msg
}
