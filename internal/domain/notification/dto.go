package notification

import "time"

// EventResponse represents an attendance event in API responses and SSE frames
type EventResponse struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	EmployeeName string    `json:"employee_name"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	State        string    `json:"state"`
	HoursWorked  *float64  `json:"hours_worked,omitempty"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}

// SSEEvent represents a Server-Sent Event
type SSEEvent struct {
	Event string        `json:"event"`
	Data  EventResponse `json:"data"`
}

func NewEventResponse(e Event) EventResponse {
	return EventResponse{
		ID:           e.ID,
		Type:         e.Type,
		EmployeeName: e.EmployeeName,
		Date:         e.Date,
		Time:         e.Time,
		State:        e.State,
		HoursWorked:  e.HoursWorked,
		Message:      e.Text(),
		CreatedAt:    e.CreatedAt,
	}
}
