package session

import "time"

type SessionResponse struct {
	State         State     `json:"state"`
	EmployeeName  string    `json:"employee_name,omitempty"`
	StatusMessage string    `json:"status_message,omitempty"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// NewSessionResponse never exposes the credential.
func NewSessionResponse(s Session) SessionResponse {
	return SessionResponse{
		State:         s.State,
		EmployeeName:  s.EmployeeName,
		StatusMessage: s.StatusMessage,
		ExpiresAt:     s.ExpiresAt,
	}
}
