package session

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
	ErrNotConfirmed    = errors.New("sign-in has not been confirmed")
	ErrAlreadyActive   = errors.New("session is already active")
	ErrNoEmployee      = errors.New("no employee selected for this session")
)
