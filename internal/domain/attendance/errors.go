package attendance

import "errors"

var (
	// ErrValidation matches every rejected transition.
	ErrValidation = errors.New("invalid attendance action")
	// ErrOrdering matches rejections caused by timestamps out of order.
	ErrOrdering = errors.New("attendance timestamps out of order")

	// ErrStore wraps record store I/O failures. The record is left unchanged.
	ErrStore = errors.New("record store unavailable")
	// ErrMalformedRecord is returned when the authoritative row cannot be parsed.
	ErrMalformedRecord = errors.New("malformed attendance record")
)

// TransitionError is a user-facing rejection of an action for the current record.
type TransitionError struct {
	Code     string
	Reason   string
	Ordering bool
}

func (e *TransitionError) Error() string {
	return e.Reason
}

func (e *TransitionError) Is(target error) bool {
	switch target {
	case ErrValidation:
		return true
	case ErrOrdering:
		return e.Ordering
	}
	return false
}

var (
	ErrUnknownAction = &TransitionError{Code: "UNKNOWN_ACTION", Reason: "unknown attendance action"}

	ErrAlreadyCheckedIn  = &TransitionError{Code: "ALREADY_CHECKED_IN", Reason: "already checked in today"}
	ErrNoCheckIn         = &TransitionError{Code: "NO_CHECK_IN", Reason: "no check-in found"}
	ErrAlreadyCheckedOut = &TransitionError{Code: "ALREADY_CHECKED_OUT", Reason: "already checked out"}

	ErrBreakAlreadyStarted   = &TransitionError{Code: "BREAK_ALREADY_STARTED", Reason: "break already started"}
	ErrBreakAfterCheckout    = &TransitionError{Code: "BREAK_AFTER_CHECKOUT", Reason: "cannot start break after checkout"}
	ErrBreakNotStarted       = &TransitionError{Code: "BREAK_NOT_STARTED", Reason: "break not started"}
	ErrBreakAlreadyEnded     = &TransitionError{Code: "BREAK_ALREADY_ENDED", Reason: "break already ended"}
	ErrBreakEndAfterCheckout = &TransitionError{Code: "BREAK_END_AFTER_CHECKOUT", Reason: "cannot end break after checkout"}

	ErrBreakStartBeforeCheckIn  = &TransitionError{Code: "BREAK_START_BEFORE_CHECK_IN", Reason: "break start before check in", Ordering: true}
	ErrBreakEndBeforeStart      = &TransitionError{Code: "BREAK_END_BEFORE_START", Reason: "break end before break start", Ordering: true}
	ErrCheckOutBeforeCheckIn    = &TransitionError{Code: "CHECK_OUT_BEFORE_CHECK_IN", Reason: "check out before check in", Ordering: true}
	ErrCheckOutBeforeBreakStart = &TransitionError{Code: "CHECK_OUT_BEFORE_BREAK_START", Reason: "check out before break start", Ordering: true}
	ErrCheckOutBeforeBreakEnd   = &TransitionError{Code: "CHECK_OUT_BEFORE_BREAK_END", Reason: "check out before break end", Ordering: true}
)
