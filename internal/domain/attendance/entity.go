package attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// TimeOfDay is a wall-clock time in seconds since local midnight.
type TimeOfDay int

// NewTimeOfDay truncates t to the second and drops its date.
func NewTimeOfDay(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// ParseTimeOfDay accepts HH:MM:SS (hours may be a single digit) and HH:MM.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	var fields [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("invalid time of day %q", s)
		}
		fields[i] = n
	}
	h, m, sec := fields[0], fields[1], fields[2]
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}
	return TimeOfDay(h*3600 + m*60 + sec), nil
}

func (t TimeOfDay) String() string {
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

func (t TimeOfDay) Seconds() int {
	return int(t)
}

// State is derived from which fields of the day's record are populated; it is never stored.
type State int

const (
	StateNone State = iota
	StateCheckedIn
	StateOnBreak
	StateBreakDone
	StateCheckedOut
)

var stateNames = map[State]string{
	StateNone:       "none",
	StateCheckedIn:  "checked_in",
	StateOnBreak:    "on_break",
	StateBreakDone:  "break_done",
	StateCheckedOut: "checked_out",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Action is the tagged variant of everything a user can record.
type Action string

const (
	ActionCheckIn    Action = "check_in"
	ActionBreakStart Action = "break_start"
	ActionBreakEnd   Action = "break_end"
	ActionCheckOut   Action = "check_out"
)

// Actions lists every action in the order they normally happen during a day.
var Actions = []Action{ActionCheckIn, ActionBreakStart, ActionBreakEnd, ActionCheckOut}

// ParseAction accepts both the snake_case name and the URL form (check-in).
func ParseAction(s string) (Action, error) {
	a := Action(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !a.Valid() {
		return "", ErrUnknownAction
	}
	return a, nil
}

func (a Action) Valid() bool {
	switch a {
	case ActionCheckIn, ActionBreakStart, ActionBreakEnd, ActionCheckOut:
		return true
	}
	return false
}

// Label is the human readable form used in messages.
func (a Action) Label() string {
	switch a {
	case ActionCheckIn:
		return "Check In"
	case ActionBreakStart:
		return "Break Start"
	case ActionBreakEnd:
		return "Break End"
	case ActionCheckOut:
		return "Check Out"
	}
	return string(a)
}

// Record is one employee's attendance row for one date.
type Record struct {
	// RowIndex is the 1-based store row, header included. Zero until persisted.
	RowIndex     int
	EmployeeName string
	Date         string // YYYY-MM-DD
	CheckIn      *TimeOfDay
	CheckOut     *TimeOfDay
	BreakStart   *TimeOfDay
	BreakEnd     *TimeOfDay
	HoursWorked  *float64
	Week         int
}

// State derives the record state from its populated fields.
func (r *Record) State() State {
	switch {
	case r == nil:
		return StateNone
	case r.CheckOut != nil:
		return StateCheckedOut
	case r.BreakStart != nil && r.BreakEnd == nil:
		return StateOnBreak
	case r.BreakStart != nil && r.BreakEnd != nil:
		return StateBreakDone
	default:
		return StateCheckedIn
	}
}
