package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// rules is the transition table. A nil entry marks a legal transition;
// anything else is the rejection returned for that state.
var rules = map[Action]map[State]*TransitionError{
	ActionCheckIn: {
		StateNone:       nil,
		StateCheckedIn:  ErrAlreadyCheckedIn,
		StateOnBreak:    ErrAlreadyCheckedIn,
		StateBreakDone:  ErrAlreadyCheckedIn,
		StateCheckedOut: ErrAlreadyCheckedIn,
	},
	ActionBreakStart: {
		StateNone:       ErrNoCheckIn,
		StateCheckedIn:  nil,
		StateOnBreak:    ErrBreakAlreadyStarted,
		StateBreakDone:  ErrBreakAlreadyStarted,
		StateCheckedOut: ErrBreakAfterCheckout,
	},
	ActionBreakEnd: {
		StateNone:       ErrNoCheckIn,
		StateCheckedIn:  ErrBreakNotStarted,
		StateOnBreak:    nil,
		StateBreakDone:  ErrBreakAlreadyEnded,
		StateCheckedOut: ErrBreakEndAfterCheckout,
	},
	ActionCheckOut: {
		StateNone:       ErrNoCheckIn,
		StateCheckedIn:  nil,
		StateOnBreak:    nil,
		StateBreakDone:  nil,
		StateCheckedOut: ErrAlreadyCheckedOut,
	},
}

var targets = map[Action]State{
	ActionCheckIn:    StateCheckedIn,
	ActionBreakStart: StateOnBreak,
	ActionBreakEnd:   StateBreakDone,
	ActionCheckOut:   StateCheckedOut,
}

// FieldChange is one cell write against an existing row.
type FieldChange struct {
	Column Column
	Value  string
}

// Transition describes the outcome of a legal action.
type Transition struct {
	Action Action
	From   State
	To     State
	// Record is the record as it stands after the action.
	Record Record
	// Append is set when the record must be written as a new row.
	Append bool
	// Changes lists the cell writes for an existing row, check_out always last
	// so a partial write never leaves the day looking finished.
	Changes []FieldChange
}

// AllowedActions returns the actions that are legal from state, in day order.
func AllowedActions(state State) []Action {
	allowed := make([]Action, 0, len(Actions))
	for _, a := range Actions {
		if rules[a][state] == nil {
			allowed = append(allowed, a)
		}
	}
	return allowed
}

// Apply runs one action against the authoritative record for (employee, day of at).
// current is nil when no record exists yet. It never mutates current; a rejection
// leaves nothing to write.
func Apply(current *Record, employeeName string, action Action, at time.Time) (Transition, error) {
	if !action.Valid() {
		return Transition{}, ErrUnknownAction
	}

	from := current.State()
	if rejection := rules[action][from]; rejection != nil {
		return Transition{}, rejection
	}

	now := NewTimeOfDay(at)
	t := Transition{Action: action, From: from, To: targets[action]}

	if action == ActionCheckIn {
		_, week := at.ISOWeek()
		t.Record = Record{
			EmployeeName: employeeName,
			Date:         at.Format(DateLayout),
			CheckIn:      timePtr(now),
			Week:         week,
		}
		t.Append = true
		return t, nil
	}

	next := *current
	if next.CheckIn == nil {
		// A row without a check-in time cannot anchor any later field.
		return Transition{}, ErrNoCheckIn
	}

	switch action {
	case ActionBreakStart:
		if now < *next.CheckIn {
			return Transition{}, ErrBreakStartBeforeCheckIn
		}
		next.BreakStart = timePtr(now)
		t.Changes = append(t.Changes, FieldChange{Column: ColumnBreakStart, Value: now.String()})

	case ActionBreakEnd:
		if now < *next.BreakStart {
			return Transition{}, ErrBreakEndBeforeStart
		}
		next.BreakEnd = timePtr(now)
		t.Changes = append(t.Changes, FieldChange{Column: ColumnBreakEnd, Value: now.String()})

	case ActionCheckOut:
		if now < *next.CheckIn {
			return Transition{}, ErrCheckOutBeforeCheckIn
		}
		if from == StateOnBreak {
			// An open break is closed at the moment of check-out.
			if now < *next.BreakStart {
				return Transition{}, ErrCheckOutBeforeBreakStart
			}
			next.BreakEnd = timePtr(now)
			t.Changes = append(t.Changes, FieldChange{Column: ColumnBreakEnd, Value: now.String()})
		} else if next.BreakEnd != nil && now < *next.BreakEnd {
			return Transition{}, ErrCheckOutBeforeBreakEnd
		}
		next.CheckOut = timePtr(now)
		hours := WorkedHours(next)
		next.HoursWorked = &hours
		t.Changes = append(t.Changes,
			FieldChange{Column: ColumnHoursWorked, Value: FormatHours(hours)},
			FieldChange{Column: ColumnCheckOut, Value: now.String()},
		)
	}

	t.Record = next
	return t, nil
}

// WorkedHours is (check_out - check_in - break) in hours, rounded to 2 decimals.
// The break only counts when both of its ends are recorded.
func WorkedHours(r Record) float64 {
	if r.CheckIn == nil || r.CheckOut == nil {
		return 0
	}
	seconds := r.CheckOut.Seconds() - r.CheckIn.Seconds()
	if r.BreakStart != nil && r.BreakEnd != nil {
		seconds -= r.BreakEnd.Seconds() - r.BreakStart.Seconds()
	}
	hours, _ := decimal.NewFromInt(int64(seconds)).
		DivRound(decimal.NewFromInt(3600), 8).
		Round(2).
		Float64()
	return hours
}

// FormatHours renders worked hours the way they are stored.
func FormatHours(h float64) string {
	return decimal.NewFromFloat(h).StringFixed(2)
}

func timePtr(t TimeOfDay) *TimeOfDay {
	return &t
}
