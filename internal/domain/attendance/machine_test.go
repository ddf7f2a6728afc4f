package attendance

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute, second int) time.Time {
	return time.Date(2024, time.March, 4, hour, minute, second, 0, time.UTC)
}

// step applies an action and returns the resulting record, failing the test on rejection.
func step(t *testing.T, current *Record, action Action, when time.Time) *Record {
	t.Helper()
	tr, err := Apply(current, "Alice", action, when)
	require.NoError(t, err)
	rec := tr.Record
	if current != nil {
		rec.RowIndex = current.RowIndex
	} else {
		rec.RowIndex = 2
	}
	return &rec
}

func TestApply_CheckInCreatesRecord(t *testing.T) {
	tr, err := Apply(nil, "Alice", ActionCheckIn, at(9, 0, 0))
	require.NoError(t, err)

	assert.True(t, tr.Append)
	assert.Empty(t, tr.Changes)
	assert.Equal(t, StateNone, tr.From)
	assert.Equal(t, StateCheckedIn, tr.To)
	assert.Equal(t, "Alice", tr.Record.EmployeeName)
	assert.Equal(t, "2024-03-04", tr.Record.Date)
	assert.Equal(t, 10, tr.Record.Week)
	require.NotNil(t, tr.Record.CheckIn)
	assert.Equal(t, "09:00:00", tr.Record.CheckIn.String())
	assert.Nil(t, tr.Record.CheckOut)
	assert.Nil(t, tr.Record.HoursWorked)
}

func TestApply_FullDayWithBreak(t *testing.T) {
	rec := step(t, nil, ActionCheckIn, at(9, 0, 0))
	rec = step(t, rec, ActionBreakStart, at(12, 0, 0))
	assert.Equal(t, StateOnBreak, rec.State())
	rec = step(t, rec, ActionBreakEnd, at(12, 30, 0))
	assert.Equal(t, StateBreakDone, rec.State())

	tr, err := Apply(rec, "Alice", ActionCheckOut, at(17, 0, 0))
	require.NoError(t, err)

	assert.False(t, tr.Append)
	assert.Equal(t, StateCheckedOut, tr.To)
	require.NotNil(t, tr.Record.HoursWorked)
	assert.Equal(t, 7.5, *tr.Record.HoursWorked)
	assert.Equal(t, []FieldChange{
		{Column: ColumnHoursWorked, Value: "7.50"},
		{Column: ColumnCheckOut, Value: "17:00:00"},
	}, tr.Changes)
}

func TestApply_FullDayWithoutBreak(t *testing.T) {
	rec := step(t, nil, ActionCheckIn, at(9, 0, 0))
	rec = step(t, rec, ActionCheckOut, at(17, 0, 0))

	require.NotNil(t, rec.HoursWorked)
	assert.Equal(t, 8.0, *rec.HoursWorked)
	assert.Nil(t, rec.BreakStart)
	assert.Nil(t, rec.BreakEnd)
	assert.Equal(t, StateCheckedOut, rec.State())
}

func TestApply_CheckOutClosesOpenBreak(t *testing.T) {
	rec := step(t, nil, ActionCheckIn, at(9, 0, 0))
	rec = step(t, rec, ActionBreakStart, at(12, 0, 0))

	tr, err := Apply(rec, "Alice", ActionCheckOut, at(13, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, StateOnBreak, tr.From)
	require.NotNil(t, tr.Record.BreakEnd)
	assert.Equal(t, "13:00:00", tr.Record.BreakEnd.String())
	require.NotNil(t, tr.Record.HoursWorked)
	assert.Equal(t, 3.0, *tr.Record.HoursWorked)
	require.Len(t, tr.Changes, 3)
	assert.Equal(t, ColumnBreakEnd, tr.Changes[0].Column)
	assert.Equal(t, ColumnCheckOut, tr.Changes[2].Column)
}

func TestApply_DoesNotMutateCurrent(t *testing.T) {
	rec := step(t, nil, ActionCheckIn, at(9, 0, 0))
	_, err := Apply(rec, "Alice", ActionBreakStart, at(12, 0, 0))
	require.NoError(t, err)
	assert.Nil(t, rec.BreakStart)
}

func TestApply_Rejections(t *testing.T) {
	checkedIn := step(t, nil, ActionCheckIn, at(9, 0, 0))
	onBreak := step(t, checkedIn, ActionBreakStart, at(12, 0, 0))
	breakDone := step(t, onBreak, ActionBreakEnd, at(12, 30, 0))
	checkedOut := step(t, breakDone, ActionCheckOut, at(17, 0, 0))

	tests := []struct {
		name    string
		current *Record
		action  Action
		want    error
	}{
		{"check in twice", checkedIn, ActionCheckIn, ErrAlreadyCheckedIn},
		{"check in after checkout", checkedOut, ActionCheckIn, ErrAlreadyCheckedIn},
		{"break start without check in", nil, ActionBreakStart, ErrNoCheckIn},
		{"break start twice", onBreak, ActionBreakStart, ErrBreakAlreadyStarted},
		{"second break", breakDone, ActionBreakStart, ErrBreakAlreadyStarted},
		{"break start after checkout", checkedOut, ActionBreakStart, ErrBreakAfterCheckout},
		{"break end without check in", nil, ActionBreakEnd, ErrNoCheckIn},
		{"break end without start", checkedIn, ActionBreakEnd, ErrBreakNotStarted},
		{"break end twice", breakDone, ActionBreakEnd, ErrBreakAlreadyEnded},
		{"break end after checkout", checkedOut, ActionBreakEnd, ErrBreakEndAfterCheckout},
		{"check out without check in", nil, ActionCheckOut, ErrNoCheckIn},
		{"check out twice", checkedOut, ActionCheckOut, ErrAlreadyCheckedOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Apply(tt.current, "Alice", tt.action, at(18, 0, 0))
			require.Error(t, err)
			assert.Equal(t, tt.want, err)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.False(t, errors.Is(err, ErrOrdering))
			assert.Empty(t, tr.Changes)
			assert.False(t, tr.Append)
		})
	}
}

func TestApply_DoubleSubmissionIsRejected(t *testing.T) {
	rec := step(t, nil, ActionCheckIn, at(9, 0, 0))
	rec = step(t, rec, ActionBreakStart, at(12, 0, 0))

	_, err := Apply(rec, "Alice", ActionBreakStart, at(12, 0, 1))
	assert.ErrorIs(t, err, ErrBreakAlreadyStarted)
	assert.Equal(t, "break already started", err.Error())
}

func TestApply_OrderingViolations(t *testing.T) {
	checkedIn := step(t, nil, ActionCheckIn, at(9, 0, 0))
	onBreak := step(t, checkedIn, ActionBreakStart, at(12, 0, 0))
	breakDone := step(t, onBreak, ActionBreakEnd, at(12, 30, 0))

	tests := []struct {
		name    string
		current *Record
		action  Action
		when    time.Time
		want    error
	}{
		{"break start before check in", checkedIn, ActionBreakStart, at(8, 0, 0), ErrBreakStartBeforeCheckIn},
		{"break end before break start", onBreak, ActionBreakEnd, at(11, 59, 59), ErrBreakEndBeforeStart},
		{"check out before check in", checkedIn, ActionCheckOut, at(8, 59, 0), ErrCheckOutBeforeCheckIn},
		{"check out before break start", onBreak, ActionCheckOut, at(10, 0, 0), ErrCheckOutBeforeBreakStart},
		{"check out before break end", breakDone, ActionCheckOut, at(12, 15, 0), ErrCheckOutBeforeBreakEnd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Apply(tt.current, "Alice", tt.action, tt.when)
			assert.Equal(t, tt.want, err)
			assert.ErrorIs(t, err, ErrOrdering)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestApply_RowWithoutCheckIn(t *testing.T) {
	bt := TimeOfDay(12 * 3600)
	rec := &Record{RowIndex: 5, EmployeeName: "Alice", Date: "2024-03-04", BreakStart: &bt}

	_, err := Apply(rec, "Alice", ActionBreakEnd, at(13, 0, 0))
	assert.Equal(t, ErrNoCheckIn, err)
}

func TestApply_UnknownAction(t *testing.T) {
	_, err := Apply(nil, "Alice", Action("lunch"), at(9, 0, 0))
	assert.Equal(t, ErrUnknownAction, err)
}

func TestAllowedActions(t *testing.T) {
	assert.Equal(t, []Action{ActionCheckIn}, AllowedActions(StateNone))
	assert.Equal(t, []Action{ActionBreakStart, ActionCheckOut}, AllowedActions(StateCheckedIn))
	assert.Equal(t, []Action{ActionBreakEnd, ActionCheckOut}, AllowedActions(StateOnBreak))
	assert.Equal(t, []Action{ActionCheckOut}, AllowedActions(StateBreakDone))
	assert.Empty(t, AllowedActions(StateCheckedOut))
}

func TestWorkedHours_Rounding(t *testing.T) {
	in := TimeOfDay(9 * 3600)
	out := TimeOfDay(9*3600 + 20*60)
	assert.Equal(t, 0.33, WorkedHours(Record{CheckIn: &in, CheckOut: &out}))
	assert.Equal(t, 0.0, WorkedHours(Record{CheckIn: &in}))
	assert.Equal(t, "0.33", FormatHours(0.33))
	assert.Equal(t, "8.00", FormatHours(8))
}
