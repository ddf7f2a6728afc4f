package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(values ...string) Row {
	r := Row{}
	for i, v := range values {
		r[Header[i]] = v
	}
	return r
}

func TestParseRecord(t *testing.T) {
	rec, err := ParseRecord(row("Alice", "2024-03-04", "09:00:00", "17:00:00", "12:00:00", "12:30:00", "7.50", "10"), 3)
	require.NoError(t, err)

	assert.Equal(t, 3, rec.RowIndex)
	assert.Equal(t, "Alice", rec.EmployeeName)
	assert.Equal(t, "09:00:00", rec.CheckIn.String())
	assert.Equal(t, "12:30:00", rec.BreakEnd.String())
	require.NotNil(t, rec.HoursWorked)
	assert.Equal(t, 7.5, *rec.HoursWorked)
	assert.Equal(t, 10, rec.Week)
	assert.Equal(t, StateCheckedOut, rec.State())
}

func TestParseRecord_PartialRow(t *testing.T) {
	rec, err := ParseRecord(Row{"Name": "Bob", "Date": "2024-03-04", "Check In": "9:05"}, 2)
	require.NoError(t, err)

	assert.Equal(t, "09:05:00", rec.CheckIn.String())
	assert.Nil(t, rec.CheckOut)
	assert.Nil(t, rec.HoursWorked)
	assert.Equal(t, StateCheckedIn, rec.State())
}

func TestParseRecord_Malformed(t *testing.T) {
	_, err := ParseRecord(row("Alice", "2024-03-04", "nine"), 4)
	assert.ErrorIs(t, err, ErrMalformedRecord)

	_, err = ParseRecord(row("Alice", "2024-03-04", "09:00:00", "", "", "", "lots"), 4)
	assert.ErrorIs(t, err, ErrMalformedRecord)

	_, err = ParseRecord(row("Alice", "04/03/2024", "09:00:00"), 4)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestRecordValues_RoundTrip(t *testing.T) {
	in := TimeOfDay(9 * 3600)
	rec := Record{EmployeeName: "Alice", Date: "2024-03-04", CheckIn: &in, Week: 10}

	values := rec.Values()
	assert.Equal(t, []string{"Alice", "2024-03-04", "09:00:00", "", "", "", "", "10"}, values)

	parsed, err := ParseRecord(row(values...), 2)
	require.NoError(t, err)
	assert.Equal(t, rec.CheckIn.String(), parsed.CheckIn.String())
	assert.Equal(t, StateCheckedIn, parsed.State())
}

func TestFindLatest(t *testing.T) {
	rows := []Row{
		row("Alice", "2024-03-03", "09:00:00"),
		row("Bob", "2024-03-04", "08:00:00"),
		row("alice ", "2024-03-04", "09:00:00"),
		row("Alice", "2024-03-04", "10:00:00"),
		row("Carol", "2024-03-04", "11:00:00"),
	}

	rec, err := FindLatest(rows, "Alice", "2024-03-04")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, RowIndex(3), rec.RowIndex)
	assert.Equal(t, 5, rec.RowIndex)
	assert.Equal(t, "10:00:00", rec.CheckIn.String())

	rec, err = FindLatest(rows, "Alice", "2024-03-05")
	require.NoError(t, err)
	assert.Nil(t, rec)

	rec, err = FindLatest(nil, "Alice", "2024-03-04")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestParseAction(t *testing.T) {
	for input, want := range map[string]Action{
		"check_in":    ActionCheckIn,
		"check-in":    ActionCheckIn,
		"Break-Start": ActionBreakStart,
		" break_end ": ActionBreakEnd,
		"CHECK-OUT":   ActionCheckOut,
	} {
		got, err := ParseAction(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
	}

	_, err := ParseAction("lunch")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("7:04:09")
	require.NoError(t, err)
	assert.Equal(t, "07:04:09", got.String())

	for _, bad := range []string{"", "25:00", "12:60:00", "12", "ab:cd"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, bad)
	}
}
