package attendance

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/validator"
)

// Column is a 1-based column of the timesheet.
type Column int

const (
	ColumnName Column = iota + 1
	ColumnDate
	ColumnCheckIn
	ColumnCheckOut
	ColumnBreakStart
	ColumnBreakEnd
	ColumnHoursWorked
	ColumnWeek
)

// Header is the fixed column order of the timesheet.
var Header = []string{"Name", "Date", "Check In", "Check Out", "Break Start", "Break End", "Hours Worked", "Week"}

func (c Column) Name() string {
	if c < ColumnName || c > ColumnWeek {
		return ""
	}
	return Header[c-1]
}

// Row maps a header name to the cell value.
type Row map[string]string

func (r Row) get(c Column) string {
	return strings.TrimSpace(r[c.Name()])
}

// RowIndex converts a 0-based position in FetchAll output to the store's
// 1-based row number (the header occupies row 1).
func RowIndex(position int) int {
	return position + 2
}

// ParseRecord decodes a stored row.
func ParseRecord(row Row, rowIndex int) (Record, error) {
	rec := Record{
		RowIndex:     rowIndex,
		EmployeeName: row.get(ColumnName),
		Date:         row.get(ColumnDate),
	}

	if _, ok := validator.IsValidDate(rec.Date); !ok {
		return Record{}, fmt.Errorf("%w: row %d date %q", ErrMalformedRecord, rowIndex, rec.Date)
	}

	fields := []struct {
		column Column
		dst    **TimeOfDay
	}{
		{ColumnCheckIn, &rec.CheckIn},
		{ColumnCheckOut, &rec.CheckOut},
		{ColumnBreakStart, &rec.BreakStart},
		{ColumnBreakEnd, &rec.BreakEnd},
	}
	for _, f := range fields {
		raw := row.get(f.column)
		if raw == "" {
			continue
		}
		t, err := ParseTimeOfDay(raw)
		if err != nil {
			return Record{}, fmt.Errorf("%w: row %d %s: %w", ErrMalformedRecord, rowIndex, f.column.Name(), err)
		}
		*f.dst = &t
	}

	if raw := row.get(ColumnHoursWorked); raw != "" {
		h, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Record{}, fmt.Errorf("%w: row %d hours: %w", ErrMalformedRecord, rowIndex, err)
		}
		rec.HoursWorked = &h
	}

	if raw := row.get(ColumnWeek); raw != "" {
		w, err := strconv.Atoi(raw)
		if err != nil {
			return Record{}, fmt.Errorf("%w: row %d week: %w", ErrMalformedRecord, rowIndex, err)
		}
		rec.Week = w
	}

	return rec, nil
}

// Values encodes the record in column order.
func (r Record) Values() []string {
	values := make([]string, len(Header))
	values[ColumnName-1] = r.EmployeeName
	values[ColumnDate-1] = r.Date
	values[ColumnCheckIn-1] = formatTime(r.CheckIn)
	values[ColumnCheckOut-1] = formatTime(r.CheckOut)
	values[ColumnBreakStart-1] = formatTime(r.BreakStart)
	values[ColumnBreakEnd-1] = formatTime(r.BreakEnd)
	if r.HoursWorked != nil {
		values[ColumnHoursWorked-1] = FormatHours(*r.HoursWorked)
	}
	values[ColumnWeek-1] = strconv.Itoa(r.Week)
	return values
}

// FindLatest returns the last row for (employeeName, date), or nil if there is none.
// When duplicates exist the most recent one is authoritative.
func FindLatest(rows []Row, employeeName string, date string) (*Record, error) {
	name := strings.TrimSpace(employeeName)
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		if !strings.EqualFold(row.get(ColumnName), name) || row.get(ColumnDate) != date {
			continue
		}
		rec, err := ParseRecord(row, RowIndex(i))
		if err != nil {
			return nil, err
		}
		return &rec, nil
	}
	return nil, nil
}

func formatTime(t *TimeOfDay) string {
	if t == nil {
		return ""
	}
	return t.String()
}
