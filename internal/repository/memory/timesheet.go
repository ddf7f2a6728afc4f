package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/auth"
)

// TimesheetStore keeps timesheet rows in process memory. It backs local
// development and tests; everything is lost on restart.
type TimesheetStore struct {
	mu   sync.Mutex
	rows [][]string
}

var (
	_ attendance.RecordStore         = (*TimesheetStore)(nil)
	_ attendance.RecordStoreProvider = (*TimesheetStore)(nil)
)

func NewTimesheetStore() *TimesheetStore {
	return &TimesheetStore{}
}

// Open returns the shared store; the credential is not needed in memory.
func (s *TimesheetStore) Open(_ context.Context, _ auth.Credential) (attendance.RecordStore, error) {
	return s, nil
}

func (s *TimesheetStore) FetchAll(_ context.Context) ([]attendance.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]attendance.Row, 0, len(s.rows))
	for _, values := range s.rows {
		row := make(attendance.Row, len(attendance.Header))
		for i, name := range attendance.Header {
			if i < len(values) {
				row[name] = values[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *TimesheetStore) AppendRow(_ context.Context, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := make([]string, len(attendance.Header))
	copy(row, values)
	s.rows = append(s.rows, row)
	return nil
}

func (s *TimesheetStore) UpdateCell(_ context.Context, rowIndex int, columnIndex int, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := rowIndex - 2
	if pos < 0 || pos >= len(s.rows) {
		return fmt.Errorf("row %d out of range", rowIndex)
	}
	if columnIndex < 1 || columnIndex > len(attendance.Header) {
		return fmt.Errorf("column %d out of range", columnIndex)
	}
	s.rows[pos][columnIndex-1] = value
	return nil
}

// Len returns the number of data rows.
func (s *TimesheetStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}
