package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// timesheetColumns maps the 1-based timesheet column to its SQL column.
var timesheetColumns = map[attendance.Column]string{
	attendance.ColumnName:        "name",
	attendance.ColumnDate:        "date",
	attendance.ColumnCheckIn:     "check_in",
	attendance.ColumnCheckOut:    "check_out",
	attendance.ColumnBreakStart:  "break_start",
	attendance.ColumnBreakEnd:    "break_end",
	attendance.ColumnHoursWorked: "hours_worked",
	attendance.ColumnWeek:        "week",
}

const createTimesheetTable = `
	CREATE TABLE IF NOT EXISTS timesheet_rows (
		id           BIGSERIAL PRIMARY KEY,
		name         TEXT NOT NULL DEFAULT '',
		date         TEXT NOT NULL DEFAULT '',
		check_in     TEXT NOT NULL DEFAULT '',
		check_out    TEXT NOT NULL DEFAULT '',
		break_start  TEXT NOT NULL DEFAULT '',
		break_end    TEXT NOT NULL DEFAULT '',
		hours_worked TEXT NOT NULL DEFAULT '',
		week         TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// timesheetRepository stores the timesheet as text cells so it behaves like the
// spreadsheet backend: row order is insertion order and row 1 is the header.
type timesheetRepository struct {
	db *database.DB
}

// Open implements attendance.RecordStoreProvider. The table is shared by all
// sessions, so the credential is not used.
func (r *timesheetRepository) Open(_ context.Context, _ auth.Credential) (attendance.RecordStore, error) {
	return r, nil
}

// FetchAll implements attendance.RecordStore.
func (r *timesheetRepository) FetchAll(ctx context.Context) ([]attendance.Row, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT name, date, check_in, check_out, break_start, break_end, hours_worked, week
		FROM timesheet_rows
		ORDER BY id ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query timesheet rows: %w", err)
	}
	defer rows.Close()

	var result []attendance.Row
	for rows.Next() {
		values := make([]string, len(attendance.Header))
		if err := rows.Scan(&values[0], &values[1], &values[2], &values[3], &values[4], &values[5], &values[6], &values[7]); err != nil {
			return nil, fmt.Errorf("failed to scan timesheet row: %w", err)
		}
		row := make(attendance.Row, len(attendance.Header))
		for i, name := range attendance.Header {
			row[name] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate timesheet rows: %w", err)
	}

	return result, nil
}

// AppendRow implements attendance.RecordStore.
func (r *timesheetRepository) AppendRow(ctx context.Context, values []string) error {
	q := GetQuerier(ctx, r.db)

	cells := make([]interface{}, len(attendance.Header))
	for i := range cells {
		if i < len(values) {
			cells[i] = values[i]
		} else {
			cells[i] = ""
		}
	}

	query := `
		INSERT INTO timesheet_rows (name, date, check_in, check_out, break_start, break_end, hours_worked, week)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := q.Exec(ctx, query, cells...); err != nil {
		return fmt.Errorf("failed to append timesheet row: %w", err)
	}
	return nil
}

// UpdateCell implements attendance.RecordStore. rowIndex is resolved to the
// row's id by position, inside one transaction.
func (r *timesheetRepository) UpdateCell(ctx context.Context, rowIndex int, columnIndex int, value string) error {
	column, ok := timesheetColumns[attendance.Column(columnIndex)]
	if !ok {
		return fmt.Errorf("invalid timesheet column %d", columnIndex)
	}
	if rowIndex < 2 {
		return fmt.Errorf("invalid timesheet row %d", rowIndex)
	}

	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := WithTx(ctx, tx)
		q := GetQuerier(txCtx, r.db)

		var id int64
		err := q.QueryRow(txCtx, `
			SELECT id FROM timesheet_rows
			ORDER BY id ASC
			OFFSET $1 LIMIT 1
			FOR UPDATE
		`, rowIndex-2).Scan(&id)
		if err != nil {
			if err == pgx.ErrNoRows {
				return fmt.Errorf("timesheet row %d not found", rowIndex)
			}
			return fmt.Errorf("failed to locate timesheet row %d: %w", rowIndex, err)
		}

		query := fmt.Sprintf(`UPDATE timesheet_rows SET %s = $1 WHERE id = $2`, column)
		if _, err := q.Exec(txCtx, query, value, id); err != nil {
			return fmt.Errorf("failed to update timesheet row %d: %w", rowIndex, err)
		}
		return nil
	})
}

// EnsureSchema creates the timesheet table when it does not exist.
func (r *timesheetRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createTimesheetTable); err != nil {
		return fmt.Errorf("failed to create timesheet table: %w", err)
	}
	return nil
}

// TimesheetRepository is a RecordStore backed by PostgreSQL.
type TimesheetRepository interface {
	attendance.RecordStore
	attendance.RecordStoreProvider
	EnsureSchema(ctx context.Context) error
}

func NewTimesheetRepository(db *database.DB) TimesheetRepository {
	return &timesheetRepository{db: db}
}
