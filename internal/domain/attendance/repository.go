package attendance

import (
	"context"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/auth"
)

// RecordStore is the row-oriented timesheet. It enforces no uniqueness and
// offers no locking; concurrent writers resolve as last write wins.
type RecordStore interface {
	// FetchAll returns every data row in store order, header excluded.
	// The row at position i lives at RowIndex(i).
	FetchAll(ctx context.Context) ([]Row, error)

	// AppendRow adds a row after the last one, values in Header order.
	AppendRow(ctx context.Context, values []string) error

	// UpdateCell overwrites one cell. Both indexes are 1-based and rowIndex counts the header.
	UpdateCell(ctx context.Context, rowIndex int, columnIndex int, value string) error
}

// RecordStoreProvider binds a RecordStore to the caller's credential.
type RecordStoreProvider interface {
	Open(ctx context.Context, cred auth.Credential) (RecordStore, error)
}
