package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/auth"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"
)

const valueInputRaw = "RAW"

// ErrHeaderMismatch is returned when row 1 of the sheet is not the timesheet header.
var ErrHeaderMismatch = errors.New("sheet does not start with the timesheet header")

// Store is a RecordStore over one sheet of a Google spreadsheet. Row 1 holds
// the header; values are written RAW so times stay text.
type Store struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

var _ attendance.RecordStore = (*Store)(nil)

func NewStore(svc *sheets.Service, spreadsheetID string, sheetName string) *Store {
	return &Store{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}
}

// SpreadsheetID returns the spreadsheet the store writes to.
func (s *Store) SpreadsheetID() string {
	return s.spreadsheetID
}

// FetchAll reads every data row. An empty sheet gets the header written first
// so the first appended record never lands in row 1.
func (s *Store) FetchAll(ctx context.Context) ([]attendance.Row, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.columnsRange()).Context(ctx).Do()
	if err != nil {
		return nil, classify("read rows", err)
	}
	if len(resp.Values) == 0 {
		if err := s.WriteHeader(ctx); err != nil {
			return nil, err
		}
		return []attendance.Row{}, nil
	}

	header := make([]string, len(resp.Values[0]))
	for i, v := range resp.Values[0] {
		header[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	rows := make([]attendance.Row, 0, len(resp.Values)-1)
	for _, values := range resp.Values[1:] {
		row := make(attendance.Row, len(attendance.Header))
		for i, name := range attendance.Header {
			if i < len(values) {
				row[name] = fmt.Sprint(values[i])
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// checkHeader rejects a sheet whose first row is not the timesheet header.
func checkHeader(header []string) error {
	if len(header) < len(attendance.Header) {
		return fmt.Errorf("%w: got %q", ErrHeaderMismatch, header)
	}
	for i, want := range attendance.Header {
		if !strings.EqualFold(header[i], want) {
			return fmt.Errorf("%w: column %s is %q, want %q", ErrHeaderMismatch, ColumnLetter(i+1), header[i], want)
		}
	}
	return nil
}

func (s *Store) AppendRow(ctx context.Context, values []string) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{toCells(values)}}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.columnsRange(), vr).
		ValueInputOption(valueInputRaw).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return classify("append row", err)
	}
	return nil
}

func (s *Store) UpdateCell(ctx context.Context, rowIndex int, columnIndex int, value string) error {
	if rowIndex < 1 || columnIndex < 1 {
		return fmt.Errorf("invalid cell %d,%d", rowIndex, columnIndex)
	}
	cell := fmt.Sprintf("%s!%s%d", quoteSheetName(s.sheetName), ColumnLetter(columnIndex), rowIndex)
	vr := &sheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, cell, vr).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return classify("update "+cell, err)
	}
	return nil
}

// WriteHeader writes the timesheet header into row 1.
func (s *Store) WriteHeader(ctx context.Context) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{toCells(attendance.Header)}}
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, quoteSheetName(s.sheetName)+"!A1", vr).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return classify("write header", err)
	}
	return nil
}

func (s *Store) columnsRange() string {
	return fmt.Sprintf("%s!A:%s", quoteSheetName(s.sheetName), ColumnLetter(len(attendance.Header)))
}

// quoteSheetName quotes a sheet name for A1 notation, doubling embedded quotes.
func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// ColumnLetter converts a 1-based column index to A1 notation (1 -> A, 27 -> AA).
func ColumnLetter(index int) string {
	var letters []byte
	for index > 0 {
		index--
		letters = append([]byte{byte('A' + index%26)}, letters...)
		index /= 26
	}
	return string(letters)
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

// classify marks rejected credentials as auth failures so the session is dropped.
func classify(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s: %w", auth.ErrAuth, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
