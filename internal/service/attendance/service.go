package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/employee"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/notification"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/session"
)

type AttendanceServiceImpl struct {
	sessions  session.Service
	stores    attendance.RecordStoreProvider
	employees employee.EmployeeService
	notifier  notification.Service
	location  *time.Location
}

func NewAttendanceService(
	sessions session.Service,
	stores attendance.RecordStoreProvider,
	employees employee.EmployeeService,
	notifier notification.Service,
	location *time.Location,
) attendance.AttendanceService {
	if location == nil {
		location = time.Local
	}
	return &AttendanceServiceImpl{
		sessions:  sessions,
		stores:    stores,
		employees: employees,
		notifier:  notifier,
		location:  location,
	}
}

// Perform implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Perform(ctx context.Context, sess session.Session, req attendance.ActionRequest) (attendance.ActionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ActionResponse{}, err
	}

	e, err := a.employees.Resolve(ctx, req.EmployeeName)
	if err != nil {
		return attendance.ActionResponse{}, err
	}

	store, rows, err := a.load(ctx, sess)
	if err != nil {
		return attendance.ActionResponse{}, err
	}

	at := req.At.In(a.location)
	current, err := attendance.FindLatest(rows, e.Name, at.Format(attendance.DateLayout))
	if err != nil {
		return attendance.ActionResponse{}, err
	}

	tr, err := attendance.Apply(current, e.Name, req.Action, at)
	if err != nil {
		slog.Info("Attendance action rejected",
			"employee_name", e.Name,
			"action", req.Action,
			"state", current.State(),
			"reason", err.Error(),
		)
		return attendance.ActionResponse{}, err
	}

	if tr.Append {
		if err := store.AppendRow(ctx, tr.Record.Values()); err != nil {
			return attendance.ActionResponse{}, a.storeError(ctx, sess, "append row", err)
		}
		tr.Record.RowIndex = attendance.RowIndex(len(rows))
	} else {
		for i, change := range tr.Changes {
			if err := store.UpdateCell(ctx, current.RowIndex, int(change.Column), change.Value); err != nil {
				a.restore(ctx, store, *current, tr.Changes[:i])
				return attendance.ActionResponse{}, a.storeError(ctx, sess, "update "+change.Column.Name(), err)
			}
		}
	}

	recordedAt := attendance.NewTimeOfDay(at).String()
	message := fmt.Sprintf("%s recorded for %s at %s", req.Action.Label(), e.Name, recordedAt)
	if tr.Record.HoursWorked != nil && req.Action == attendance.ActionCheckOut {
		message += fmt.Sprintf(" (%s hours worked)", attendance.FormatHours(*tr.Record.HoursWorked))
	}

	slog.Info("Attendance recorded",
		"employee_name", e.Name,
		"action", req.Action,
		"from", tr.From,
		"to", tr.To,
		"row", tr.Record.RowIndex,
	)

	a.notify(ctx, tr, recordedAt)

	if err := a.sessions.SetStatus(ctx, sess.ID, message); err != nil {
		slog.Warn("Failed to store status message", "session_id", sess.ID, "error", err)
	}

	return attendance.ActionResponse{
		Action:  req.Action,
		State:   tr.To,
		Message: message,
		Record:  attendance.NewRecordResponse(tr.Record),
	}, nil
}

// Today implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Today(ctx context.Context, sess session.Session, req attendance.TodayRequest) (attendance.TodayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.TodayResponse{}, err
	}

	e, err := a.employees.Resolve(ctx, req.EmployeeName)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	_, rows, err := a.load(ctx, sess)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	at := req.At
	if at.IsZero() {
		at = time.Now()
	}
	date := at.In(a.location).Format(attendance.DateLayout)

	current, err := attendance.FindLatest(rows, e.Name, date)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	state := current.State()
	resp := attendance.TodayResponse{
		EmployeeName:   e.Name,
		Date:           date,
		State:          state,
		AllowedActions: attendance.AllowedActions(state),
	}
	if current != nil {
		rec := attendance.NewRecordResponse(*current)
		resp.Record = &rec
	}
	return resp, nil
}

// load refreshes the session credential, opens the store and reads every row.
func (a *AttendanceServiceImpl) load(ctx context.Context, sess session.Session) (attendance.RecordStore, []attendance.Row, error) {
	cred, err := a.sessions.ActiveCredential(ctx, sess.ID)
	if err != nil {
		return nil, nil, err
	}

	store, err := a.stores.Open(ctx, cred)
	if err != nil {
		return nil, nil, a.storeError(ctx, sess, "open record store", err)
	}

	rows, err := store.FetchAll(ctx)
	if err != nil {
		return nil, nil, a.storeError(ctx, sess, "read records", err)
	}
	return store, rows, nil
}

// restore puts back the cells of an interrupted update so a failed action
// leaves the record as it was read. Restoration is best effort.
func (a *AttendanceServiceImpl) restore(ctx context.Context, store attendance.RecordStore, previous attendance.Record, written []attendance.FieldChange) {
	values := previous.Values()
	for i := len(written) - 1; i >= 0; i-- {
		column := written[i].Column
		if err := store.UpdateCell(ctx, previous.RowIndex, int(column), values[column-1]); err != nil {
			slog.Error("Failed to restore attendance cell",
				"employee_name", previous.EmployeeName,
				"row", previous.RowIndex,
				"column", column.Name(),
				"error", err,
			)
		}
	}
}

// storeError wraps a store failure. A rejected credential ends the session instead.
func (a *AttendanceServiceImpl) storeError(ctx context.Context, sess session.Session, op string, err error) error {
	if errors.Is(err, auth.ErrAuth) {
		if signOutErr := a.sessions.SignOut(ctx, sess.ID); signOutErr != nil {
			slog.Error("Failed to destroy session after auth failure", "session_id", sess.ID, "error", signOutErr)
		}
		return err
	}
	slog.Error("Record store failure", "op", op, "session_id", sess.ID, "error", err)
	return fmt.Errorf("%w: %s: %w", attendance.ErrStore, op, err)
}

func (a *AttendanceServiceImpl) notify(ctx context.Context, tr attendance.Transition, recordedAt string) {
	if a.notifier == nil {
		return
	}
	event := notification.Event{
		Type:         notification.EventType(tr.Action),
		Label:        tr.Action.Label(),
		EmployeeName: tr.Record.EmployeeName,
		Date:         tr.Record.Date,
		Time:         recordedAt,
		State:        tr.To.String(),
	}
	if tr.Action == attendance.ActionCheckOut {
		event.HoursWorked = tr.Record.HoursWorked
	}
	if err := a.notifier.Notify(ctx, event); err != nil {
		slog.Warn("Failed to queue notification", "employee_name", event.EmployeeName, "type", event.Type, "error", err)
	}
}
