package attendance

import (
	"time"

	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/validator"
)

// ActionRequest records one action for an employee at a moment in time.
type ActionRequest struct {
	Action       Action    `json:"-"`
	EmployeeName string    `json:"employee_name"`
	At           time.Time `json:"-"`
}

func (r *ActionRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Action.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be one of: check_in, break_start, break_end, check_out",
		})
	}

	errs = append(errs, validateEmployeeName(r.EmployeeName)...)

	if r.At.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "at",
			Message: "timestamp is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TodayRequest struct {
	EmployeeName string    `json:"employee_name"`
	At           time.Time `json:"-"`
}

func (r *TodayRequest) Validate() error {
	errs := validateEmployeeName(r.EmployeeName)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateEmployeeName(name string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if validator.IsEmpty(name) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_name",
			Message: "employee_name is required",
		})
	} else if !validator.IsValidEmployeeName(name) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_name",
			Message: "employee_name must be at most 100 printable characters",
		})
	}
	return errs
}

type RecordResponse struct {
	RowIndex     int      `json:"row_index"`
	EmployeeName string   `json:"employee_name"`
	Date         string   `json:"date"`
	CheckIn      *string  `json:"check_in,omitempty"`
	CheckOut     *string  `json:"check_out,omitempty"`
	BreakStart   *string  `json:"break_start,omitempty"`
	BreakEnd     *string  `json:"break_end,omitempty"`
	HoursWorked  *float64 `json:"hours_worked,omitempty"`
	Week         int      `json:"week"`
}

type ActionResponse struct {
	Action  Action         `json:"action"`
	State   State          `json:"state"`
	Message string         `json:"message"`
	Record  RecordResponse `json:"record"`
}

type TodayResponse struct {
	EmployeeName   string          `json:"employee_name"`
	Date           string          `json:"date"`
	State          State           `json:"state"`
	AllowedActions []Action        `json:"allowed_actions"`
	Record         *RecordResponse `json:"record,omitempty"`
}

// NewRecordResponse maps a record to its API form.
func NewRecordResponse(r Record) RecordResponse {
	return RecordResponse{
		RowIndex:     r.RowIndex,
		EmployeeName: r.EmployeeName,
		Date:         r.Date,
		CheckIn:      timeString(r.CheckIn),
		CheckOut:     timeString(r.CheckOut),
		BreakStart:   timeString(r.BreakStart),
		BreakEnd:     timeString(r.BreakEnd),
		HoursWorked:  r.HoursWorked,
		Week:         r.Week,
	}
}

func timeString(t *TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}
