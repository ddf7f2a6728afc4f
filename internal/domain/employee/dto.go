package employee

import "github.com/cmlabs-hris/timesheet-portal/internal/pkg/validator"

type SelectEmployeeRequest struct {
	EmployeeName string `json:"employee_name"`
}

func (r *SelectEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeName) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_name",
			Message: "employee_name is required",
		})
	} else if !validator.IsValidEmployeeName(r.EmployeeName) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_name",
			Message: "employee_name must be at most 100 printable characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	Name string `json:"name"`
}

type ListEmployeeResponse struct {
	Employees []EmployeeResponse `json:"employees"`
	// OpenRoster is true when any name is accepted.
	OpenRoster bool `json:"open_roster"`
}
