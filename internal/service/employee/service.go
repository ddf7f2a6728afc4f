package employee

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/employee"
)

type EmployeeServiceImpl struct {
	roster []employee.Employee
}

// NewEmployeeService builds the directory from the configured roster. An empty
// roster accepts any name.
func NewEmployeeService(names []string) employee.EmployeeService {
	roster := make([]employee.Employee, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		roster = append(roster, employee.Employee{Name: name})
	}
	return &EmployeeServiceImpl{roster: roster}
}

func (s *EmployeeServiceImpl) List(ctx context.Context) (employee.ListEmployeeResponse, error) {
	resp := employee.ListEmployeeResponse{
		Employees:  make([]employee.EmployeeResponse, 0, len(s.roster)),
		OpenRoster: len(s.roster) == 0,
	}
	for _, e := range s.roster {
		resp.Employees = append(resp.Employees, employee.EmployeeResponse{Name: e.Name})
	}
	return resp, nil
}

func (s *EmployeeServiceImpl) Resolve(ctx context.Context, name string) (employee.Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if len(s.roster) == 0 {
		return employee.Employee{Name: name}, nil
	}
	for _, e := range s.roster {
		if e.Matches(name) {
			return e, nil
		}
	}
	return employee.Employee{}, fmt.Errorf("%w: %s", employee.ErrEmployeeNotFound, name)
}
