package employee

import "strings"

// Employee is an identity a signed-in user can record attendance as.
type Employee struct {
	Name string
}

// Matches compares names the way the timesheet does: trimmed and case-insensitive.
func (e Employee) Matches(name string) bool {
	return strings.EqualFold(strings.TrimSpace(e.Name), strings.TrimSpace(name))
}
