package employee

import "context"

// EmployeeService resolves the identities a user may act as.
type EmployeeService interface {
	List(ctx context.Context) (ListEmployeeResponse, error)

	// Resolve returns the canonical employee for name, or ErrEmployeeNotFound.
	Resolve(ctx context.Context, name string) (Employee, error)
}
