package employee

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Roster(t *testing.T) {
	svc := NewEmployeeService([]string{"Alice", " Bob ", "alice", ""})
	ctx := context.Background()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.False(t, list.OpenRoster)
	assert.Equal(t, []employee.EmployeeResponse{{Name: "Alice"}, {Name: "Bob"}}, list.Employees)

	e, err := svc.Resolve(ctx, "  bob")
	require.NoError(t, err)
	assert.Equal(t, "Bob", e.Name)

	_, err = svc.Resolve(ctx, "Carol")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestResolve_OpenRoster(t *testing.T) {
	svc := NewEmployeeService(nil)
	ctx := context.Background()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.True(t, list.OpenRoster)
	assert.Empty(t, list.Employees)

	e, err := svc.Resolve(ctx, " Dana ")
	require.NoError(t, err)
	assert.Equal(t, "Dana", e.Name)

	_, err = svc.Resolve(ctx, "   ")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
