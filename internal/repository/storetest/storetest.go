// Package storetest holds behaviour checks shared by every repository.Store backend.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finclutech/employee-service/internal/domain"
	"github.com/finclutech/employee-service/internal/repository"
)

// Run exercises a fresh store returned by newStore for each subtest.
func Run(t *testing.T, newStore func(t *testing.T) repository.Store) {
	t.Run("department round trip", func(t *testing.T) { departmentRoundTrip(t, newStore(t)) })
	t.Run("employee lifecycle", func(t *testing.T) { employeeLifecycle(t, newStore(t)) })
	t.Run("unique email", func(t *testing.T) { uniqueEmail(t, newStore(t)) })
	t.Run("insertion order", func(t *testing.T) { insertionOrder(t, newStore(t)) })
	t.Run("rollback", func(t *testing.T) { rollback(t, newStore(t)) })
	t.Run("department names", func(t *testing.T) { departmentNames(t, newStore(t)) })
}

func seedDepartment(t *testing.T, store repository.Store, id, name string) {
	t.Helper()
	require.NoError(t, store.Departments().Save(context.Background(), &domain.Department{ID: id, Name: name, Location: "HQ"}))
}

func employee(id, deptID, email string) *domain.Employee {
	return &domain.Employee{ID: id, DepartmentID: deptID, Name: "Name " + id, Email: email, Position: "Engineer", Salary: 1000}
}

func departmentRoundTrip(t *testing.T, store repository.Store) {
	ctx := context.Background()
	seedDepartment(t, store, "D1", "Engineering")

	dept, err := store.Departments().FindByID(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, "Engineering", dept.Name)
	assert.Equal(t, "HQ", dept.Location)
	assert.NotNil(t, dept.Employees)
	assert.Empty(t, dept.Employees)
	assert.False(t, dept.CreatedAt.IsZero())

	exists, err := store.Departments().ExistsByID(ctx, "D1")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = store.Departments().FindByID(ctx, "D2")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func employeeLifecycle(t *testing.T, store repository.Store) {
	ctx := context.Background()
	seedDepartment(t, store, "D1", "Engineering")

	e := employee("E1", "D1", "e1@example.com")
	require.NoError(t, store.Employees().Save(ctx, e))
	assert.False(t, e.CreatedAt.IsZero())

	got, err := store.Employees().FindByID(ctx, "E1")
	require.NoError(t, err)
	assert.Equal(t, "e1@example.com", got.Email)
	assert.Equal(t, "D1", got.DepartmentID)

	got.Salary = 2000
	require.NoError(t, store.Employees().Save(ctx, got))
	again, err := store.Employees().FindByID(ctx, "E1")
	require.NoError(t, err)
	assert.Equal(t, 2000.0, again.Salary)

	byEmail, err := store.Employees().ExistsByEmail(ctx, "e1@example.com")
	require.NoError(t, err)
	assert.True(t, byEmail)

	dept, err := store.Departments().FindByID(ctx, "D1")
	require.NoError(t, err)
	require.Len(t, dept.Employees, 1)

	require.NoError(t, store.Employees().DeleteByID(ctx, "E1"))
	_, err = store.Employees().FindByID(ctx, "E1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, store.Employees().DeleteByID(ctx, "E1"), repository.ErrNotFound)
}

func uniqueEmail(t *testing.T, store repository.Store) {
	ctx := context.Background()
	seedDepartment(t, store, "D1", "Engineering")

	require.NoError(t, store.Employees().Save(ctx, employee("E1", "D1", "same@example.com")))
	err := store.Employees().Save(ctx, employee("E2", "D1", "same@example.com"))
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	all, err := store.Employees().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func insertionOrder(t *testing.T, store repository.Store) {
	ctx := context.Background()
	seedDepartment(t, store, "D1", "Engineering")
	seedDepartment(t, store, "D2", "Finance")

	for _, e := range []*domain.Employee{
		employee("E1", "D1", "e1@example.com"),
		employee("E2", "D2", "e2@example.com"),
		employee("E3", "D1", "e3@example.com"),
	} {
		require.NoError(t, store.Employees().Save(ctx, e))
	}

	all, err := store.Employees().FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"E1", "E2", "E3"}, ids(all))

	inD1, err := store.Employees().FindByDepartment(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, []string{"E1", "E3"}, ids(inD1))

	depts, err := store.Departments().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, depts, 2)
	assert.Equal(t, "D1", depts[0].ID)
	assert.Equal(t, []string{"E2"}, ids(depts[1].Employees))
}

func rollback(t *testing.T, store repository.Store) {
	ctx := context.Background()
	seedDepartment(t, store, "D1", "Engineering")
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(repos repository.Repositories) error {
		if err := repos.Employees.Save(ctx, employee("E1", "D1", "e1@example.com")); err != nil {
			return err
		}
		if err := repos.Departments.Save(ctx, &domain.Department{ID: "D2", Name: "Finance"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, err := store.Employees().ExistsByID(ctx, "E1")
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = store.Departments().ExistsByID(ctx, "D2")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.WithinTx(ctx, func(repos repository.Repositories) error {
		return repos.Employees.Save(ctx, employee("E1", "D1", "e1@example.com"))
	}))
	exists, err = store.Employees().ExistsByID(ctx, "E1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func departmentNames(t *testing.T, store repository.Store) {
	ctx := context.Background()

	names, err := store.Departments().Names(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	seedDepartment(t, store, "D1", "Engineering")
	seedDepartment(t, store, "D2", "Finance")
	require.NoError(t, store.Employees().Save(ctx, employee("E1", "D1", "e1@example.com")))

	names, err = store.Departments().Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"D1": "Engineering", "D2": "Finance"}, names)
}

func ids(employees []domain.Employee) []string {
	out := make([]string, 0, len(employees))
	for _, e := range employees {
		out = append(out, e.ID)
	}
	return out
}
