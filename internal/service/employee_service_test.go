package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/finclutech/employee-service/internal/api/dto"
	"github.com/finclutech/employee-service/internal/domain"
	"github.com/finclutech/employee-service/internal/events"
	"github.com/finclutech/employee-service/internal/repository"
	"github.com/finclutech/employee-service/internal/repository/memstore"
	apperrors "github.com/finclutech/employee-service/pkg/util/errorutil"
)

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return d.err
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store       *memstore.Store
	dispatcher  *recordingDispatcher
	employees   *EmployeeService
	departments *DepartmentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: memstore.New(), dispatcher: &recordingDispatcher{}}
	deps := Dependencies{Store: f.store, Dispatcher: f.dispatcher, Logger: zaptest.NewLogger(t)}
	f.employees = NewEmployeeService(deps)
	f.departments = NewDepartmentService(deps)

	_, err := f.departments.CreateDepartment(context.Background(), dto.DepartmentInput{ID: "D1", Name: "Engineering", Location: "Berlin"})
	require.NoError(t, err)
	f.dispatcher.events = nil
	return f
}

func validInput(id, email string) dto.EmployeeInput {
	return dto.EmployeeInput{ID: id, Name: "Ada Lovelace", Email: email, Position: "Engineer", Salary: 50000}
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected domain error, got %v", err)
	return domainErr.Code
}

func TestAddThenGetEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.employees.AddEmployee(ctx, "D1", validInput("E1", "ada@example.com"))
	require.NoError(t, err)
	assert.Equal(t, dto.EmployeeView{
		ID: "E1", Name: "Ada Lovelace", Email: "ada@example.com", Position: "Engineer", Salary: 50000, Department: "Engineering",
	}, *created)

	got, err := f.employees.GetEmployeeByID(ctx, "E1")
	require.NoError(t, err)
	assert.Equal(t, *created, *got)
	assert.Equal(t, []events.EventType{events.EventEmployeeCreated}, f.dispatcher.types())
}

func TestAddEmployeeGeneratesIDWhenBlank(t *testing.T) {
	f := newFixture(t)

	created, err := f.employees.AddEmployee(context.Background(), "D1", validInput("  ", "ada@example.com"))
	require.NoError(t, err)
	assert.Len(t, created.ID, 36)
}

func TestAddEmployeeKeepsSuppliedIDVerbatim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.employees.AddEmployee(ctx, "D1", validInput(" E1", "ada@example.com"))
	require.NoError(t, err)
	assert.Equal(t, " E1", created.ID)

	got, err := f.employees.GetEmployeeByID(ctx, " E1")
	require.NoError(t, err)
	assert.Equal(t, " E1", got.ID)

	_, err = f.employees.GetEmployeeByID(ctx, "E1")
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestAddEmployeeRejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.employees.AddEmployee(ctx, "D1", validInput("E1", "ada@example.com"))
	require.NoError(t, err)

	_, err = f.employees.AddEmployee(ctx, "D1", validInput("E2", "ada@example.com"))
	assert.Equal(t, "CONFLICT", domainCode(t, err))
	assert.Contains(t, err.Error(), "employee already exists with email: ada@example.com")

	// the email check runs before the department lookup
	_, err = f.employees.AddEmployee(ctx, "missing", validInput("E3", "ada@example.com"))
	assert.Equal(t, "CONFLICT", domainCode(t, err))

	all, err := f.employees.ListAllEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAddEmployeeRejectsExistingID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.employees.AddEmployee(ctx, "D1", validInput("E1", "ada@example.com"))
	require.NoError(t, err)

	_, err = f.employees.AddEmployee(ctx, "D1", validInput("E1", "other@example.com"))
	assert.Equal(t, "CONFLICT", domainCode(t, err))

	got, err := f.employees.GetEmployeeByID(ctx, "E1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Email)
}

func TestAddEmployeeUnknownDepartment(t *testing.T) {
	f := newFixture(t)

	_, err := f.employees.AddEmployee(context.Background(), "nope", validInput("E1", "ada@example.com"))
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
	assert.Contains(t, err.Error(), "department not found")
	assert.Empty(t, f.dispatcher.types())
}

func TestAddEmployeeReportsEveryValidationFailure(t *testing.T) {
	f := newFixture(t)

	_, err := f.employees.AddEmployee(context.Background(), "D1", dto.EmployeeInput{ID: "E1", Email: "not-an-email", Salary: 0})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Equal(t, map[string]any{
		"name":     "Name is required",
		"email":    "Valid email is required",
		"position": "Position is required",
		"salary":   "Salary must be greater than 0",
	}, domainErr.Details)

	exists, err := f.store.Employees().ExistsByID(context.Background(), "E1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetEmployeeNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.employees.GetEmployeeByID(context.Background(), "ghost")
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
	assert.Equal(t, "employee not found", err.Error())
}

func TestListEmployeesByDepartment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.departments.CreateDepartment(ctx, dto.DepartmentInput{ID: "D2", Name: "Finance"})
	require.NoError(t, err)
	_, err = f.employees.AddEmployee(ctx, "D1", validInput("E1", "ada@example.com"))
	require.NoError(t, err)
	_, err = f.employees.AddEmployee(ctx, "D1", validInput("E2", "grace@example.com"))
	require.NoError(t, err)

	views, err := f.employees.ListEmployeesByDepartment(ctx, "D1")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "E1", views[0].ID)
	assert.Equal(t, "E2", views[1].ID)

	empty, err := f.employees.ListEmployeesByDepartment(ctx, "D2")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = f.employees.ListEmployeesByDepartment(ctx, "D9")
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestListAllEmployeesResolvesDepartmentNames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	all, err := f.employees.ListAllEmployees(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	_, err = f.departments.CreateDepartment(ctx, dto.DepartmentInput{ID: "D2", Name: "Finance"})
	require.NoError(t, err)
	_, err = f.employees.AddEmployee(ctx, "D1", validInput("E1", "ada@example.com"))
	require.NoError(t, err)
	_, err = f.employees.AddEmployee(ctx, "D2", validInput("E2", "grace@example.com"))
	require.NoError(t, err)

	all, err = f.employees.ListAllEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Engineering", all[0].Department)
	assert.Equal(t, "Finance", all[1].Department)
}

func TestUpdateEmployeeOverwritesMutableFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.employees.AddEmployee(ctx, "D1", validInput("E1", "ada@example.com"))
	require.NoError(t, err)

	updated, err := f.employees.UpdateEmployee(ctx, "E1", dto.EmployeeInput{
		ID: "ignored", Name: "Ada King", Email: "ada@example.com", Position: "Lead", Salary: 60000,
	})
	require.NoError(t, err)
	assert.Equal(t, "E1", updated.ID)
	assert.Equal(t, "Ada King", updated.Name)
	assert.Equal(t, "Lead", updated.Position)
	assert.Equal(t, 60000.0, updated.Salary)
	assert.Equal(t, "Engineering", updated.Department)

	stored, err := f.store.Employees().FindByID(ctx, "E1")
	require.NoError(t, err)
	assert.Equal(t, "D1", stored.DepartmentID)
	assert.Equal(t, []events.EventType{events.EventEmployeeCreated, events.EventEmployeeUpdated}, f.dispatcher.types())
}

func TestUpdateEmployeeNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.employees.UpdateEmployee(context.Background(), "ghost", validInput("", "ghost@example.com"))
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestUpdateEmployeeEmailCollision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.employees.AddEmployee(ctx, "D1", validInput("E1", "ada@example.com"))
	require.NoError(t, err)
	_, err = f.employees.AddEmployee(ctx, "D1", validInput("E2", "grace@example.com"))
	require.NoError(t, err)

	_, err = f.employees.UpdateEmployee(ctx, "E2", validInput("", "ada@example.com"))
	assert.Equal(t, "CONFLICT", domainCode(t, err))
}

func TestDeleteEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.employees.AddEmployee(ctx, "D1", validInput("E1", "ada@example.com"))
	require.NoError(t, err)

	require.NoError(t, f.employees.DeleteEmployee(ctx, "E1"))

	_, err = f.employees.GetEmployeeByID(ctx, "E1")
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))

	err = f.employees.DeleteEmployee(ctx, "E1")
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))

	assert.Equal(t, []events.EventType{events.EventEmployeeCreated, events.EventEmployeeDeleted}, f.dispatcher.types())
}

func TestHandlerFailureDoesNotFailOperation(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.err = errors.New("redis down")

	_, err := f.employees.AddEmployee(context.Background(), "D1", validInput("E1", "ada@example.com"))
	require.NoError(t, err)
}

type failingSaveStore struct {
	repository.Store
}

func (s failingSaveStore) WithinTx(ctx context.Context, fn func(repository.Repositories) error) error {
	return s.Store.WithinTx(ctx, func(repos repository.Repositories) error {
		repos.Employees = failingSave{repos.Employees}
		return fn(repos)
	})
}

type failingSave struct {
	repository.EmployeeRepository
}

func (failingSave) Save(context.Context, *domain.Employee) error {
	return errors.New("disk full")
}

func TestAddEmployeeStorageFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	svc := NewEmployeeService(Dependencies{Store: failingSaveStore{f.store}, Dispatcher: f.dispatcher})

	_, err := svc.AddEmployee(context.Background(), "D1", validInput("E1", "ada@example.com"))
	assert.Equal(t, "INTERNAL_ERROR", domainCode(t, err))
	assert.Empty(t, f.dispatcher.types())

	exists, err := f.store.Employees().ExistsByID(context.Background(), "E1")
	require.NoError(t, err)
	assert.False(t, exists)
}
