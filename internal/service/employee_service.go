package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/finclutech/employee-service/internal/api/dto"
	"github.com/finclutech/employee-service/internal/domain"
	"github.com/finclutech/employee-service/internal/events"
	"github.com/finclutech/employee-service/internal/repository"
	apperrors "github.com/finclutech/employee-service/pkg/util/errorutil"
)

// EmployeeService orchestrates employee lookups, validation and persistence.
type EmployeeService struct {
	store      repository.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// Dependencies encapsulates collaborators shared by the services.
type Dependencies struct {
	Store      repository.Store
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewEmployeeService constructs the service.
func NewEmployeeService(deps Dependencies) *EmployeeService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// ListAllEmployees returns every employee in store order.
func (s *EmployeeService) ListAllEmployees(ctx context.Context) ([]dto.EmployeeView, error) {
	employees, err := s.store.Employees().FindAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	names, err := s.store.Departments().Names(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return employeeViews(employees, names)
}

// ListEmployeesByDepartment returns the employees of one department.
func (s *EmployeeService) ListEmployeesByDepartment(ctx context.Context, departmentID string) ([]dto.EmployeeView, error) {
	dept, err := s.store.Departments().FindByID(ctx, departmentID)
	if err != nil {
		return nil, departmentLookupError(err, departmentID)
	}
	return lo.Map(dept.Employees, func(e domain.Employee, _ int) dto.EmployeeView {
		return employeeView(e, dept.Name)
	}), nil
}

// GetEmployeeByID fetches a single employee.
func (s *EmployeeService) GetEmployeeByID(ctx context.Context, employeeID string) (*dto.EmployeeView, error) {
	employee, err := s.store.Employees().FindByID(ctx, employeeID)
	if err != nil {
		return nil, employeeLookupError(err, employeeID)
	}
	view, err := s.resolveView(ctx, s.store.Departments(), *employee)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// AddEmployee validates input and creates the employee under departmentID in
// one transaction. The supplied id is kept; a blank id is replaced by a uuid.
func (s *EmployeeService) AddEmployee(ctx context.Context, departmentID string, input dto.EmployeeInput) (*dto.EmployeeView, error) {
	var view dto.EmployeeView
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		if err := ValidateEmployee(input); err != nil {
			return err
		}

		taken, err := repos.Employees.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.NewConflict("employee already exists with email: "+input.Email, map[string]any{"email": input.Email})
		}

		dept, err := repos.Departments.FindByID(ctx, departmentID)
		if err != nil {
			return departmentLookupError(err, departmentID)
		}

		employee := &domain.Employee{
			ID:           input.ID,
			DepartmentID: dept.ID,
			Name:         input.Name,
			Email:        input.Email,
			Position:     input.Position,
			Salary:       input.Salary,
		}
		if strings.TrimSpace(employee.ID) == "" {
			employee.ID = uuid.NewString()
		} else if exists, err := repos.Employees.ExistsByID(ctx, employee.ID); err != nil {
			return err
		} else if exists {
			return apperrors.NewConflict("employee already exists with id: "+employee.ID, map[string]any{"id": employee.ID})
		}

		if err := repos.Employees.Save(ctx, employee); err != nil {
			return err
		}
		view = employeeView(*employee, dept.Name)
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventEmployeeCreated, view.ID, view))
	return &view, nil
}

// UpdateEmployee overwrites name, email, position and salary. Input is not
// re-validated and the department link is left untouched.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, employeeID string, input dto.EmployeeInput) (*dto.EmployeeView, error) {
	employee, err := s.store.Employees().FindByID(ctx, employeeID)
	if err != nil {
		return nil, employeeLookupError(err, employeeID)
	}

	employee.Name = input.Name
	employee.Email = input.Email
	employee.Position = input.Position
	employee.Salary = input.Salary

	if err := s.store.Employees().Save(ctx, employee); err != nil {
		if apperrors.IsConflict(err) {
			return nil, apperrors.NewConflict("employee already exists with email: "+input.Email, map[string]any{"email": input.Email})
		}
		return nil, apperrors.MapError(err)
	}

	view, err := s.resolveView(ctx, s.store.Departments(), *employee)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewEvent(events.EventEmployeeUpdated, view.ID, view))
	return &view, nil
}

// DeleteEmployee removes an employee permanently.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, employeeID string) error {
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		exists, err := repos.Employees.ExistsByID(ctx, employeeID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.NewNotFound("employee", map[string]any{"id": employeeID})
		}
		return repos.Employees.DeleteByID(ctx, employeeID)
	})
	if err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventEmployeeDeleted, employeeID, events.EmployeeDeletedPayload{EmployeeID: employeeID}))
	return nil
}

func (s *EmployeeService) resolveView(ctx context.Context, departments repository.DepartmentRepository, e domain.Employee) (dto.EmployeeView, error) {
	dept, err := departments.FindByID(ctx, e.DepartmentID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return dto.EmployeeView{}, danglingDepartment(e)
		}
		return dto.EmployeeView{}, apperrors.MapError(err)
	}
	return employeeView(e, dept.Name), nil
}

func (s *EmployeeService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed",
			zap.String("event_type", string(event.Type)),
			zap.String("entity_id", event.EntityID),
			zap.Error(err))
	}
}

func employeeLookupError(err error, id string) error {
	if apperrors.IsNotFound(err) {
		return apperrors.NewNotFound("employee", map[string]any{"id": id})
	}
	return apperrors.MapError(err)
}

func departmentLookupError(err error, id string) error {
	if apperrors.IsNotFound(err) {
		return apperrors.NewNotFound("department", map[string]any{"id": id})
	}
	return apperrors.MapError(err)
}
