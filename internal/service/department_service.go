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

// DepartmentService manages departments and their views.
type DepartmentService struct {
	store      repository.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewDepartmentService constructs the service.
func NewDepartmentService(deps Dependencies) *DepartmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{store: deps.Store, dispatcher: deps.Dispatcher, logger: logger}
}

// ListDepartments returns every department with its employees.
func (s *DepartmentService) ListDepartments(ctx context.Context) ([]dto.DepartmentView, error) {
	departments, err := s.store.Departments().FindAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return lo.Map(departments, func(d domain.Department, _ int) dto.DepartmentView {
		return departmentView(d)
	}), nil
}

// GetDepartment fetches a department with its employees.
func (s *DepartmentService) GetDepartment(ctx context.Context, id string) (*dto.DepartmentView, error) {
	dept, err := s.store.Departments().FindByID(ctx, id)
	if err != nil {
		return nil, departmentLookupError(err, id)
	}
	view := departmentView(*dept)
	return &view, nil
}

// CreateDepartment creates a new, empty department.
func (s *DepartmentService) CreateDepartment(ctx context.Context, input dto.DepartmentInput) (*dto.DepartmentView, error) {
	if err := ValidateDepartment(input); err != nil {
		return nil, err
	}

	dept := &domain.Department{
		ID:       strings.TrimSpace(input.ID),
		Name:     strings.TrimSpace(input.Name),
		Location: strings.TrimSpace(input.Location),
	}
	if dept.ID == "" {
		dept.ID = uuid.NewString()
	}

	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		exists, err := repos.Departments.ExistsByID(ctx, dept.ID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.NewConflict("department already exists with id: "+dept.ID, map[string]any{"id": dept.ID})
		}
		return repos.Departments.Save(ctx, dept)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	dept.Employees = []domain.Employee{}
	view := departmentView(*dept)
	if s.dispatcher != nil {
		if err := s.dispatcher.Publish(ctx, events.NewEvent(events.EventDepartmentCreated, dept.ID, view)); err != nil {
			s.logger.Warn("event handlers failed", zap.String("department_id", dept.ID), zap.Error(err))
		}
	}
	return &view, nil
}
