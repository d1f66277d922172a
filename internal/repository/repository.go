package repository

import (
	"context"

	"github.com/finclutech/employee-service/internal/domain"
	apperrors "github.com/finclutech/employee-service/pkg/util/errorutil"
)

// Errors every backend translates its native failures into.
var (
	ErrNotFound  = apperrors.ErrRecordNotFound
	ErrDuplicate = apperrors.ErrDuplicateKey
)

// EmployeeRepository manages employee persistence.
type EmployeeRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Employee, error)
	FindAll(ctx context.Context) ([]domain.Employee, error)
	FindByDepartment(ctx context.Context, departmentID string) ([]domain.Employee, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Save inserts the employee or overwrites the row with the same id.
	Save(ctx context.Context, employee *domain.Employee) error
	DeleteByID(ctx context.Context, id string) error
}

// DepartmentRepository manages department persistence.
type DepartmentRepository interface {
	// FindByID returns the department with its employees populated.
	FindByID(ctx context.Context, id string) (*domain.Department, error)
	FindAll(ctx context.Context) ([]domain.Department, error)
	// Names maps every department id to its name without loading employees.
	Names(ctx context.Context) (map[string]string, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	Save(ctx context.Context, dept *domain.Department) error
}

// Repositories bundles the gateways bound to one unit of work.
type Repositories struct {
	Employees   EmployeeRepository
	Departments DepartmentRepository
}

// Store exposes the gateways and a scoped transaction boundary.
type Store interface {
	Employees() EmployeeRepository
	Departments() DepartmentRepository
	// WithinTx runs fn against transactional repositories, committing when fn
	// returns nil and rolling back otherwise. fn's error is returned unchanged.
	WithinTx(ctx context.Context, fn func(Repositories) error) error
	Ping(ctx context.Context) error
}
