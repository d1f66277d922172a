// Package seed loads departments and employees from a YAML fixture.
package seed

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/finclutech/employee-service/internal/api/dto"
	"github.com/finclutech/employee-service/internal/service"
	apperrors "github.com/finclutech/employee-service/pkg/util/errorutil"
)

// File is the fixture layout.
type File struct {
	Departments []Department `yaml:"departments"`
}

// Department is one fixture department with its employees.
type Department struct {
	dto.DepartmentInput `yaml:",inline"`
	Employees           []dto.EmployeeInput `yaml:"employees"`
}

// Result counts what Apply created or skipped.
type Result struct {
	DepartmentsCreated int
	DepartmentsSkipped int
	EmployeesCreated   int
	EmployeesSkipped   int
}

// Load decodes a fixture.
func Load(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &f, nil
}

// Seeder applies fixtures through the services so the usual validation runs.
type Seeder struct {
	departments *service.DepartmentService
	employees   *service.EmployeeService
	logger      *zap.Logger
}

// NewSeeder constructs a seeder.
func NewSeeder(departments *service.DepartmentService, employees *service.EmployeeService, logger *zap.Logger) *Seeder {
	return &Seeder{departments: departments, employees: employees, logger: logger}
}

// Apply creates missing departments and employees. Existing departments and
// employees whose email is already taken are skipped, so reruns are safe.
func (s *Seeder) Apply(ctx context.Context, f *File) (Result, error) {
	var res Result
	for _, d := range f.Departments {
		deptID := d.ID
		if deptID == "" {
			return res, fmt.Errorf("seed department %q: id is required", d.Name)
		}

		if _, err := s.departments.GetDepartment(ctx, deptID); err == nil {
			res.DepartmentsSkipped++
		} else if apperrors.IsNotFound(err) {
			if _, err := s.departments.CreateDepartment(ctx, d.DepartmentInput); err != nil {
				return res, fmt.Errorf("seed department %s: %w", deptID, err)
			}
			res.DepartmentsCreated++
		} else {
			return res, err
		}

		for _, e := range d.Employees {
			_, err := s.employees.AddEmployee(ctx, deptID, e)
			switch {
			case err == nil:
				res.EmployeesCreated++
			case apperrors.IsConflict(err):
				s.logger.Info("employee already present", zap.String("email", e.Email), zap.String("department_id", deptID))
				res.EmployeesSkipped++
			default:
				return res, fmt.Errorf("seed employee %s: %w", e.Email, err)
			}
		}
	}
	return res, nil
}
