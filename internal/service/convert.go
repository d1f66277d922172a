package service

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/finclutech/employee-service/internal/api/dto"
	"github.com/finclutech/employee-service/internal/domain"
	apperrors "github.com/finclutech/employee-service/pkg/util/errorutil"
)

func employeeView(e domain.Employee, departmentName string) dto.EmployeeView {
	return dto.EmployeeView{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Position:   e.Position,
		Salary:     e.Salary,
		Department: departmentName,
	}
}

func departmentView(d domain.Department) dto.DepartmentView {
	return dto.DepartmentView{
		ID:       d.ID,
		Name:     d.Name,
		Location: d.Location,
		Employees: lo.Map(d.Employees, func(e domain.Employee, _ int) dto.EmployeeView {
			return employeeView(e, d.Name)
		}),
	}
}

// employeeViews resolves each employee's department name. An employee whose
// department is absent is a broken invariant and reported as an internal error.
func employeeViews(employees []domain.Employee, departmentNames map[string]string) ([]dto.EmployeeView, error) {
	views := make([]dto.EmployeeView, 0, len(employees))
	for _, e := range employees {
		name, ok := departmentNames[e.DepartmentID]
		if !ok {
			return nil, danglingDepartment(e)
		}
		views = append(views, employeeView(e, name))
	}
	return views, nil
}

func danglingDepartment(e domain.Employee) error {
	return apperrors.NewInternalError(fmt.Errorf("employee %s references missing department %q", e.ID, e.DepartmentID))
}
