package service

import (
	"regexp"
	"strings"

	"github.com/finclutech/employee-service/internal/api/dto"
	apperrors "github.com/finclutech/employee-service/pkg/util/errorutil"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)

// ValidateEmployee checks every rule and reports all violations at once.
func ValidateEmployee(input dto.EmployeeInput) error {
	errs := map[string]any{}

	if strings.TrimSpace(input.Name) == "" {
		errs["name"] = "Name is required"
	}
	if !emailPattern.MatchString(input.Email) {
		errs["email"] = "Valid email is required"
	}
	if strings.TrimSpace(input.Position) == "" {
		errs["position"] = "Position is required"
	}
	if input.Salary <= 0 {
		errs["salary"] = "Salary must be greater than 0"
	}

	if len(errs) > 0 {
		return apperrors.NewValidationError("employee validation failed", errs)
	}
	return nil
}

// ValidateDepartment requires a non-blank name.
func ValidateDepartment(input dto.DepartmentInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.NewValidationError("department validation failed", map[string]any{
			"name": "Name is required",
		})
	}
	return nil
}
