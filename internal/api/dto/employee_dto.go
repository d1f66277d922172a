package dto

// EmployeeInput is the payload for creating or updating an employee.
type EmployeeInput struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Email    string  `json:"email" yaml:"email"`
	Position string  `json:"position" yaml:"position"`
	Salary   float64 `json:"salary" yaml:"salary"`
}

// EmployeeView is the external representation of an employee. Department
// carries the owning department's name.
type EmployeeView struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Position   string  `json:"position"`
	Salary     float64 `json:"salary"`
	Department string  `json:"department"`
}
