package dto

// DepartmentInput is the payload for creating a department.
type DepartmentInput struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Location string `json:"location" yaml:"location"`
}

// DepartmentView embeds the department's employees.
type DepartmentView struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Location  string         `json:"location"`
	Employees []EmployeeView `json:"employees"`
}
