package domain

import "time"

// Employee is a persisted staff record. DepartmentID is a non-owning reference.
type Employee struct {
	ID           string
	DepartmentID string
	Name         string
	Email        string
	Position     string
	Salary       float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
