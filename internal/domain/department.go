package domain

import "time"

// Department groups employees. Employees is populated by lookups that resolve membership.
type Department struct {
	ID        string
	Name      string
	Location  string
	Employees []Employee
	CreatedAt time.Time
	UpdatedAt time.Time
}
