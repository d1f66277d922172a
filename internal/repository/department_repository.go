package repository

import (
	"context"

	"github.com/samber/lo"

	"github.com/finclutech/employee-service/internal/domain"
)

type departmentRepository struct {
	db        Querier
	employees EmployeeRepository
}

// NewDepartmentRepository builds the postgres repository over a pool or a transaction.
func NewDepartmentRepository(db Querier) DepartmentRepository {
	return &departmentRepository{db: db, employees: NewEmployeeRepository(db)}
}

func (r *departmentRepository) FindByID(ctx context.Context, id string) (*domain.Department, error) {
	const query = `
        SELECT id, name, location, created_at, updated_at
        FROM departments WHERE id=$1`
	var dept domain.Department
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&dept.ID,
		&dept.Name,
		&dept.Location,
		&dept.CreatedAt,
		&dept.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}

	employees, err := r.employees.FindByDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	dept.Employees = employees
	return &dept, nil
}

func (r *departmentRepository) FindAll(ctx context.Context) ([]domain.Department, error) {
	const query = `
        SELECT id, name, location, created_at, updated_at
        FROM departments ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := []domain.Department{}
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.Location, &dept.CreatedAt, &dept.UpdatedAt); err != nil {
			return nil, translate(err)
		}
		result = append(result, dept)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}

	employees, err := r.employees.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	byDepartment := lo.GroupBy(employees, func(e domain.Employee) string { return e.DepartmentID })
	for i := range result {
		result[i].Employees = byDepartment[result[i].ID]
		if result[i].Employees == nil {
			result[i].Employees = []domain.Employee{}
		}
	}
	return result, nil
}

func (r *departmentRepository) Names(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM departments`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	names := map[string]string{}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, translate(err)
		}
		names[id] = name
	}
	return names, translate(rows.Err())
}

func (r *departmentRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM departments WHERE id=$1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, translate(err)
	}
	return exists, nil
}

func (r *departmentRepository) Save(ctx context.Context, dept *domain.Department) error {
	const query = `
        INSERT INTO departments (id, name, location)
        VALUES ($1,$2,$3)
        ON CONFLICT (id) DO UPDATE
        SET name=EXCLUDED.name, location=EXCLUDED.location, updated_at=NOW()
        RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		dept.ID,
		dept.Name,
		dept.Location,
	).Scan(&dept.CreatedAt, &dept.UpdatedAt)
	return translate(err)
}
