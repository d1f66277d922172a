package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/finclutech/employee-service/internal/domain"
)

const employeeColumns = `id, department_id, name, email, position, salary, created_at, updated_at`

type employeeRepository struct {
	db Querier
}

// NewEmployeeRepository builds the postgres repository over a pool or a transaction.
func NewEmployeeRepository(db Querier) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) FindByID(ctx context.Context, id string) (*domain.Employee, error) {
	const query = `SELECT ` + employeeColumns + ` FROM employees WHERE id=$1`
	employee, err := scanEmployee(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translate(err)
	}
	return employee, nil
}

func (r *employeeRepository) FindAll(ctx context.Context) ([]domain.Employee, error) {
	const query = `SELECT ` + employeeColumns + ` FROM employees ORDER BY created_at, id`
	return r.list(ctx, query)
}

func (r *employeeRepository) FindByDepartment(ctx context.Context, departmentID string) ([]domain.Employee, error) {
	const query = `SELECT ` + employeeColumns + ` FROM employees WHERE department_id=$1 ORDER BY created_at, id`
	return r.list(ctx, query, departmentID)
}

func (r *employeeRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM employees WHERE id=$1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, translate(err)
	}
	return exists, nil
}

func (r *employeeRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM employees WHERE email=$1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, translate(err)
	}
	return exists, nil
}

func (r *employeeRepository) Save(ctx context.Context, employee *domain.Employee) error {
	const query = `
        INSERT INTO employees (id, department_id, name, email, position, salary)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (id) DO UPDATE
        SET department_id=EXCLUDED.department_id, name=EXCLUDED.name, email=EXCLUDED.email,
            position=EXCLUDED.position, salary=EXCLUDED.salary, updated_at=NOW()
        RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		employee.ID,
		employee.DepartmentID,
		employee.Name,
		employee.Email,
		employee.Position,
		employee.Salary,
	).Scan(&employee.CreatedAt, &employee.UpdatedAt)
	return translate(err)
}

func (r *employeeRepository) DeleteByID(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *employeeRepository) list(ctx context.Context, query string, args ...any) ([]domain.Employee, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := []domain.Employee{}
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, translate(err)
		}
		result = append(result, *employee)
	}
	return result, translate(rows.Err())
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var e domain.Employee
	if err := row.Scan(
		&e.ID,
		&e.DepartmentID,
		&e.Name,
		&e.Email,
		&e.Position,
		&e.Salary,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}
