// Package gormstore persists employees and departments through gorm, used with
// the embedded sqlite driver.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/finclutech/employee-service/internal/domain"
	"github.com/finclutech/employee-service/internal/repository"
)

type departmentModel struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Location  string `gorm:"not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (departmentModel) TableName() string { return "departments" }

type employeeModel struct {
	ID           string  `gorm:"primaryKey"`
	DepartmentID string  `gorm:"not null;index"`
	Name         string  `gorm:"not null"`
	Email        string  `gorm:"not null;uniqueIndex"`
	Position     string  `gorm:"not null"`
	Salary       float64 `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (employeeModel) TableName() string { return "employees" }

// Store implements repository.Store over a *gorm.DB.
type Store struct {
	db *gorm.DB
}

// New migrates the schema and returns the store.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&departmentModel{}, &employeeModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Employees() repository.EmployeeRepository { return employeeRepository{db: s.db} }

func (s *Store) Departments() repository.DepartmentRepository { return departmentRepository{db: s.db} }

func (s *Store) WithinTx(ctx context.Context, fn func(repository.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repository.Repositories{
			Employees:   employeeRepository{db: tx},
			Departments: departmentRepository{db: tx},
		})
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type employeeRepository struct {
	db *gorm.DB
}

func (r employeeRepository) FindByID(ctx context.Context, id string) (*domain.Employee, error) {
	var m employeeModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	e := m.toDomain()
	return &e, nil
}

func (r employeeRepository) FindAll(ctx context.Context) ([]domain.Employee, error) {
	var models []employeeModel
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&models).Error; err != nil {
		return nil, translate(err)
	}
	return lo.Map(models, func(m employeeModel, _ int) domain.Employee { return m.toDomain() }), nil
}

func (r employeeRepository) FindByDepartment(ctx context.Context, departmentID string) ([]domain.Employee, error) {
	var models []employeeModel
	if err := r.db.WithContext(ctx).Where("department_id = ?", departmentID).Order("created_at, id").Find(&models).Error; err != nil {
		return nil, translate(err)
	}
	return lo.Map(models, func(m employeeModel, _ int) domain.Employee { return m.toDomain() }), nil
}

func (r employeeRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.db, &employeeModel{}, "id = ?", id)
}

func (r employeeRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(ctx, r.db, &employeeModel{}, "email = ?", email)
}

func (r employeeRepository) Save(ctx context.Context, employee *domain.Employee) error {
	db := r.db.WithContext(ctx)
	found, err := exists(ctx, r.db, &employeeModel{}, "id = ?", employee.ID)
	if err != nil {
		return err
	}

	m := fromEmployee(*employee)
	if !found {
		if err := db.Create(&m).Error; err != nil {
			return translate(err)
		}
	} else {
		err := db.Model(&employeeModel{}).Where("id = ?", employee.ID).Updates(map[string]any{
			"department_id": m.DepartmentID,
			"name":          m.Name,
			"email":         m.Email,
			"position":      m.Position,
			"salary":        m.Salary,
			"updated_at":    time.Now(),
		}).Error
		if err != nil {
			return translate(err)
		}
		if err := db.Where("id = ?", employee.ID).First(&m).Error; err != nil {
			return translate(err)
		}
	}
	employee.CreatedAt = m.CreatedAt
	employee.UpdatedAt = m.UpdatedAt
	return nil
}

func (r employeeRepository) DeleteByID(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&employeeModel{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type departmentRepository struct {
	db *gorm.DB
}

func (r departmentRepository) FindByID(ctx context.Context, id string) (*domain.Department, error) {
	var m departmentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	employees, err := employeeRepository{db: r.db}.FindByDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	dept := m.toDomain()
	dept.Employees = employees
	return &dept, nil
}

func (r departmentRepository) FindAll(ctx context.Context) ([]domain.Department, error) {
	var models []departmentModel
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&models).Error; err != nil {
		return nil, translate(err)
	}
	employees, err := employeeRepository{db: r.db}.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	byDepartment := lo.GroupBy(employees, func(e domain.Employee) string { return e.DepartmentID })
	return lo.Map(models, func(m departmentModel, _ int) domain.Department {
		dept := m.toDomain()
		dept.Employees = byDepartment[m.ID]
		if dept.Employees == nil {
			dept.Employees = []domain.Employee{}
		}
		return dept
	}), nil
}

func (r departmentRepository) Names(ctx context.Context) (map[string]string, error) {
	var models []departmentModel
	if err := r.db.WithContext(ctx).Select("id", "name").Find(&models).Error; err != nil {
		return nil, translate(err)
	}
	return lo.SliceToMap(models, func(m departmentModel) (string, string) { return m.ID, m.Name }), nil
}

func (r departmentRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.db, &departmentModel{}, "id = ?", id)
}

func (r departmentRepository) Save(ctx context.Context, dept *domain.Department) error {
	db := r.db.WithContext(ctx)
	found, err := exists(ctx, r.db, &departmentModel{}, "id = ?", dept.ID)
	if err != nil {
		return err
	}

	m := departmentModel{ID: dept.ID, Name: dept.Name, Location: dept.Location}
	if !found {
		if err := db.Create(&m).Error; err != nil {
			return translate(err)
		}
	} else {
		err := db.Model(&departmentModel{}).Where("id = ?", dept.ID).Updates(map[string]any{
			"name":       m.Name,
			"location":   m.Location,
			"updated_at": time.Now(),
		}).Error
		if err != nil {
			return translate(err)
		}
		if err := db.Where("id = ?", dept.ID).First(&m).Error; err != nil {
			return translate(err)
		}
	}
	dept.CreatedAt = m.CreatedAt
	dept.UpdatedAt = m.UpdatedAt
	return nil
}

func exists(ctx context.Context, db *gorm.DB, model any, query string, args ...any) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	}
	return err
}

func (m employeeModel) toDomain() domain.Employee {
	return domain.Employee{
		ID:           m.ID,
		DepartmentID: m.DepartmentID,
		Name:         m.Name,
		Email:        m.Email,
		Position:     m.Position,
		Salary:       m.Salary,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func fromEmployee(e domain.Employee) employeeModel {
	return employeeModel{
		ID:           e.ID,
		DepartmentID: e.DepartmentID,
		Name:         e.Name,
		Email:        e.Email,
		Position:     e.Position,
		Salary:       e.Salary,
	}
}

func (m departmentModel) toDomain() domain.Department {
	return domain.Department{
		ID:        m.ID,
		Name:      m.Name,
		Location:  m.Location,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
