// Package memstore keeps employees and departments in process memory.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/finclutech/employee-service/internal/domain"
	"github.com/finclutech/employee-service/internal/repository"
)

type state struct {
	employees     map[string]domain.Employee
	employeeOrder []string
	departments   map[string]domain.Department
	deptOrder     []string
}

func (s *state) clone() *state {
	c := &state{
		employees:     make(map[string]domain.Employee, len(s.employees)),
		employeeOrder: append([]string(nil), s.employeeOrder...),
		departments:   make(map[string]domain.Department, len(s.departments)),
		deptOrder:     append([]string(nil), s.deptOrder...),
	}
	for k, v := range s.employees {
		c.employees[k] = v
	}
	for k, v := range s.departments {
		c.departments[k] = v
	}
	return c
}

func (s *state) employeesWhere(keep func(domain.Employee) bool) []domain.Employee {
	result := []domain.Employee{}
	for _, id := range s.employeeOrder {
		if e := s.employees[id]; keep(e) {
			result = append(result, e)
		}
	}
	return result
}

// Store implements repository.Store. A transaction works on a private copy of
// the data that replaces the shared copy on commit; writes outside a
// transaction wait for any open transaction to finish.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data *state
	now  func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		data: &state{
			employees:   map[string]domain.Employee{},
			departments: map[string]domain.Department{},
		},
		now: time.Now,
	}
}

func (s *Store) Employees() repository.EmployeeRepository { return employeeRepository{view{s: s}} }

func (s *Store) Departments() repository.DepartmentRepository { return departmentRepository{view{s: s}} }

func (s *Store) WithinTx(ctx context.Context, fn func(repository.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	working := s.data.clone()
	s.mu.RUnlock()

	v := view{s: s, tx: working}
	if err := fn(repository.Repositories{Employees: employeeRepository{v}, Departments: departmentRepository{v}}); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = working
	s.mu.Unlock()
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

// view routes reads and writes either to a transaction's private state or to
// the shared state.
type view struct {
	s  *Store
	tx *state
}

func (v view) read(fn func(*state)) {
	if v.tx != nil {
		fn(v.tx)
		return
	}
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	fn(v.s.data)
}

func (v view) write(fn func(*state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.s.txMu.Lock()
	defer v.s.txMu.Unlock()
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.data)
}

type employeeRepository struct{ view }

func (r employeeRepository) FindByID(_ context.Context, id string) (*domain.Employee, error) {
	var (
		e  domain.Employee
		ok bool
	)
	r.read(func(st *state) { e, ok = st.employees[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r employeeRepository) FindAll(_ context.Context) ([]domain.Employee, error) {
	var result []domain.Employee
	r.read(func(st *state) {
		result = st.employeesWhere(func(domain.Employee) bool { return true })
	})
	return result, nil
}

func (r employeeRepository) FindByDepartment(_ context.Context, departmentID string) ([]domain.Employee, error) {
	var result []domain.Employee
	r.read(func(st *state) {
		result = st.employeesWhere(func(e domain.Employee) bool { return e.DepartmentID == departmentID })
	})
	return result, nil
}

func (r employeeRepository) ExistsByID(_ context.Context, id string) (bool, error) {
	var ok bool
	r.read(func(st *state) { _, ok = st.employees[id] })
	return ok, nil
}

func (r employeeRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	var found bool
	r.read(func(st *state) {
		_, found = lo.Find(lo.Values(st.employees), func(e domain.Employee) bool { return e.Email == email })
	})
	return found, nil
}

func (r employeeRepository) Save(_ context.Context, employee *domain.Employee) error {
	return r.write(func(st *state) error {
		for id, other := range st.employees {
			if id != employee.ID && other.Email == employee.Email {
				return repository.ErrDuplicate
			}
		}
		if _, ok := st.departments[employee.DepartmentID]; !ok {
			return repository.ErrNotFound
		}

		now := r.s.now()
		if existing, ok := st.employees[employee.ID]; ok {
			employee.CreatedAt = existing.CreatedAt
		} else {
			employee.CreatedAt = now
			st.employeeOrder = append(st.employeeOrder, employee.ID)
		}
		employee.UpdatedAt = now
		st.employees[employee.ID] = *employee
		return nil
	})
}

func (r employeeRepository) DeleteByID(_ context.Context, id string) error {
	return r.write(func(st *state) error {
		if _, ok := st.employees[id]; !ok {
			return repository.ErrNotFound
		}
		delete(st.employees, id)
		st.employeeOrder = lo.Without(st.employeeOrder, id)
		return nil
	})
}

type departmentRepository struct{ view }

func (r departmentRepository) FindByID(_ context.Context, id string) (*domain.Department, error) {
	var (
		dept domain.Department
		ok   bool
	)
	r.read(func(st *state) {
		if dept, ok = st.departments[id]; ok {
			dept.Employees = st.employeesWhere(func(e domain.Employee) bool { return e.DepartmentID == id })
		}
	})
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &dept, nil
}

func (r departmentRepository) FindAll(_ context.Context) ([]domain.Department, error) {
	var result []domain.Department
	r.read(func(st *state) {
		byDepartment := lo.GroupBy(st.employeesWhere(func(domain.Employee) bool { return true }),
			func(e domain.Employee) string { return e.DepartmentID })
		result = lo.Map(st.deptOrder, func(id string, _ int) domain.Department {
			dept := st.departments[id]
			dept.Employees = byDepartment[id]
			if dept.Employees == nil {
				dept.Employees = []domain.Employee{}
			}
			return dept
		})
	})
	return result, nil
}

func (r departmentRepository) Names(_ context.Context) (map[string]string, error) {
	names := map[string]string{}
	r.read(func(st *state) {
		for id, dept := range st.departments {
			names[id] = dept.Name
		}
	})
	return names, nil
}

func (r departmentRepository) ExistsByID(_ context.Context, id string) (bool, error) {
	var ok bool
	r.read(func(st *state) { _, ok = st.departments[id] })
	return ok, nil
}

func (r departmentRepository) Save(_ context.Context, dept *domain.Department) error {
	return r.write(func(st *state) error {
		now := r.s.now()
		if existing, ok := st.departments[dept.ID]; ok {
			dept.CreatedAt = existing.CreatedAt
		} else {
			dept.CreatedAt = now
			st.deptOrder = append(st.deptOrder, dept.ID)
		}
		dept.UpdatedAt = now

		stored := *dept
		stored.Employees = nil
		st.departments[dept.ID] = stored
		return nil
	})
}
