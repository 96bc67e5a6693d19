package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
  e.id,
  COALESCE(e.user_id::text, ''),
  e.first_name, e.last_name, e.position,
  COALESCE(e.department_id::text, ''),
  COALESCE(d.name, ''),
  e.email, e.date_of_birth, e.phone, e.location,
  e.created_at, e.updated_at
`

func scanEmployee(row interface{ Scan(dest ...any) error }) (Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.FirstName, &emp.LastName, &emp.Position,
		&emp.DepartmentID, &emp.DepartmentName, &emp.Email, &emp.DateOfBirth,
		&emp.Phone, &emp.Location, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees e
    LEFT JOIN departments d ON e.department_id = d.id
    ORDER BY e.last_name, e.first_name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees e
    LEFT JOIN departments d ON e.department_id = d.id
    WHERE e.id = $1
  `, employeeID)
	return scanEmployee(row)
}

func (s *Store) EmployeeIDByUserID(ctx context.Context, userID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, "SELECT id FROM employees WHERE user_id = $1", userID).Scan(&id)
	return id, err
}

type EmployeeInput struct {
	UserID       string
	FirstName    string
	LastName     string
	Position     string
	DepartmentID string
	Email        string
	DateOfBirth  *time.Time
	Phone        string
	Location     string
}

func (s *Store) CreateEmployee(ctx context.Context, input EmployeeInput) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (user_id, first_name, last_name, position, department_id, email, date_of_birth, phone, location)
    VALUES (NULLIF($1,'')::uuid, $2, $3, $4, NULLIF($5,'')::uuid, $6, $7, $8, $9)
    RETURNING id
  `, input.UserID, input.FirstName, input.LastName, input.Position, input.DepartmentID,
		input.Email, input.DateOfBirth, input.Phone, input.Location).Scan(&id)
	return id, err
}

func (s *Store) UpdateEmployee(ctx context.Context, employeeID string, input EmployeeInput) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET user_id = NULLIF($1,'')::uuid,
        first_name = $2, last_name = $3, position = $4,
        department_id = NULLIF($5,'')::uuid,
        email = $6, date_of_birth = $7, phone = $8, location = $9,
        updated_at = now()
    WHERE id = $10
  `, input.UserID, input.FirstName, input.LastName, input.Position, input.DepartmentID,
		input.Email, input.DateOfBirth, input.Phone, input.Location, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteEmployee(ctx context.Context, employeeID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name, description FROM departments ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []Department
	index := map[string]int{}
	for rows.Next() {
		var dep Department
		if err := rows.Scan(&dep.ID, &dep.Name, &dep.Description); err != nil {
			return nil, err
		}
		dep.Employees = []Employee{}
		index[dep.ID] = len(departments)
		departments = append(departments, dep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	employees, err := s.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	for _, emp := range employees {
		if pos, ok := index[emp.DepartmentID]; ok {
			departments[pos].Employees = append(departments[pos].Employees, emp)
		}
	}
	return departments, nil
}

func (s *Store) GetDepartmentByName(ctx context.Context, name string) (Department, error) {
	var dep Department
	err := s.DB.QueryRow(ctx, "SELECT id, name, description FROM departments WHERE name = $1", name).
		Scan(&dep.ID, &dep.Name, &dep.Description)
	if err != nil {
		return Department{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees e
    LEFT JOIN departments d ON e.department_id = d.id
    WHERE e.department_id = $1
    ORDER BY e.last_name, e.first_name
  `, dep.ID)
	if err != nil {
		return Department{}, err
	}
	defer rows.Close()

	dep.Employees = []Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return Department{}, err
		}
		dep.Employees = append(dep.Employees, emp)
	}
	return dep, rows.Err()
}

func (s *Store) CreateDepartment(ctx context.Context, name, description string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, description) VALUES ($1, $2) RETURNING id
  `, name, description).Scan(&id)
	return id, err
}

func (s *Store) UpdateDepartmentByName(ctx context.Context, name, newName, description string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE departments SET name = $1, description = $2 WHERE name = $3
  `, newName, description, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteDepartmentByName(ctx context.Context, name string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM departments WHERE name = $1", name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CompanyStats(ctx context.Context) (CompanyStats, error) {
	var stats CompanyStats
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees").Scan(&stats.TotalEmployees); err != nil {
		return stats, err
	}
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM departments").Scan(&stats.TotalDepartments); err != nil {
		return stats, err
	}
	return stats, nil
}
