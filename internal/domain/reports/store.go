package reports

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const reportColumns = `
  r.id, r.employee_id,
  COALESCE(TRIM(COALESCE(e.first_name, '') || ' ' || COALESCE(e.last_name, '')), ''),
  r.content, r.created_at
`

func scanReport(row interface{ Scan(dest ...any) error }) (Report, error) {
	var rep Report
	err := row.Scan(&rep.ID, &rep.EmployeeID, &rep.EmployeeFullName, &rep.Content, &rep.CreatedAt)
	return rep, err
}

func (s *Store) List(ctx context.Context, employeeID string, limit, offset int) ([]Report, error) {
	args := []any{}
	query := `
    SELECT ` + reportColumns + `
    FROM employee_reports r
    JOIN employees e ON r.employee_id = e.id
    WHERE 1=1
  `
	if employeeID != "" {
		args = append(args, employeeID)
		query += " AND r.employee_id = $" + strconv.Itoa(len(args))
	}
	args = append(args, limit)
	query += " ORDER BY r.created_at DESC LIMIT $" + strconv.Itoa(len(args))
	args = append(args, offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, rep)
	}
	return list, rows.Err()
}

func (s *Store) Get(ctx context.Context, reportID string) (Report, error) {
	return scanReport(s.DB.QueryRow(ctx, `
    SELECT `+reportColumns+`
    FROM employee_reports r
    JOIN employees e ON r.employee_id = e.id
    WHERE r.id = $1
  `, reportID))
}

func (s *Store) Create(ctx context.Context, employeeID, content string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employee_reports (employee_id, content)
    VALUES ($1, $2)
    RETURNING id
  `, employeeID, content).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, reportID, content string) (bool, error) {
	tag, err := s.DB.Exec(ctx, "UPDATE employee_reports SET content = $1 WHERE id = $2", content, reportID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) Delete(ctx context.Context, reportID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employee_reports WHERE id = $1", reportID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
