package leave

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const leaveColumns = `
  l.id, l.employee_id, e.first_name || ' ' || e.last_name,
  l.leave_type, l.start_date, l.end_date, l.status, l.reason,
  COALESCE(l.approved_by::text, ''), COALESCE(u.username, ''),
  l.created_at
`

func scanLeave(row interface{ Scan(dest ...any) error }) (Leave, error) {
	var lv Leave
	err := row.Scan(&lv.ID, &lv.EmployeeID, &lv.EmployeeFullName, &lv.LeaveType,
		&lv.StartDate, &lv.EndDate, &lv.Status, &lv.Reason,
		&lv.ApprovedBy, &lv.ApprovedByUsername, &lv.CreatedAt)
	return lv, err
}

// scopeClause restricts a query to the caller's employee. Callers short-circuit
// the empty non-All scope before building SQL; an empty uuid argument would not
// cast.
func scopeClause(scope Scope, args *[]any) string {
	if scope.All {
		return ""
	}
	*args = append(*args, scope.EmployeeID)
	return " AND l.employee_id = $" + strconv.Itoa(len(*args))
}

func (s *Store) List(ctx context.Context, scope Scope, limit, offset int) ([]Leave, error) {
	if !scope.All && scope.EmployeeID == "" {
		return []Leave{}, nil
	}
	args := []any{}
	query := `
    SELECT ` + leaveColumns + `
    FROM leaves l
    JOIN employees e ON l.employee_id = e.id
    LEFT JOIN users u ON l.approved_by = u.id
    WHERE 1=1
  ` + scopeClause(scope, &args)
	args = append(args, limit)
	query += " ORDER BY l.start_date DESC LIMIT $" + strconv.Itoa(len(args))
	args = append(args, offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leaves []Leave
	for rows.Next() {
		lv, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, lv)
	}
	return leaves, rows.Err()
}

// Get loads a single leave visible to the scope. Rows outside the scope look
// the same as rows that do not exist.
func (s *Store) Get(ctx context.Context, scope Scope, leaveID string) (Leave, error) {
	if !scope.All && scope.EmployeeID == "" {
		return Leave{}, pgx.ErrNoRows
	}
	args := []any{leaveID}
	query := `
    SELECT ` + leaveColumns + `
    FROM leaves l
    JOIN employees e ON l.employee_id = e.id
    LEFT JOIN users u ON l.approved_by = u.id
    WHERE l.id = $1
  ` + scopeClause(scope, &args)
	row := s.DB.QueryRow(ctx, query, args...)
	return scanLeave(row)
}

func (s *Store) Create(ctx context.Context, employeeID, leaveType string, start, end time.Time, reason string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leaves (employee_id, leave_type, start_date, end_date, reason, status)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id
  `, employeeID, leaveType, start, end, reason, StatusPending).Scan(&id)
	return id, err
}

func (s *Store) Status(ctx context.Context, leaveID string) (string, error) {
	var status string
	err := s.DB.QueryRow(ctx, "SELECT status FROM leaves WHERE id = $1", leaveID).Scan(&status)
	return status, err
}

// SetStatus moves a PENDING leave to the target status, recording the acting
// user. Returns false when the row was not PENDING anymore.
func (s *Store) SetStatus(ctx context.Context, leaveID, target, approverUserID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leaves SET status = $1, approved_by = $2
    WHERE id = $3 AND status = $4
  `, target, approverUserID, leaveID, StatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) Update(ctx context.Context, scope Scope, leaveID, leaveType string, start, end time.Time, reason string) error {
	if !scope.All && scope.EmployeeID == "" {
		return pgx.ErrNoRows
	}
	args := []any{leaveType, start, end, reason, leaveID}
	query := `
    UPDATE leaves l SET leave_type = $1, start_date = $2, end_date = $3, reason = $4
    WHERE l.id = $5
  ` + scopeClause(scope, &args)
	tag, err := s.DB.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, scope Scope, leaveID string) (bool, error) {
	if !scope.All && scope.EmployeeID == "" {
		return false, nil
	}
	args := []any{leaveID}
	query := "DELETE FROM leaves l WHERE l.id = $1" + scopeClause(scope, &args)
	tag, err := s.DB.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
