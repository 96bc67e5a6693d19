package attendance

import (
	"context"
	"errors"
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

const recordColumns = `
  a.id, a.employee_id, e.first_name || ' ' || e.last_name,
  a.check_in_time, a.check_out_time, a.date
`

func (s *Store) HasRecordOnDate(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM attendance_records WHERE employee_id = $1 AND date = $2
  `, employeeID, date).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) LatestOpenRecord(ctx context.Context, employeeID string) (*Record, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records a
    JOIN employees e ON a.employee_id = e.id
    WHERE a.employee_id = $1 AND a.check_out_time IS NULL
    ORDER BY a.check_in_time DESC
    LIMIT 1
  `, employeeID)

	var rec Record
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.EmployeeFullName, &rec.CheckInTime, &rec.CheckOutTime, &rec.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) CreateRecord(ctx context.Context, employeeID string, checkIn, date time.Time) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance_records (employee_id, check_in_time, date)
    VALUES ($1, $2, $3)
    RETURNING id
  `, employeeID, checkIn, date).Scan(&id)
	return id, err
}

func (s *Store) CompleteRecord(ctx context.Context, recordID string, checkOut time.Time) error {
	_, err := s.DB.Exec(ctx, "UPDATE attendance_records SET check_out_time = $1 WHERE id = $2", checkOut, recordID)
	return err
}

func (s *Store) ListRecords(ctx context.Context, filter ListFilter, limit, offset int) ([]Record, error) {
	query := `
    SELECT ` + recordColumns + `
    FROM attendance_records a
    JOIN employees e ON a.employee_id = e.id
    WHERE 1=1
  `
	args := []any{}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += ` AND a.employee_id = $` + strconv.Itoa(len(args))
	}
	if filter.Date != nil {
		args = append(args, *filter.Date)
		query += ` AND a.date = $` + strconv.Itoa(len(args))
	}
	args = append(args, limit)
	query += ` ORDER BY a.check_in_time DESC LIMIT $` + strconv.Itoa(len(args))
	args = append(args, offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.EmployeeFullName, &rec.CheckInTime, &rec.CheckOutTime, &rec.Date); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) GetRecord(ctx context.Context, recordID string) (Record, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records a
    JOIN employees e ON a.employee_id = e.id
    WHERE a.id = $1
  `, recordID)
	var rec Record
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.EmployeeFullName, &rec.CheckInTime, &rec.CheckOutTime, &rec.Date)
	return rec, err
}

func (s *Store) UpdateRecord(ctx context.Context, recordID string, checkIn time.Time, checkOut *time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE attendance_records SET check_in_time = $1, check_out_time = $2 WHERE id = $3
  `, checkIn, checkOut, recordID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) DeleteRecord(ctx context.Context, recordID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM attendance_records WHERE id = $1", recordID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

