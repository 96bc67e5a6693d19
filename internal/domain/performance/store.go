package performance

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const reviewColumns = `
  pr.id, pr.employee_id, COALESCE(TRIM(COALESCE(e.first_name, '') || ' ' || COALESCE(e.last_name, '')), ''),
  pr.review_date, pr.period,
  pr.quality_of_work, pr.attendance, pr.communication, pr.teamwork, pr.initiative,
  pr.comments, pr.recommended_training,
  COALESCE(pr.reviewer_id::text, ''), COALESCE(u.username, '')
`

func scanReview(row interface{ Scan(dest ...any) error }) (Review, error) {
	var rv Review
	err := row.Scan(&rv.ID, &rv.EmployeeID, &rv.EmployeeFullName,
		&rv.ReviewDate, &rv.Period,
		&rv.QualityOfWork, &rv.Attendance, &rv.Communication, &rv.Teamwork, &rv.Initiative,
		&rv.Comments, &rv.RecommendedTraining, &rv.ReviewerID, &rv.ReviewerUsername)
	return rv, err
}

func (s *Store) List(ctx context.Context, employeeID string, limit, offset int) ([]Review, error) {
	args := []any{}
	query := `
    SELECT ` + reviewColumns + `
    FROM performance_reviews pr
    JOIN employees e ON pr.employee_id = e.id
    LEFT JOIN users u ON pr.reviewer_id = u.id
    WHERE 1=1
  `
	if employeeID != "" {
		args = append(args, employeeID)
		query += " AND pr.employee_id = $" + strconv.Itoa(len(args))
	}
	args = append(args, limit)
	query += " ORDER BY pr.review_date DESC LIMIT $" + strconv.Itoa(len(args))
	args = append(args, offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (s *Store) Get(ctx context.Context, reviewID string) (Review, error) {
	return scanReview(s.DB.QueryRow(ctx, `
    SELECT `+reviewColumns+`
    FROM performance_reviews pr
    JOIN employees e ON pr.employee_id = e.id
    LEFT JOIN users u ON pr.reviewer_id = u.id
    WHERE pr.id = $1
  `, reviewID))
}

type Input struct {
	EmployeeID          string
	ReviewDate          time.Time
	Period              string
	QualityOfWork       int
	Attendance          int
	Communication       int
	Teamwork            int
	Initiative          int
	Comments            string
	RecommendedTraining string
}

func (s *Store) Create(ctx context.Context, reviewerID string, input Input) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO performance_reviews
      (employee_id, review_date, period, quality_of_work, attendance, communication, teamwork, initiative, comments, recommended_training, reviewer_id)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11,'')::uuid)
    RETURNING id
  `, input.EmployeeID, input.ReviewDate, input.Period,
		input.QualityOfWork, input.Attendance, input.Communication, input.Teamwork, input.Initiative,
		input.Comments, input.RecommendedTraining, reviewerID).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, reviewID string, input Input) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE performance_reviews
    SET review_date = $1, period = $2, quality_of_work = $3, attendance = $4,
        communication = $5, teamwork = $6, initiative = $7, comments = $8, recommended_training = $9
    WHERE id = $10
  `, input.ReviewDate, input.Period,
		input.QualityOfWork, input.Attendance, input.Communication, input.Teamwork, input.Initiative,
		input.Comments, input.RecommendedTraining, reviewID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) Delete(ctx context.Context, reviewID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM performance_reviews WHERE id = $1", reviewID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
