package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

// CheckIn records the employee's arrival, at most once per calendar day.
func (s *Service) CheckIn(ctx context.Context, employeeID string, now time.Time) (string, error) {
	date := DateOf(now)
	hasToday, err := s.Store.HasRecordOnDate(ctx, employeeID, date)
	if err != nil {
		return "", err
	}
	if err := CanCheckIn(hasToday); err != nil {
		return "", err
	}

	id, err := s.Store.CreateRecord(ctx, employeeID, now, date)
	if err != nil {
		// Two concurrent check-ins race past the existence check; the unique
		// (employee_id, date) index catches the loser.
		return "", mapRecordErr(err)
	}
	return id, nil
}

// Backfill inserts a manually entered record, optionally already completed.
// Constraint violations surface as the same domain errors the check-in path
// produces.
func (s *Service) Backfill(ctx context.Context, employeeID string, checkIn time.Time, checkOut *time.Time) (string, error) {
	id, err := s.Store.CreateRecord(ctx, employeeID, checkIn, DateOf(checkIn))
	if err != nil {
		return "", mapRecordErr(err)
	}
	if checkOut != nil {
		if err := s.Store.CompleteRecord(ctx, id, *checkOut); err != nil {
			return "", err
		}
	}
	return id, nil
}

// mapRecordErr translates attendance_records constraint violations into domain
// errors. An unknown employee breaks the foreign key; a second record for the
// same day trips the unique (employee_id, date) index.
func mapRecordErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23503":
		return ErrUnknownEmployee
	case "23505":
		return ErrAlreadyCheckedIn
	}
	return err
}

// CheckOut completes the most recent open record, gated on a record existing
// for today (see ResolveCheckOut).
func (s *Service) CheckOut(ctx context.Context, employeeID string, now time.Time) (string, error) {
	open, err := s.Store.LatestOpenRecord(ctx, employeeID)
	if err != nil {
		return "", err
	}
	hasToday, err := s.Store.HasRecordOnDate(ctx, employeeID, DateOf(now))
	if err != nil {
		return "", err
	}

	target, err := ResolveCheckOut(open, hasToday)
	if err != nil {
		return "", err
	}
	if err := s.Store.CompleteRecord(ctx, target.ID, now); err != nil {
		return "", err
	}
	return target.ID, nil
}
