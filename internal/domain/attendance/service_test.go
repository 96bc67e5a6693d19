package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

type fakeStore struct {
	records   []Record
	nextID    int
	createErr error
}

func (f *fakeStore) HasRecordOnDate(_ context.Context, employeeID string, date time.Time) (bool, error) {
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) LatestOpenRecord(_ context.Context, employeeID string) (*Record, error) {
	var latest *Record
	for i := range f.records {
		rec := &f.records[i]
		if rec.EmployeeID != employeeID || rec.CheckOutTime != nil {
			continue
		}
		if latest == nil || rec.CheckInTime.After(latest.CheckInTime) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeStore) CreateRecord(_ context.Context, employeeID string, checkIn, date time.Time) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	id := "rec-" + string(rune('0'+f.nextID))
	f.records = append(f.records, Record{ID: id, EmployeeID: employeeID, CheckInTime: checkIn, Date: date})
	return id, nil
}

func (f *fakeStore) CompleteRecord(_ context.Context, recordID string, checkOut time.Time) error {
	for i := range f.records {
		if f.records[i].ID == recordID {
			out := checkOut
			f.records[i].CheckOutTime = &out
		}
	}
	return nil
}

func TestCheckInOncePerDay(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)
	now := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)

	if _, err := svc.CheckIn(context.Background(), "emp-1", now); err != nil {
		t.Fatalf("first check-in failed: %v", err)
	}
	if _, err := svc.CheckIn(context.Background(), "emp-1", now.Add(2*time.Hour)); err != ErrAlreadyCheckedIn {
		t.Fatalf("expected ErrAlreadyCheckedIn on second check-in, got %v", err)
	}
	if _, err := svc.CheckIn(context.Background(), "emp-2", now); err != nil {
		t.Fatalf("check-in for another employee failed: %v", err)
	}
}

func TestCheckInConstraintViolations(t *testing.T) {
	now := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)

	svc := NewService(&fakeStore{createErr: &pgconn.PgError{Code: "23503"}})
	if _, err := svc.CheckIn(context.Background(), "ghost", now); err != ErrUnknownEmployee {
		t.Fatalf("expected ErrUnknownEmployee for missing employee, got %v", err)
	}

	// The insert losing the unique-index race reads the same as a plain
	// duplicate check-in.
	svc = NewService(&fakeStore{createErr: &pgconn.PgError{Code: "23505"}})
	if _, err := svc.CheckIn(context.Background(), "emp-1", now); err != ErrAlreadyCheckedIn {
		t.Fatalf("expected ErrAlreadyCheckedIn on duplicate insert, got %v", err)
	}
}

func TestBackfill(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)
	morning := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	evening := morning.Add(8 * time.Hour)

	id, err := svc.Backfill(context.Background(), "emp-1", morning, &evening)
	if err != nil {
		t.Fatalf("backfill failed: %v", err)
	}
	if store.records[0].ID != id || !store.records[0].Date.Equal(DateOf(morning)) {
		t.Fatalf("record not filed under check-in date: %+v", store.records[0])
	}
	if store.records[0].CheckOutTime == nil || !store.records[0].CheckOutTime.Equal(evening) {
		t.Fatalf("check-out time not stamped: %+v", store.records[0])
	}

	svc = NewService(&fakeStore{createErr: &pgconn.PgError{Code: "23503"}})
	if _, err := svc.Backfill(context.Background(), "ghost", morning, nil); err != ErrUnknownEmployee {
		t.Fatalf("expected ErrUnknownEmployee, got %v", err)
	}
	svc = NewService(&fakeStore{createErr: &pgconn.PgError{Code: "23505"}})
	if _, err := svc.Backfill(context.Background(), "emp-1", morning, nil); err != ErrAlreadyCheckedIn {
		t.Fatalf("expected ErrAlreadyCheckedIn, got %v", err)
	}
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	svc := NewService(&fakeStore{})
	now := time.Date(2026, 3, 9, 17, 0, 0, 0, time.UTC)

	if _, err := svc.CheckOut(context.Background(), "emp-1", now); err != ErrNoActiveCheckIn {
		t.Fatalf("expected ErrNoActiveCheckIn, got %v", err)
	}
}

func TestCheckOutAfterCheckIn(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)
	morning := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	evening := morning.Add(8 * time.Hour)

	id, err := svc.CheckIn(context.Background(), "emp-1", morning)
	if err != nil {
		t.Fatalf("check-in failed: %v", err)
	}

	completed, err := svc.CheckOut(context.Background(), "emp-1", evening)
	if err != nil {
		t.Fatalf("check-out failed: %v", err)
	}
	if completed != id {
		t.Fatalf("expected record %s to be completed, got %s", id, completed)
	}
	if store.records[0].CheckOutTime == nil || !store.records[0].CheckOutTime.Equal(evening) {
		t.Fatalf("check-out time not stamped: %+v", store.records[0])
	}

	if _, err := svc.CheckOut(context.Background(), "emp-1", evening.Add(time.Minute)); err != ErrNoActiveCheckIn {
		t.Fatalf("expected ErrNoActiveCheckIn after completion, got %v", err)
	}
}

func TestCheckOutCompletesStaleOpenRecordWhenTodayHasOne(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)
	yesterday := time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)

	staleID, err := svc.CheckIn(context.Background(), "emp-1", yesterday)
	if err != nil {
		t.Fatalf("check-in failed: %v", err)
	}
	// Forgot to check out yesterday; today's check-in opens a second record.
	todayID, err := svc.CheckIn(context.Background(), "emp-1", today)
	if err != nil {
		t.Fatalf("check-in failed: %v", err)
	}

	completed, err := svc.CheckOut(context.Background(), "emp-1", today.Add(8*time.Hour))
	if err != nil {
		t.Fatalf("check-out failed: %v", err)
	}
	if completed != todayID {
		t.Fatalf("expected most recent open record %s, got %s", todayID, completed)
	}

	// The stale record is the only open one left and today still has a
	// record, so a second check-out closes it.
	completed, err = svc.CheckOut(context.Background(), "emp-1", today.Add(9*time.Hour))
	if err != nil {
		t.Fatalf("second check-out failed: %v", err)
	}
	if completed != staleID {
		t.Fatalf("expected stale record %s, got %s", staleID, completed)
	}
}
