package attendance

import (
	"testing"
	"time"
)

func TestDateOfStripsClock(t *testing.T) {
	checkIn := time.Date(2026, 3, 9, 17, 42, 13, 0, time.UTC)
	date := DateOf(checkIn)
	if !date.Equal(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected derived date: %v", date)
	}
}

func TestCanCheckIn(t *testing.T) {
	if err := CanCheckIn(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CanCheckIn(true); err != ErrAlreadyCheckedIn {
		t.Fatalf("expected ErrAlreadyCheckedIn, got %v", err)
	}
}

func TestResolveCheckOut(t *testing.T) {
	open := &Record{ID: "rec-1"}

	tests := []struct {
		name     string
		open     *Record
		hasToday bool
		wantErr  bool
	}{
		{name: "open record and record today", open: open, hasToday: true},
		{name: "no open record", open: nil, hasToday: true, wantErr: true},
		{name: "no record today", open: open, hasToday: false, wantErr: true},
		{name: "nothing at all", open: nil, hasToday: false, wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			target, err := ResolveCheckOut(tc.open, tc.hasToday)
			if tc.wantErr {
				if err != ErrNoActiveCheckIn {
					t.Fatalf("expected ErrNoActiveCheckIn, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if target.ID != "rec-1" {
				t.Fatalf("expected open record to be completed, got %+v", target)
			}
		})
	}
}

func TestResolveCheckOutCompletesStaleOpenRecord(t *testing.T) {
	// The open record is from a prior day; a record existing today is enough
	// to let the stale one be completed.
	stale := &Record{ID: "rec-old", CheckInTime: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	target, err := ResolveCheckOut(stale, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.ID != "rec-old" {
		t.Fatalf("expected stale record, got %+v", target)
	}
}
