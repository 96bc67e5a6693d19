package attendance

import (
	"errors"
	"time"
)

var (
	ErrAlreadyCheckedIn = errors.New("already checked in today")
	ErrNoActiveCheckIn  = errors.New("no active check-in to complete")
	ErrUnknownEmployee  = errors.New("employee not found")
)

// DateOf derives the calendar date a record is filed under. Set once at
// check-in and never recomputed afterwards.
func DateOf(checkIn time.Time) time.Time {
	year, month, day := checkIn.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, checkIn.Location())
}

// CanCheckIn rejects a second check-in on a day that already has a record.
func CanCheckIn(hasRecordToday bool) error {
	if hasRecordToday {
		return ErrAlreadyCheckedIn
	}
	return nil
}

// ResolveCheckOut decides whether a check-out may complete the given open
// record. The open record is the most recent one without a check-out across
// all time, while the today-gate looks only at today's date; the open record
// being completed may therefore predate today. That pairing matches the
// upstream system and is kept as observed.
func ResolveCheckOut(open *Record, hasRecordToday bool) (*Record, error) {
	if !hasRecordToday || open == nil {
		return nil, ErrNoActiveCheckIn
	}
	return open, nil
}
