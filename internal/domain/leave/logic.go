package leave

import "time"

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

const (
	TypeVacation = "VACATION"
	TypeSick     = "SICK"
	TypePersonal = "PERSONAL"
	TypeOther    = "OTHER"
)

const MaxReasonLength = 500

var Types = []string{TypeVacation, TypeSick, TypePersonal, TypeOther}

type InvalidStateError struct {
	Current string
}

func (e *InvalidStateError) Error() string {
	return "leave cannot change state (current status: " + e.Current + ")"
}

// DatesOrdered reports whether the range is well formed (end not before start).
func DatesOrdered(start, end time.Time) bool {
	return !end.Before(start)
}

// StartsInPast reports whether the leave would begin before today, evaluated
// against the creation moment.
func StartsInPast(start, today time.Time) bool {
	y1, m1, d1 := start.Date()
	y2, m2, d2 := today.Date()
	startDay := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	todayDay := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return startDay.Before(todayDay)
}

// ReasonTooLong enforces the reason cap in characters, not bytes.
func ReasonTooLong(reason string) bool {
	return len([]rune(reason)) > MaxReasonLength
}

// Transition guards the approval workflow: only PENDING requests move, and
// APPROVED/REJECTED/CANCELLED are terminal here.
func Transition(current, target string) error {
	if current != StatusPending {
		return &InvalidStateError{Current: current}
	}
	switch target {
	case StatusApproved, StatusRejected, StatusCancelled:
		return nil
	}
	return &InvalidStateError{Current: current}
}
