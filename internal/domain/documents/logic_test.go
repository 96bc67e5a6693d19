package documents

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func TestExpiringSoon(t *testing.T) {
	now := time.Date(2025, time.June, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		docType string
		end     *time.Time
		want    bool
	}{
		{"contract ending today", TypeContract, ptr(day(2025, time.June, 15)), true},
		{"contract ending on window boundary", TypeContract, ptr(day(2025, time.July, 15)), true},
		{"contract ending past boundary", TypeContract, ptr(day(2025, time.July, 16)), false},
		{"contract already ended", TypeContract, ptr(day(2025, time.June, 14)), false},
		{"contract without end date", TypeContract, nil, false},
		{"policy never expires", TypePolicy, ptr(day(2025, time.June, 20)), false},
		{"training never expires", TypeTraining, ptr(day(2025, time.June, 20)), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExpiringSoon(tc.docType, tc.end, now); got != tc.want {
				t.Errorf("ExpiringSoon = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExpired(t *testing.T) {
	now := time.Date(2025, time.June, 15, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		docType string
		end     *time.Time
		want    bool
	}{
		{"ended yesterday", TypeContract, ptr(day(2025, time.June, 14)), true},
		{"ends today", TypeContract, ptr(day(2025, time.June, 15)), false},
		{"ends tomorrow", TypeContract, ptr(day(2025, time.June, 16)), false},
		{"no end date", TypeContract, nil, false},
		{"old policy", TypePolicy, ptr(day(2024, time.January, 1)), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Expired(tc.docType, tc.end, now); got != tc.want {
				t.Errorf("Expired = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAnnotate(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	doc := Document{
		DocumentType:    TypeContract,
		ContractEndDate: ptr(day(2025, time.June, 20)),
	}

	Annotate(&doc, now)
	if !doc.IsExpiringSoon {
		t.Error("expected IsExpiringSoon")
	}
	if doc.HasExpired {
		t.Error("did not expect HasExpired")
	}
}
