package shared

import (
	"testing"
	"time"
)

func TestValidatorCollectsIssuesSorted(t *testing.T) {
	v := NewValidator()
	v.Required("title", "", "title is required")
	v.Add("amount", "must be a decimal number")

	if !v.HasIssues() {
		t.Fatal("expected issues")
	}
	issues := v.Issues()
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2", len(issues))
	}
	if issues[0].Field != "amount" || issues[1].Field != "title" {
		t.Fatalf("issues not sorted by field: %+v", issues)
	}
}

func TestValidatorEnumNormalizesCase(t *testing.T) {
	v := NewValidator()
	v.Enum("type", "income", []string{"INCOME", "EXPENSE"}, "must be INCOME or EXPENSE")
	if v.HasIssues() {
		t.Fatalf("lowercase enum value should pass: %+v", v.Issues())
	}

	v.Enum("type", "REFUND", []string{"INCOME", "EXPENSE"}, "must be INCOME or EXPENSE")
	if !v.HasIssues() {
		t.Fatal("unknown enum value should fail")
	}
}

func TestValidatorEnumSkipsEmpty(t *testing.T) {
	v := NewValidator()
	v.Enum("type", "", []string{"INCOME"}, "must be INCOME")
	if v.HasIssues() {
		t.Fatal("empty value is Required's concern, not Enum's")
	}
}

func TestValidatorMaxLenCountsRunes(t *testing.T) {
	v := NewValidator()
	v.MaxLen("reason", "žžž", 3, "too long")
	if v.HasIssues() {
		t.Fatalf("3 runes within limit 3 should pass: %+v", v.Issues())
	}
	v.MaxLen("reason", "žžžž", 3, "too long")
	if !v.HasIssues() {
		t.Fatal("4 runes over limit 3 should fail")
	}
}

func TestValidatorDate(t *testing.T) {
	v := NewValidator()
	parsed, ok := v.Date("startDate", "2025-06-15")
	if !ok || v.HasIssues() {
		t.Fatalf("valid date rejected: %+v", v.Issues())
	}
	if parsed.Year() != 2025 || parsed.Month() != time.June || parsed.Day() != 15 {
		t.Fatalf("parsed wrong date: %v", parsed)
	}

	if _, ok := v.Date("endDate", "15/06/2025"); ok {
		t.Fatal("non-ISO date should be rejected")
	}
	if !v.HasIssues() {
		t.Fatal("expected a recorded issue for bad date")
	}
}

func TestValidatorDateOrder(t *testing.T) {
	start := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	v := NewValidator()
	v.DateOrder("startDate", start, "endDate", end)
	if !v.HasIssues() {
		t.Fatal("end before start should fail")
	}

	v = NewValidator()
	v.DateOrder("startDate", end, "endDate", start)
	if v.HasIssues() {
		t.Fatalf("ordered dates should pass: %+v", v.Issues())
	}

	// Same-day ranges are allowed.
	v = NewValidator()
	v.DateOrder("startDate", start, "endDate", start)
	if v.HasIssues() {
		t.Fatalf("equal dates should pass: %+v", v.Issues())
	}
}
