package finance

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBuildSummary(t *testing.T) {
	tests := []struct {
		name        string
		groups      []CategoryTotal
		wantIncome  string
		wantExpense string
		wantNet     string
	}{
		{
			name: "income minus expense",
			groups: []CategoryTotal{
				{CategoryName: "Salaries", Type: TypeExpense, Total: dec("40.00")},
				{CategoryName: "Sales", Type: TypeIncome, Total: dec("100.00")},
			},
			wantIncome:  "100.00",
			wantExpense: "40.00",
			wantNet:     "60.00",
		},
		{
			name:        "no transactions",
			groups:      nil,
			wantIncome:  "0",
			wantExpense: "0",
			wantNet:     "0",
		},
		{
			name: "cent precision stays exact",
			groups: []CategoryTotal{
				{CategoryName: "Fees", Type: TypeIncome, Total: dec("0.10")},
				{CategoryName: "Fees", Type: TypeExpense, Total: dec("0.20")},
				{CategoryName: "Misc", Type: TypeIncome, Total: dec("0.20")},
			},
			wantIncome:  "0.30",
			wantExpense: "0.20",
			wantNet:     "0.10",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildSummary(tc.groups)
			if !got.TotalIncome.Equal(dec(tc.wantIncome)) {
				t.Errorf("TotalIncome = %s, want %s", got.TotalIncome, tc.wantIncome)
			}
			if !got.TotalExpense.Equal(dec(tc.wantExpense)) {
				t.Errorf("TotalExpense = %s, want %s", got.TotalExpense, tc.wantExpense)
			}
			if !got.NetBalance.Equal(dec(tc.wantNet)) {
				t.Errorf("NetBalance = %s, want %s", got.NetBalance, tc.wantNet)
			}
			if got.CategorySummary == nil {
				t.Error("CategorySummary should never be nil")
			}
		})
	}
}

func TestBuildMonthlySummary(t *testing.T) {
	groups := []CategoryTotal{
		{CategoryName: "Rent", Type: TypeExpense, Total: dec("1500.00")},
		{CategoryName: "Sales", Type: TypeIncome, Total: dec("4200.50")},
	}

	got := BuildMonthlySummary(2025, 3, groups)
	if got.Year != 2025 || got.Month != 3 {
		t.Errorf("period = %d-%d, want 2025-3", got.Year, got.Month)
	}
	if !got.MonthlyIncome.Equal(dec("4200.50")) {
		t.Errorf("MonthlyIncome = %s, want 4200.50", got.MonthlyIncome)
	}
	if !got.MonthlyExpense.Equal(dec("1500.00")) {
		t.Errorf("MonthlyExpense = %s, want 1500.00", got.MonthlyExpense)
	}
	if !got.MonthlyNetBalance.Equal(dec("2700.50")) {
		t.Errorf("MonthlyNetBalance = %s, want 2700.50", got.MonthlyNetBalance)
	}
}
