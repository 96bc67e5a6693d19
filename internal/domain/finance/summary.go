package finance

import "github.com/shopspring/decimal"

// BuildSummary folds per-(category, type) totals into the overall income,
// expense and net figures. All arithmetic is exact decimal; totals are zero
// when no rows exist.
func BuildSummary(groups []CategoryTotal) Summary {
	income := decimal.Zero
	expense := decimal.Zero
	for _, group := range groups {
		switch group.Type {
		case TypeIncome:
			income = income.Add(group.Total)
		case TypeExpense:
			expense = expense.Add(group.Total)
		}
	}

	if groups == nil {
		groups = []CategoryTotal{}
	}
	return Summary{
		TotalIncome:     income,
		TotalExpense:    expense,
		NetBalance:      income.Sub(expense),
		CategorySummary: groups,
	}
}

// BuildMonthlySummary reshapes a summary for a single (year, month) window.
func BuildMonthlySummary(year, month int, groups []CategoryTotal) MonthlySummary {
	summary := BuildSummary(groups)
	return MonthlySummary{
		Year:              year,
		Month:             month,
		MonthlyIncome:     summary.TotalIncome,
		MonthlyExpense:    summary.TotalExpense,
		MonthlyNetBalance: summary.NetBalance,
	}
}
