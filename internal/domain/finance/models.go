package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeIncome  = "INCOME"
	TypeExpense = "EXPENSE"
)

const (
	PaymentCash         = "CASH"
	PaymentBankTransfer = "BANK_TRANSFER"
	PaymentCard         = "CARD"
	PaymentOther        = "OTHER"
)

var Types = []string{TypeIncome, TypeExpense}

var PaymentMethods = []string{PaymentCash, PaymentBankTransfer, PaymentCard, PaymentOther}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type Transaction struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Amount             decimal.Decimal `json:"amount"`
	CategoryID         string          `json:"categoryId,omitempty"`
	CategoryName       string          `json:"categoryName,omitempty"`
	Type               string          `json:"type"`
	PaymentMethod      string          `json:"paymentMethod"`
	TransactionDate    time.Time       `json:"transactionDate"`
	RecordedBy         string          `json:"recordedBy,omitempty"`
	RecordedByUsername string          `json:"recordedByUsername,omitempty"`
	PartyName          string          `json:"partyName"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// Scope restricts transaction queries to the caller's own records unless the
// caller holds a view-all grant.
type Scope struct {
	All        bool
	RecordedBy string
}

type Period struct {
	Year  int
	Month int
}

type CategoryTotal struct {
	CategoryName string          `json:"categoryName"`
	Type         string          `json:"type"`
	Total        decimal.Decimal `json:"total"`
}

type Summary struct {
	TotalIncome     decimal.Decimal `json:"totalIncome"`
	TotalExpense    decimal.Decimal `json:"totalExpense"`
	NetBalance      decimal.Decimal `json:"netBalance"`
	CategorySummary []CategoryTotal `json:"categorySummary"`
}

type MonthlySummary struct {
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	MonthlyIncome     decimal.Decimal `json:"monthlyIncome"`
	MonthlyExpense    decimal.Decimal `json:"monthlyExpense"`
	MonthlyNetBalance decimal.Decimal `json:"monthlyNetBalance"`
}
