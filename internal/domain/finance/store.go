package finance

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name, description, type FROM transaction_categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.Type); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (s *Store) GetCategory(ctx context.Context, categoryID string) (Category, error) {
	var cat Category
	err := s.DB.QueryRow(ctx, "SELECT id, name, description, type FROM transaction_categories WHERE id = $1", categoryID).
		Scan(&cat.ID, &cat.Name, &cat.Description, &cat.Type)
	return cat, err
}

func (s *Store) CreateCategory(ctx context.Context, name, description, catType string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO transaction_categories (name, description, type)
    VALUES ($1, $2, $3)
    RETURNING id
  `, name, description, catType).Scan(&id)
	return id, err
}

func (s *Store) UpdateCategory(ctx context.Context, categoryID, name, description, catType string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE transaction_categories SET name = $1, description = $2, type = $3 WHERE id = $4
  `, name, description, catType, categoryID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) DeleteCategory(ctx context.Context, categoryID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM transaction_categories WHERE id = $1", categoryID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

const transactionColumns = `
  t.id, t.title, t.description, t.amount::text,
  COALESCE(t.category_id::text, ''), COALESCE(c.name, ''),
  t.type, t.payment_method, t.transaction_date,
  COALESCE(t.recorded_by::text, ''), COALESCE(u.username, ''),
  t.party_name, t.created_at, t.updated_at
`

func scanTransaction(row interface{ Scan(dest ...any) error }) (Transaction, error) {
	var tx Transaction
	var amount string
	err := row.Scan(&tx.ID, &tx.Title, &tx.Description, &amount,
		&tx.CategoryID, &tx.CategoryName, &tx.Type, &tx.PaymentMethod, &tx.TransactionDate,
		&tx.RecordedBy, &tx.RecordedByUsername, &tx.PartyName, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return Transaction{}, err
	}
	tx.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

func scopeClause(scope Scope, args *[]any) string {
	if scope.All {
		return ""
	}
	*args = append(*args, scope.RecordedBy)
	return " AND t.recorded_by = $" + strconv.Itoa(len(*args))
}

func (s *Store) ListTransactions(ctx context.Context, scope Scope, limit, offset int) ([]Transaction, error) {
	args := []any{}
	query := `
    SELECT ` + transactionColumns + `
    FROM transactions t
    LEFT JOIN transaction_categories c ON t.category_id = c.id
    LEFT JOIN users u ON t.recorded_by = u.id
    WHERE 1=1
  ` + scopeClause(scope, &args)
	args = append(args, limit)
	query += " ORDER BY t.transaction_date DESC, t.created_at DESC LIMIT $" + strconv.Itoa(len(args))
	args = append(args, offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func (s *Store) GetTransaction(ctx context.Context, scope Scope, transactionID string) (Transaction, error) {
	args := []any{transactionID}
	query := `
    SELECT ` + transactionColumns + `
    FROM transactions t
    LEFT JOIN transaction_categories c ON t.category_id = c.id
    LEFT JOIN users u ON t.recorded_by = u.id
    WHERE t.id = $1
  ` + scopeClause(scope, &args)
	return scanTransaction(s.DB.QueryRow(ctx, query, args...))
}

type TransactionInput struct {
	Title           string
	Description     string
	Amount          decimal.Decimal
	CategoryID      string
	Type            string
	PaymentMethod   string
	TransactionDate time.Time
	PartyName       string
}

func (s *Store) CreateTransaction(ctx context.Context, recordedBy string, input TransactionInput) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO transactions (title, description, amount, category_id, type, payment_method, transaction_date, recorded_by, party_name)
    VALUES ($1, $2, $3::numeric, NULLIF($4,'')::uuid, $5, $6, $7, $8, $9)
    RETURNING id
  `, input.Title, input.Description, input.Amount.StringFixed(2), input.CategoryID,
		input.Type, input.PaymentMethod, input.TransactionDate, recordedBy, input.PartyName).Scan(&id)
	return id, err
}

// UpdateTransaction never touches recorded_by; the recorder is fixed at
// creation.
func (s *Store) UpdateTransaction(ctx context.Context, scope Scope, transactionID string, input TransactionInput) (bool, error) {
	args := []any{input.Title, input.Description, input.Amount.StringFixed(2), input.CategoryID,
		input.Type, input.PaymentMethod, input.TransactionDate, input.PartyName, transactionID}
	query := `
    UPDATE transactions t
    SET title = $1, description = $2, amount = $3::numeric,
        category_id = NULLIF($4,'')::uuid, type = $5, payment_method = $6,
        transaction_date = $7, party_name = $8, updated_at = now()
    WHERE t.id = $9
  ` + scopeClause(scope, &args)
	tag, err := s.DB.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, scope Scope, transactionID string) (bool, error) {
	args := []any{transactionID}
	query := "DELETE FROM transactions t WHERE t.id = $1" + scopeClause(scope, &args)
	tag, err := s.DB.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CategoryTotals groups the scoped transaction set by (category, type) and
// sums amounts in the database, ordered by category name. Totals come back
// as text so decimal parsing never round-trips through binary floats.
func (s *Store) CategoryTotals(ctx context.Context, scope Scope, period *Period) ([]CategoryTotal, error) {
	args := []any{}
	query := `
    SELECT COALESCE(c.name, ''), t.type, COALESCE(SUM(t.amount), 0)::text
    FROM transactions t
    LEFT JOIN transaction_categories c ON t.category_id = c.id
    WHERE 1=1
  ` + scopeClause(scope, &args)
	if period != nil {
		args = append(args, period.Year)
		query += " AND EXTRACT(YEAR FROM t.transaction_date) = $" + strconv.Itoa(len(args))
		args = append(args, period.Month)
		query += " AND EXTRACT(MONTH FROM t.transaction_date) = $" + strconv.Itoa(len(args))
	}
	query += " GROUP BY c.name, t.type ORDER BY COALESCE(c.name, '')"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var group CategoryTotal
		var raw string
		if err := rows.Scan(&group.CategoryName, &group.Type, &raw); err != nil {
			return nil, err
		}
		group.Total, err = decimal.NewFromString(raw)
		if err != nil {
			return nil, err
		}
		totals = append(totals, group)
	}
	return totals, rows.Err()
}
