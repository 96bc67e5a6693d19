package documents

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const documentColumns = `
  d.id, d.title, d.description,
  COALESCE(d.uploaded_by::text, ''), COALESCE(u.username, ''), d.uploaded_at,
  COALESCE(d.employee_id::text, ''),
  COALESCE(TRIM(COALESCE(e.first_name, '') || ' ' || COALESCE(e.last_name, '')), ''),
  d.document_type, d.is_public, d.effective_date, d.contract_end_date
`

func scanDocument(row interface{ Scan(dest ...any) error }) (Document, error) {
	var doc Document
	err := row.Scan(&doc.ID, &doc.Title, &doc.Description,
		&doc.UploadedBy, &doc.UploadedByUsername, &doc.UploadedAt,
		&doc.EmployeeID, &doc.EmployeeFullName,
		&doc.DocumentType, &doc.IsPublic, &doc.EffectiveDate, &doc.ContractEndDate)
	return doc, err
}

func (s *Store) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Document, error) {
	args := []any{}
	query := `
    SELECT ` + documentColumns + `
    FROM documents d
    LEFT JOIN users u ON d.uploaded_by = u.id
    LEFT JOIN employees e ON d.employee_id = e.id
    WHERE 1=1
  `
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += " AND d.employee_id = $" + strconv.Itoa(len(args))
	}
	if filter.DocumentType != "" {
		args = append(args, filter.DocumentType)
		query += " AND d.document_type = $" + strconv.Itoa(len(args))
	}
	if filter.PublicOnly {
		query += " AND d.is_public"
	}
	args = append(args, limit)
	query += " ORDER BY d.uploaded_at DESC LIMIT $" + strconv.Itoa(len(args))
	args = append(args, offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	now := time.Now()
	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		Annotate(&doc, now)
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *Store) Get(ctx context.Context, documentID string) (Document, error) {
	doc, err := scanDocument(s.DB.QueryRow(ctx, `
    SELECT `+documentColumns+`
    FROM documents d
    LEFT JOIN users u ON d.uploaded_by = u.id
    LEFT JOIN employees e ON d.employee_id = e.id
    WHERE d.id = $1
  `, documentID))
	if err != nil {
		return Document{}, err
	}
	Annotate(&doc, time.Now())
	return doc, nil
}

type Input struct {
	Title           string
	Description     string
	EmployeeID      string
	DocumentType    string
	IsPublic        bool
	EffectiveDate   *time.Time
	ContractEndDate *time.Time
}

func (s *Store) Create(ctx context.Context, uploadedBy string, input Input) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO documents (title, description, uploaded_by, employee_id, document_type, is_public, effective_date, contract_end_date)
    VALUES ($1, $2, $3, NULLIF($4,'')::uuid, $5, $6, $7, $8)
    RETURNING id
  `, input.Title, input.Description, uploadedBy, input.EmployeeID,
		input.DocumentType, input.IsPublic, input.EffectiveDate, input.ContractEndDate).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, documentID string, input Input) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE documents
    SET title = $1, description = $2, employee_id = NULLIF($3,'')::uuid,
        document_type = $4, is_public = $5, effective_date = $6, contract_end_date = $7
    WHERE id = $8
  `, input.Title, input.Description, input.EmployeeID,
		input.DocumentType, input.IsPublic, input.EffectiveDate, input.ContractEndDate, documentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) Delete(ctx context.Context, documentID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM documents WHERE id = $1", documentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
