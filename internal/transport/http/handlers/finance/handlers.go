package financehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"hradmin/internal/domain/audit"
	"hradmin/internal/domain/auth"
	"hradmin/internal/domain/finance"
	"hradmin/internal/transport/http/api"
	"hradmin/internal/transport/http/middleware"
	"hradmin/internal/transport/http/shared"
)

type Handler struct {
	Store *finance.Store
	Perms middleware.PermissionStore
	Audit *audit.Service
}

func NewHandler(store *finance.Store, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/transaction-categories", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermFinanceRead, h.Perms)).Get("/", h.handleListCategories)
		r.With(middleware.RequirePermission(auth.PermFinanceRead, h.Perms)).Get("/{categoryID}", h.handleGetCategory)
		r.With(middleware.RequirePermission(auth.PermFinanceWrite, h.Perms)).Post("/", h.handleCreateCategory)
		r.With(middleware.RequirePermission(auth.PermFinanceWrite, h.Perms)).Put("/{categoryID}", h.handleUpdateCategory)
		r.With(middleware.RequirePermission(auth.PermFinanceWrite, h.Perms)).Delete("/{categoryID}", h.handleDeleteCategory)
	})

	r.Route("/transactions", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermFinanceRead, h.Perms)).Get("/", h.handleListTransactions)
		r.With(middleware.RequirePermission(auth.PermFinanceRead, h.Perms)).Get("/summary", h.handleSummary)
		r.With(middleware.RequirePermission(auth.PermFinanceRead, h.Perms)).Get("/monthly-summary", h.handleMonthlySummary)
		r.With(middleware.RequirePermission(auth.PermFinanceRead, h.Perms)).Get("/{transactionID}", h.handleGetTransaction)
		r.With(middleware.RequirePermission(auth.PermFinanceWrite, h.Perms)).Post("/", h.handleCreateTransaction)
		r.With(middleware.RequirePermission(auth.PermFinanceWrite, h.Perms)).Put("/{transactionID}", h.handleUpdateTransaction)
		r.With(middleware.RequirePermission(auth.PermFinanceWrite, h.Perms)).Delete("/{transactionID}", h.handleDeleteTransaction)
	})
}

// scopeFor restricts transaction visibility before any other query parameter
// applies. Finance managers, admins and holders of the read-all grant see the
// whole ledger; everyone else sees what they recorded.
func (h *Handler) scopeFor(r *http.Request, user auth.UserContext) (finance.Scope, error) {
	if auth.PrivilegedFinanceRoles[user.RoleName] {
		return finance.Scope{All: true}, nil
	}
	allowed, err := h.Perms.HasPermission(r.Context(), user.RoleID, auth.PermFinanceReadAll)
	if err != nil {
		return finance.Scope{}, err
	}
	if allowed {
		return finance.Scope{All: true}, nil
	}
	return finance.Scope{RecordedBy: user.UserID}, nil
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Store.ListCategories(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "categories_failed", "failed to list transaction categories", middleware.GetRequestID(r.Context()))
		return
	}
	if categories == nil {
		categories = []finance.Category{}
	}
	api.Success(w, categories, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.Store.GetCategory(r.Context(), chi.URLParam(r, "categoryID"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.Fail(w, http.StatusNotFound, "not_found", "category not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "category_failed", "failed to load category", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, category, middleware.GetRequestID(r.Context()))
}

type categoryPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("type", payload.Type, "type is required")
	v.Enum("type", payload.Type, finance.Types, "must be INCOME or EXPENSE")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.CreateCategory(r.Context(), strings.TrimSpace(payload.Name), payload.Description, strings.ToUpper(strings.TrimSpace(payload.Type)))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "category_create_failed", "failed to create category", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "finance.category.create", "transaction_category", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit finance.category.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	categoryID := chi.URLParam(r, "categoryID")

	var payload categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("type", payload.Type, "type is required")
	v.Enum("type", payload.Type, finance.Types, "must be INCOME or EXPENSE")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	updated, err := h.Store.UpdateCategory(r.Context(), categoryID, strings.TrimSpace(payload.Name), payload.Description, strings.ToUpper(strings.TrimSpace(payload.Type)))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "category_update_failed", "failed to update category", middleware.GetRequestID(r.Context()))
		return
	}
	if !updated {
		api.Fail(w, http.StatusNotFound, "not_found", "category not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "finance.category.update", "transaction_category", categoryID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit finance.category.update failed", "err", err)
	}
	api.Success(w, map[string]string{"id": categoryID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	categoryID := chi.URLParam(r, "categoryID")

	deleted, err := h.Store.DeleteCategory(r.Context(), categoryID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "category_delete_failed", "failed to delete category", middleware.GetRequestID(r.Context()))
		return
	}
	if !deleted {
		api.Fail(w, http.StatusNotFound, "not_found", "category not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "finance.category.delete", "transaction_category", categoryID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit finance.category.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	scope, err := h.scopeFor(r, user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "finance_scope_failed", "failed to resolve transaction access", middleware.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	transactions, err := h.Store.ListTransactions(r.Context(), scope, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "transactions_failed", "failed to list transactions", middleware.GetRequestID(r.Context()))
		return
	}
	if transactions == nil {
		transactions = []finance.Transaction{}
	}
	api.Success(w, transactions, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	scope, err := h.scopeFor(r, user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "finance_scope_failed", "failed to resolve transaction access", middleware.GetRequestID(r.Context()))
		return
	}

	tx, err := h.Store.GetTransaction(r.Context(), scope, chi.URLParam(r, "transactionID"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.Fail(w, http.StatusNotFound, "not_found", "transaction not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "transaction_failed", "failed to load transaction", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, tx, middleware.GetRequestID(r.Context()))
}

type transactionPayload struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Amount          string `json:"amount"`
	CategoryID      string `json:"categoryId"`
	Type            string `json:"type"`
	PaymentMethod   string `json:"paymentMethod"`
	TransactionDate string `json:"transactionDate"`
	PartyName       string `json:"partyName"`
}

func (h *Handler) validateTransaction(payload transactionPayload) (finance.TransactionInput, *shared.Validator) {
	v := shared.NewValidator()
	v.Required("title", payload.Title, "title is required")
	v.Required("type", payload.Type, "type is required")
	v.Enum("type", payload.Type, finance.Types, "must be INCOME or EXPENSE")
	v.Enum("paymentMethod", payload.PaymentMethod, finance.PaymentMethods, "must be one of CASH, BANK_TRANSFER, CARD, OTHER")

	var amount decimal.Decimal
	if strings.TrimSpace(payload.Amount) == "" {
		v.Add("amount", "amount is required")
	} else {
		parsed, err := decimal.NewFromString(strings.TrimSpace(payload.Amount))
		switch {
		case err != nil:
			v.Add("amount", "must be a decimal number")
		case parsed.IsNegative():
			v.Add("amount", "must not be negative")
		default:
			amount = parsed
		}
	}

	var txDate time.Time
	if parsed, ok := v.Date("transactionDate", payload.TransactionDate); ok {
		txDate = parsed
	}

	method := strings.ToUpper(strings.TrimSpace(payload.PaymentMethod))
	if method == "" {
		method = finance.PaymentCash
	}

	return finance.TransactionInput{
		Title:           strings.TrimSpace(payload.Title),
		Description:     payload.Description,
		Amount:          amount,
		CategoryID:      strings.TrimSpace(payload.CategoryID),
		Type:            strings.ToUpper(strings.TrimSpace(payload.Type)),
		PaymentMethod:   method,
		TransactionDate: txDate,
		PartyName:       strings.TrimSpace(payload.PartyName),
	}, v
}

func (h *Handler) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	input, v := h.validateTransaction(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.CreateTransaction(r.Context(), user.UserID, input)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "transaction_create_failed", "failed to create transaction", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "finance.transaction.create", "transaction", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit finance.transaction.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	transactionID := chi.URLParam(r, "transactionID")

	var payload transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	input, v := h.validateTransaction(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	scope, err := h.scopeFor(r, user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "finance_scope_failed", "failed to resolve transaction access", middleware.GetRequestID(r.Context()))
		return
	}

	updated, err := h.Store.UpdateTransaction(r.Context(), scope, transactionID, input)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "transaction_update_failed", "failed to update transaction", middleware.GetRequestID(r.Context()))
		return
	}
	if !updated {
		api.Fail(w, http.StatusNotFound, "not_found", "transaction not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "finance.transaction.update", "transaction", transactionID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit finance.transaction.update failed", "err", err)
	}
	api.Success(w, map[string]string{"id": transactionID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	transactionID := chi.URLParam(r, "transactionID")

	scope, err := h.scopeFor(r, user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "finance_scope_failed", "failed to resolve transaction access", middleware.GetRequestID(r.Context()))
		return
	}

	deleted, err := h.Store.DeleteTransaction(r.Context(), scope, transactionID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "transaction_delete_failed", "failed to delete transaction", middleware.GetRequestID(r.Context()))
		return
	}
	if !deleted {
		api.Fail(w, http.StatusNotFound, "not_found", "transaction not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "finance.transaction.delete", "transaction", transactionID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit finance.transaction.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	scope, err := h.scopeFor(r, user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "finance_scope_failed", "failed to resolve transaction access", middleware.GetRequestID(r.Context()))
		return
	}

	totals, err := h.Store.CategoryTotals(r.Context(), scope, nil)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "summary_failed", "failed to build summary", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, finance.BuildSummary(totals), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	v := shared.NewValidator()
	year, ok := intParam(r, "year")
	if !ok {
		v.Add("year", "must be an integer")
	}
	month, ok := intParam(r, "month")
	if !ok {
		v.Add("month", "must be an integer")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	scope, err := h.scopeFor(r, user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "finance_scope_failed", "failed to resolve transaction access", middleware.GetRequestID(r.Context()))
		return
	}

	period := finance.Period{Year: year, Month: month}
	totals, err := h.Store.CategoryTotals(r.Context(), scope, &period)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "summary_failed", "failed to build monthly summary", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, finance.BuildMonthlySummary(year, month, totals), middleware.GetRequestID(r.Context()))
}

func intParam(r *http.Request, name string) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}
