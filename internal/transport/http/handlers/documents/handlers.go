package documentshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"hradmin/internal/domain/audit"
	"hradmin/internal/domain/auth"
	"hradmin/internal/domain/documents"
	"hradmin/internal/transport/http/api"
	"hradmin/internal/transport/http/middleware"
	"hradmin/internal/transport/http/shared"
)

type Handler struct {
	Store *documents.Store
	Perms middleware.PermissionStore
	Audit *audit.Service
}

func NewHandler(store *documents.Store, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/documents", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermDocumentsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermDocumentsRead, h.Perms)).Get("/{documentID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermDocumentsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermDocumentsWrite, h.Perms)).Put("/{documentID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermDocumentsWrite, h.Perms)).Delete("/{documentID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := documents.ListFilter{
		EmployeeID:   r.URL.Query().Get("employee_id"),
		DocumentType: strings.ToLower(strings.TrimSpace(r.URL.Query().Get("document_type"))),
		PublicOnly:   r.URL.Query().Get("public") == "true",
	}

	page := shared.ParsePagination(r, 50, 200)
	docs, err := h.Store.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "documents_failed", "failed to list documents", middleware.GetRequestID(r.Context()))
		return
	}
	if docs == nil {
		docs = []documents.Document{}
	}
	api.Success(w, docs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Store.Get(r.Context(), chi.URLParam(r, "documentID"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.Fail(w, http.StatusNotFound, "not_found", "document not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "document_failed", "failed to load document", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, doc, middleware.GetRequestID(r.Context()))
}

type documentPayload struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	EmployeeID      string `json:"employeeId"`
	DocumentType    string `json:"documentType"`
	IsPublic        bool   `json:"isPublic"`
	EffectiveDate   string `json:"effectiveDate"`
	ContractEndDate string `json:"contractEndDate"`
}

func (p documentPayload) toInput(v *shared.Validator) documents.Input {
	v.Required("title", p.Title, "title is required")
	v.Required("documentType", p.DocumentType, "document type is required")

	docType := strings.ToLower(strings.TrimSpace(p.DocumentType))
	if docType != "" {
		known := false
		for _, candidate := range documents.Types {
			if docType == candidate {
				known = true
				break
			}
		}
		if !known {
			v.Add("documentType", "must be one of contract, policy, training")
		}
	}

	input := documents.Input{
		Title:        strings.TrimSpace(p.Title),
		Description:  p.Description,
		EmployeeID:   strings.TrimSpace(p.EmployeeID),
		DocumentType: docType,
		IsPublic:     p.IsPublic,
	}
	if strings.TrimSpace(p.EffectiveDate) != "" {
		if parsed, ok := v.Date("effectiveDate", p.EffectiveDate); ok {
			input.EffectiveDate = &parsed
		}
	}
	if strings.TrimSpace(p.ContractEndDate) != "" {
		if parsed, ok := v.Date("contractEndDate", p.ContractEndDate); ok {
			input.ContractEndDate = &parsed
		}
	}
	return input
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload documentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	input := payload.toInput(v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.Create(r.Context(), user.UserID, input)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "document_create_failed", "failed to create document", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "documents.create", "document", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit documents.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	documentID := chi.URLParam(r, "documentID")

	var payload documentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	input := payload.toInput(v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	updated, err := h.Store.Update(r.Context(), documentID, input)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "document_update_failed", "failed to update document", middleware.GetRequestID(r.Context()))
		return
	}
	if !updated {
		api.Fail(w, http.StatusNotFound, "not_found", "document not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "documents.update", "document", documentID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit documents.update failed", "err", err)
	}
	api.Success(w, map[string]string{"id": documentID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	documentID := chi.URLParam(r, "documentID")

	deleted, err := h.Store.Delete(r.Context(), documentID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "document_delete_failed", "failed to delete document", middleware.GetRequestID(r.Context()))
		return
	}
	if !deleted {
		api.Fail(w, http.StatusNotFound, "not_found", "document not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "documents.delete", "document", documentID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit documents.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
