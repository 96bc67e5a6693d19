package performancehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"hradmin/internal/domain/audit"
	"hradmin/internal/domain/auth"
	"hradmin/internal/domain/performance"
	"hradmin/internal/transport/http/api"
	"hradmin/internal/transport/http/middleware"
	"hradmin/internal/transport/http/shared"
)

type Handler struct {
	Store *performance.Store
	Perms middleware.PermissionStore
	Audit *audit.Service
}

func NewHandler(store *performance.Store, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/performance-reviews", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPerformanceRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermPerformanceRead, h.Perms)).Get("/{reviewID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermPerformanceWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermPerformanceWrite, h.Perms)).Put("/{reviewID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermPerformanceWrite, h.Perms)).Delete("/{reviewID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	reviews, err := h.Store.List(r.Context(), r.URL.Query().Get("employee_id"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "reviews_failed", "failed to list performance reviews", middleware.GetRequestID(r.Context()))
		return
	}
	if reviews == nil {
		reviews = []performance.Review{}
	}
	api.Success(w, reviews, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	review, err := h.Store.Get(r.Context(), chi.URLParam(r, "reviewID"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.Fail(w, http.StatusNotFound, "not_found", "performance review not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "review_failed", "failed to load performance review", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, review, middleware.GetRequestID(r.Context()))
}

type reviewPayload struct {
	EmployeeID          string `json:"employeeId"`
	ReviewDate          string `json:"reviewDate"`
	Period              string `json:"period"`
	QualityOfWork       int    `json:"qualityOfWork"`
	Attendance          int    `json:"attendance"`
	Communication       int    `json:"communication"`
	Teamwork            int    `json:"teamwork"`
	Initiative          int    `json:"initiative"`
	Comments            string `json:"comments"`
	RecommendedTraining string `json:"recommendedTraining"`
}

func (p reviewPayload) toInput(v *shared.Validator, requireEmployee bool) performance.Input {
	if requireEmployee {
		v.Required("employeeId", p.EmployeeID, "employee is required")
	}
	v.Required("period", p.Period, "review period is required")

	scores := map[string]int{
		"qualityOfWork": p.QualityOfWork,
		"attendance":    p.Attendance,
		"communication": p.Communication,
		"teamwork":      p.Teamwork,
		"initiative":    p.Initiative,
	}
	for field, score := range scores {
		if score < 0 {
			v.Add(field, "must not be negative")
		}
	}

	input := performance.Input{
		EmployeeID:          strings.TrimSpace(p.EmployeeID),
		ReviewDate:          time.Now(),
		Period:              strings.TrimSpace(p.Period),
		QualityOfWork:       p.QualityOfWork,
		Attendance:          p.Attendance,
		Communication:       p.Communication,
		Teamwork:            p.Teamwork,
		Initiative:          p.Initiative,
		Comments:            p.Comments,
		RecommendedTraining: p.RecommendedTraining,
	}
	if strings.TrimSpace(p.ReviewDate) != "" {
		if parsed, ok := v.Date("reviewDate", p.ReviewDate); ok {
			input.ReviewDate = parsed
		}
	}
	return input
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload reviewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	input := payload.toInput(v, true)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.Create(r.Context(), user.UserID, input)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "review_create_failed", "failed to create performance review", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "performance.create", "performance_review", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit performance.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reviewID := chi.URLParam(r, "reviewID")

	var payload reviewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	input := payload.toInput(v, false)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	updated, err := h.Store.Update(r.Context(), reviewID, input)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "review_update_failed", "failed to update performance review", middleware.GetRequestID(r.Context()))
		return
	}
	if !updated {
		api.Fail(w, http.StatusNotFound, "not_found", "performance review not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "performance.update", "performance_review", reviewID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit performance.update failed", "err", err)
	}
	api.Success(w, map[string]string{"id": reviewID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reviewID := chi.URLParam(r, "reviewID")

	deleted, err := h.Store.Delete(r.Context(), reviewID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "review_delete_failed", "failed to delete performance review", middleware.GetRequestID(r.Context()))
		return
	}
	if !deleted {
		api.Fail(w, http.StatusNotFound, "not_found", "performance review not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "performance.delete", "performance_review", reviewID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit performance.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
