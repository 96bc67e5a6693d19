package leavehandler

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
	"hradmin/internal/domain/core"
	"hradmin/internal/domain/leave"
	"hradmin/internal/transport/http/api"
	"hradmin/internal/transport/http/middleware"
	"hradmin/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Store   *leave.Store
	Core    *core.Store
	Perms   middleware.PermissionStore
	Audit   *audit.Service
}

func NewHandler(service *leave.Service, store *leave.Store, coreStore *core.Store, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Store: store, Core: coreStore, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leaves", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/{leaveID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Put("/{leaveID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Delete("/{leaveID}", h.handleDelete)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/{leaveID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/{leaveID}/reject", h.handleReject)
	})
}

// scopeFor resolves the caller's visibility scope before any other input is
// considered; it gates listing, detail reads, and mutations alike. Privileged
// roles and the read-all grant see everything; other callers reach only their
// own employee's rows.
func (h *Handler) scopeFor(r *http.Request, user auth.UserContext) (leave.Scope, error) {
	if auth.PrivilegedLeaveRoles[user.RoleName] {
		return leave.Scope{All: true}, nil
	}
	allowed, err := h.Perms.HasPermission(r.Context(), user.RoleID, auth.PermLeaveReadAll)
	if err != nil {
		return leave.Scope{}, err
	}
	if allowed {
		return leave.Scope{All: true}, nil
	}

	employeeID, err := h.Core.EmployeeIDByUserID(r.Context(), user.UserID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return leave.Scope{}, err
	}
	return leave.Scope{EmployeeID: employeeID}, nil
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	scope, err := h.scopeFor(r, user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_scope_failed", "failed to resolve leave access", middleware.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	leaves, err := h.Store.List(r.Context(), scope, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leaves_failed", "failed to list leaves", middleware.GetRequestID(r.Context()))
		return
	}
	if leaves == nil {
		leaves = []leave.Leave{}
	}
	api.Success(w, leaves, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	scope, err := h.scopeFor(r, user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_scope_failed", "failed to resolve leave access", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Store.Get(r.Context(), scope, chi.URLParam(r, "leaveID"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.Fail(w, http.StatusNotFound, "not_found", "leave not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "leave_failed", "failed to load leave", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

type leavePayload struct {
	EmployeeID string `json:"employeeId"`
	LeaveType  string `json:"leaveType"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Reason     string `json:"reason"`
}

func (h *Handler) validateLeave(payload leavePayload, checkPast bool) (start, end time.Time, v *shared.Validator) {
	v = shared.NewValidator()
	v.Required("leaveType", payload.LeaveType, "leave type is required")
	v.Enum("leaveType", payload.LeaveType, leave.Types, "must be one of SICK, VACATION, PERSONAL, OTHER")
	if leave.ReasonTooLong(payload.Reason) {
		v.Add("reason", "must be at most 500 characters")
	}

	start, startOK := v.Date("startDate", payload.StartDate)
	end, endOK := v.Date("endDate", payload.EndDate)
	if startOK && endOK && !leave.DatesOrdered(start, end) {
		v.Add("endDate", "must be on or after startDate")
	}
	if checkPast && startOK && leave.StartsInPast(start, time.Now()) {
		v.Add("startDate", "must not be in the past")
	}
	return start, end, v
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload leavePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	start, end, v := h.validateLeave(payload, true)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	employeeID := strings.TrimSpace(payload.EmployeeID)
	if employeeID == "" {
		own, err := h.Core.EmployeeIDByUserID(r.Context(), user.UserID)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "no_employee", "no employee profile linked to this account", middleware.GetRequestID(r.Context()))
			return
		}
		employeeID = own
	}

	id, err := h.Store.Create(r.Context(), employeeID, strings.ToUpper(strings.TrimSpace(payload.LeaveType)), start, end, payload.Reason)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_create_failed", "failed to create leave", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "leave.create", "leave", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit leave.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	leaveID := chi.URLParam(r, "leaveID")

	var payload leavePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	start, end, v := h.validateLeave(payload, false)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	scope, err := h.scopeFor(r, user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_scope_failed", "failed to resolve leave access", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Store.Update(r.Context(), scope, leaveID, strings.ToUpper(strings.TrimSpace(payload.LeaveType)), start, end, payload.Reason); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.Fail(w, http.StatusNotFound, "not_found", "leave not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "leave_update_failed", "failed to update leave", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "leave.update", "leave", leaveID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit leave.update failed", "err", err)
	}
	api.Success(w, map[string]string{"id": leaveID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	leaveID := chi.URLParam(r, "leaveID")

	scope, err := h.scopeFor(r, user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_scope_failed", "failed to resolve leave access", middleware.GetRequestID(r.Context()))
		return
	}

	deleted, err := h.Store.Delete(r.Context(), scope, leaveID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_delete_failed", "failed to delete leave", middleware.GetRequestID(r.Context()))
		return
	}
	if !deleted {
		api.Fail(w, http.StatusNotFound, "not_found", "leave not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "leave.delete", "leave", leaveID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit leave.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "approve")
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "reject")
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, action string) {
	user, _ := middleware.GetUser(r.Context())
	leaveID := chi.URLParam(r, "leaveID")

	var err error
	if action == "approve" {
		err = h.Service.Approve(r.Context(), leaveID, user.UserID)
	} else {
		err = h.Service.Reject(r.Context(), leaveID, user.UserID)
	}
	if err != nil {
		var stateErr *leave.InvalidStateError
		switch {
		case errors.Is(err, leave.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "leave not found", middleware.GetRequestID(r.Context()))
		case errors.As(err, &stateErr):
			api.Fail(w, http.StatusBadRequest, "invalid_state", stateErr.Error(), middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "leave_"+action+"_failed", "failed to "+action+" leave", middleware.GetRequestID(r.Context()))
		}
		return
	}

	// Approvers just moved the row, so fetch it back unscoped.
	record, err := h.Store.Get(r.Context(), leave.Scope{All: true}, leaveID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_failed", "failed to load leave", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "leave."+action, "leave", leaveID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"status": record.Status}); err != nil {
		slog.Warn("audit leave."+action+" failed", "err", err)
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}
