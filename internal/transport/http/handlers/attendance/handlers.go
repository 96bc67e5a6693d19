package attendancehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"hradmin/internal/domain/attendance"
	"hradmin/internal/domain/audit"
	"hradmin/internal/domain/auth"
	"hradmin/internal/transport/http/api"
	"hradmin/internal/transport/http/middleware"
	"hradmin/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
	Store   *attendance.Store
	Perms   middleware.PermissionStore
	Audit   *audit.Service
}

func NewHandler(service *attendance.Service, store *attendance.Store, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Store: store, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	// Clocking in and out is open to any signed-in user, matching the
	// upstream behavior where employees punch their own card.
	r.With(middleware.RequireAuth).Post("/employees/{employeeID}/check_in", h.handleCheckIn)
	r.With(middleware.RequireAuth).Post("/employees/{employeeID}/check_out", h.handleCheckOut)

	r.Route("/attendance-history", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/{recordID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Put("/{recordID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Delete("/{recordID}", h.handleDelete)
	})
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	recordID, err := h.Service.CheckIn(r.Context(), employeeID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrAlreadyCheckedIn):
			api.Fail(w, http.StatusBadRequest, "already_checked_in", "employee already checked in today", middleware.GetRequestID(r.Context()))
		case errors.Is(err, attendance.ErrUnknownEmployee):
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "check_in_failed", "failed to record check-in", middleware.GetRequestID(r.Context()))
		}
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "attendance.check_in", "attendance_record", recordID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit attendance.check_in failed", "err", err)
	}
	api.Created(w, map[string]string{"id": recordID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	recordID, err := h.Service.CheckOut(r.Context(), employeeID, time.Now())
	if err != nil {
		if errors.Is(err, attendance.ErrNoActiveCheckIn) {
			api.Fail(w, http.StatusBadRequest, "no_active_check_in", "no active check-in to complete", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "check_out_failed", "failed to record check-out", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "attendance.check_out", "attendance_record", recordID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit attendance.check_out failed", "err", err)
	}
	api.Success(w, map[string]string{"id": recordID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := attendance.ListFilter{
		EmployeeID: r.URL.Query().Get("employee_id"),
	}
	if raw := r.URL.Query().Get("date"); raw != "" {
		v := shared.NewValidator()
		date, ok := v.Date("date", raw)
		if !ok {
			v.Reject(w, middleware.GetRequestID(r.Context()))
			return
		}
		filter.Date = &date
	}

	page := shared.ParsePagination(r, 50, 200)
	records, err := h.Store.ListRecords(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_failed", "failed to list attendance records", middleware.GetRequestID(r.Context()))
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

type recordPayload struct {
	EmployeeID   string `json:"employeeId"`
	CheckInTime  string `json:"checkInTime"`
	CheckOutTime string `json:"checkOutTime"`
}

func parseRecordTimes(payload recordPayload, v *shared.Validator) (checkIn time.Time, checkOut *time.Time) {
	v.Required("checkInTime", payload.CheckInTime, "check-in time is required")
	if strings.TrimSpace(payload.CheckInTime) != "" {
		if parsed, ok := v.Date("checkInTime", payload.CheckInTime); ok {
			checkIn = parsed
		}
	}
	if strings.TrimSpace(payload.CheckOutTime) != "" {
		if parsed, ok := v.Date("checkOutTime", payload.CheckOutTime); ok {
			checkOut = &parsed
		}
	}
	if checkOut != nil && checkOut.Before(checkIn) {
		v.Add("checkOutTime", "must be on or after checkInTime")
	}
	return checkIn, checkOut
}

// handleCreate backfills a record for corrections; the normal path is the
// check_in action.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload recordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee is required")
	checkIn, checkOut := parseRecordTimes(payload, v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	recordID, err := h.Service.Backfill(r.Context(), payload.EmployeeID, checkIn, checkOut)
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrAlreadyCheckedIn):
			api.Fail(w, http.StatusBadRequest, "already_checked_in", "a record already exists for this employee and date", middleware.GetRequestID(r.Context()))
		case errors.Is(err, attendance.ErrUnknownEmployee):
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "attendance_create_failed", "failed to create attendance record", middleware.GetRequestID(r.Context()))
		}
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "attendance.create", "attendance_record", recordID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit attendance.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": recordID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	recordID := chi.URLParam(r, "recordID")

	var payload recordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	checkIn, checkOut := parseRecordTimes(payload, v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	if err := h.Store.UpdateRecord(r.Context(), recordID, checkIn, checkOut); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.Fail(w, http.StatusNotFound, "not_found", "attendance record not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "attendance_update_failed", "failed to update attendance record", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "attendance.update", "attendance_record", recordID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit attendance.update failed", "err", err)
	}
	api.Success(w, map[string]string{"id": recordID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	record, err := h.Store.GetRecord(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.Fail(w, http.StatusNotFound, "not_found", "attendance record not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "attendance_failed", "failed to load attendance record", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	recordID := chi.URLParam(r, "recordID")

	if err := h.Store.DeleteRecord(r.Context(), recordID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.Fail(w, http.StatusNotFound, "not_found", "attendance record not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "attendance_delete_failed", "failed to delete attendance record", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "attendance.delete", "attendance_record", recordID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit attendance.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
