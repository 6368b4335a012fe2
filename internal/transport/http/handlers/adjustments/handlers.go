package adjustmenthandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"nomina/internal/domain/adjustment"
	"nomina/internal/domain/audit"
	"nomina/internal/transport/http/api"
	"nomina/internal/transport/http/middleware"
	"nomina/internal/transport/http/shared"
)

type Handler struct {
	Ledger adjustment.Ledger
	Audit  audit.Trail
}

func NewHandler(ledger adjustment.Ledger, trail audit.Trail) *Handler {
	return &Handler{Ledger: ledger, Audit: trail}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/adjustments", func(r chi.Router) {
		r.Post("/", h.handleAdd)
		r.Get("/", h.handleList)
		r.Delete("/{adjustmentID}", h.handleRemove)
	})
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		EmployeeID  string `json:"employeeId"`
		WeekStart   string `json:"weekStart"`
		Type        string `json:"type"`
		Category    string `json:"category"`
		Amount      string `json:"amount"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	weekStart, err := shared.ParseDate(payload.WeekStart)
	if err != nil || weekStart.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid week start", middleware.GetRequestID(r.Context()))
		return
	}
	amount, err := decimal.NewFromString(payload.Amount)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid amount", middleware.GetRequestID(r.Context()))
		return
	}

	adj := adjustment.Adjustment{
		EmployeeID:   payload.EmployeeID,
		WeekStart:    weekStart,
		Type:         adjustment.Type(payload.Type),
		Category:     adjustment.Category(payload.Category),
		Amount:       amount,
		Description:  payload.Description,
		AuthorizedBy: user.Name,
	}
	saved, err := h.Ledger.Add(r.Context(), adj)
	if err != nil {
		if errors.Is(err, adjustment.ErrValidation) {
			api.Fail(w, http.StatusBadRequest, "invalid_adjustment", err.Error(), middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "adjustment_create_failed", "failed to create adjustment", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Append(r.Context(), audit.Entry{
		Action:      audit.ActionAdjustmentAdded,
		EmployeeRef: saved.EmployeeID,
		Amount:      saved.Amount,
		User:        user.Name,
		Details:     string(saved.Type) + ": " + saved.Description,
	}); err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_failed", "adjustment saved but audit append failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, saved, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employee id required", middleware.GetRequestID(r.Context()))
		return
	}
	weekStart, err := shared.ParseDate(r.URL.Query().Get("weekStart"))
	if err != nil || weekStart.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid week start", middleware.GetRequestID(r.Context()))
		return
	}
	weekEnd, err := shared.ParseDate(r.URL.Query().Get("weekEnd"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid week end", middleware.GetRequestID(r.Context()))
		return
	}
	if weekEnd.IsZero() {
		weekEnd = weekStart.AddDate(0, 0, 6)
	}

	adjs, err := h.Ledger.ListFor(r.Context(), employeeID, weekStart, weekEnd)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "adjustments_list_failed", "failed to list adjustments", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, adjs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	adjustmentID := chi.URLParam(r, "adjustmentID")
	if err := h.Ledger.Remove(r.Context(), adjustmentID); err != nil {
		if errors.Is(err, adjustment.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "adjustment not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "adjustment_delete_failed", "failed to delete adjustment", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Append(r.Context(), audit.Entry{
		Action:      audit.ActionAdjustmentRemoved,
		EmployeeRef: adjustmentID,
		Amount:      decimal.Zero,
		User:        user.Name,
	}); err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_failed", "adjustment deleted but audit append failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
