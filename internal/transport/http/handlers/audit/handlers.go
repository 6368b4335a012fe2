package audithandler

import (
	"encoding/csv"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"nomina/internal/domain/audit"
	"nomina/internal/transport/http/api"
	"nomina/internal/transport/http/middleware"
	"nomina/internal/transport/http/shared"
)

type Handler struct {
	Trail audit.Trail
}

func NewHandler(trail audit.Trail) *Handler {
	return &Handler{Trail: trail}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.Get("/", h.handleListEntries)
		r.Get("/summary", h.handleSummary)
		r.Get("/export", h.handleExport)
	})
}

func filterFromQuery(r *http.Request) (audit.Filter, error) {
	from, err := shared.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		return audit.Filter{}, err
	}
	to, err := shared.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		return audit.Filter{}, err
	}
	return audit.Filter{
		Action:      audit.Action(r.URL.Query().Get("action")),
		EmployeeRef: r.URL.Query().Get("employeeRef"),
		From:        from,
		To:          to,
		Ascending:   r.URL.Query().Get("order") == "asc",
	}, nil
}

func (h *Handler) handleListEntries(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid date filter", middleware.GetRequestID(r.Context()))
		return
	}

	entries, err := h.Trail.Query(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_query_failed", "failed to query audit trail", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, entries, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid date filter", middleware.GetRequestID(r.Context()))
		return
	}

	entries, err := h.Trail.Query(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_query_failed", "failed to query audit trail", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, audit.Summarize(entries), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	filter, err := filterFromQuery(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid date filter", middleware.GetRequestID(r.Context()))
		return
	}
	filter.Ascending = true

	entries, err := h.Trail.Query(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_query_failed", "failed to query audit trail", middleware.GetRequestID(r.Context()))
		return
	}

	// The export entry goes in before any CSV bytes leave, so an append
	// failure can still turn into an error response.
	if err := h.Trail.Append(r.Context(), audit.Entry{
		Action:      audit.ActionExport,
		EmployeeRef: "audit_trail",
		Amount:      decimal.Zero,
		User:        user.Name,
	}); err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_failed", "export audit append failed", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=audit-trail.csv")
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "action", "employee_ref", "amount", "timestamp", "user", "details"}); err != nil {
		log.Printf("audit export header write failed: %v", err)
	}
	for _, entry := range entries {
		row := []string{
			entry.ID,
			string(entry.Action),
			entry.EmployeeRef,
			entry.Amount.StringFixed(2),
			entry.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
			entry.User,
			entry.Details,
		}
		if err := writer.Write(row); err != nil {
			log.Printf("audit export row write failed: %v", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Printf("audit export flush failed: %v", err)
	}
}
