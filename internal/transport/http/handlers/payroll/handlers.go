package payrollhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"nomina/internal/domain/payroll"
	"nomina/internal/platform/metrics"
	"nomina/internal/transport/http/api"
	"nomina/internal/transport/http/middleware"
	"nomina/internal/transport/http/shared"
)

type Handler struct {
	Service *payroll.Service
	Store   *payroll.Store
	Metrics *metrics.Collector
	Workers int

	// ListEmployees feeds bulk runs with no explicit employee list.
	ListEmployees func(r *http.Request) ([]string, error)
}

func NewHandler(svc *payroll.Service, store *payroll.Store, collector *metrics.Collector, workers int) *Handler {
	return &Handler{Service: svc, Store: store, Metrics: collector, Workers: workers}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Post("/calculate", h.handleCalculate)
		r.Post("/bulk", h.handleBulkCalculate)
		r.Post("/aguinaldo", h.handleAguinaldo)
		r.Post("/severance", h.handleSeverance)
		r.Get("/records/{employeeID}", h.handleGetRecord)
		r.Post("/records/{employeeID}/process", h.handleProcess)
		r.Get("/records/{employeeID}/payslip", h.handlePayslip)
		r.Get("/runs", h.handleListRuns)
		r.Get("/runs/{runID}", h.handleGetRun)
	})
}

type weekPayload struct {
	WeekStart string `json:"weekStart"`
	WeekEnd   string `json:"weekEnd"`
}

func (p weekPayload) parse() (payroll.WeekRange, error) {
	start, err := shared.ParseDate(p.WeekStart)
	if err != nil || start.IsZero() {
		return payroll.WeekRange{}, payroll.ErrInvalidWeek
	}
	end, err := shared.ParseDate(p.WeekEnd)
	if err != nil {
		return payroll.WeekRange{}, payroll.ErrInvalidWeek
	}
	if end.IsZero() {
		end = start.AddDate(0, 0, 6)
	}
	return payroll.NewWeekRange(start, end)
}

type ratesPayload struct {
	RegularRate        string `json:"regularRate"`
	OvertimeMultiplier string `json:"overtimeMultiplier"`
	NightDifferential  string `json:"nightDifferential"`
	HolidayPremium     string `json:"holidayPremium"`
}

func (p ratesPayload) parse() (payroll.RateConfiguration, error) {
	rates := payroll.DefaultRates()
	fields := []struct {
		dst *decimal.Decimal
		src string
	}{
		{&rates.RegularRate, p.RegularRate},
		{&rates.OvertimeMultiplier, p.OvertimeMultiplier},
		{&rates.NightDifferential, p.NightDifferential},
		{&rates.HolidayPremium, p.HolidayPremium},
	}
	for _, f := range fields {
		if f.src == "" {
			continue
		}
		parsed, err := decimal.NewFromString(f.src)
		if err != nil {
			return payroll.RateConfiguration{}, fmt.Errorf("%w: %s", payroll.ErrInvalidRate, f.src)
		}
		*f.dst = parsed
	}
	return rates, nil
}

func actor(r *http.Request) (string, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		return "", false
	}
	if user.Name != "" {
		return user.Name, true
	}
	return user.UserID, true
}

func failDomain(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, payroll.ErrEmployeeNotFound), errors.Is(err, payroll.ErrRecordNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, payroll.ErrAlreadyProcessed):
		api.Fail(w, http.StatusConflict, "already_processed", err.Error(), reqID)
	case errors.Is(err, payroll.ErrInvalidRate),
		errors.Is(err, payroll.ErrInvalidAttendance),
		errors.Is(err, payroll.ErrMissingRate),
		errors.Is(err, payroll.ErrInvalidSalary),
		errors.Is(err, payroll.ErrInvalidWeek):
		api.Fail(w, http.StatusBadRequest, "invalid_input", err.Error(), reqID)
	case errors.Is(err, payroll.ErrUnaudited):
		api.Fail(w, http.StatusInternalServerError, "audit_failed", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "operation failed", reqID)
	}
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	actingUser, ok := actor(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		EmployeeID string       `json:"employeeId"`
		weekPayload
		Rates *ratesPayload `json:"rates"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.EmployeeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employee id required", middleware.GetRequestID(r.Context()))
		return
	}

	week, err := payload.parse()
	if err != nil {
		failDomain(w, r, err)
		return
	}
	rates := payroll.DefaultRates()
	if payload.Rates != nil {
		if rates, err = payload.Rates.parse(); err != nil {
			failDomain(w, r, err)
			return
		}
	}

	record, err := h.Service.CalculateForEmployee(r.Context(), actingUser, payload.EmployeeID, week, rates)
	if h.Metrics != nil {
		h.Metrics.RecordCalculation(err)
	}
	if err != nil {
		failDomain(w, r, err)
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBulkCalculate(w http.ResponseWriter, r *http.Request) {
	actingUser, ok := actor(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		EmployeeIDs []string `json:"employeeIds"`
		weekPayload
		Rates   *ratesPayload `json:"rates"`
		Workers int           `json:"workers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	week, err := payload.parse()
	if err != nil {
		failDomain(w, r, err)
		return
	}
	rates := payroll.DefaultRates()
	if payload.Rates != nil {
		if rates, err = payload.Rates.parse(); err != nil {
			failDomain(w, r, err)
			return
		}
	}

	employeeIDs := payload.EmployeeIDs
	if len(employeeIDs) == 0 && h.ListEmployees != nil {
		if employeeIDs, err = h.ListEmployees(r); err != nil {
			api.Fail(w, http.StatusInternalServerError, "bulk_failed", "failed to load employees", middleware.GetRequestID(r.Context()))
			return
		}
	}
	if len(employeeIDs) == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "no employees to process", middleware.GetRequestID(r.Context()))
		return
	}

	workers := h.Workers
	if payload.Workers > 0 {
		workers = payload.Workers
	}

	processor := payroll.NewBulkProcessor(h.Service, workers)
	result, err := processor.Run(r.Context(), actingUser, employeeIDs, week, rates, nil)
	if h.Metrics != nil {
		h.Metrics.RecordBatchRun()
	}
	if err != nil {
		if errors.Is(err, payroll.ErrUnaudited) {
			failDomain(w, r, err)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "bulk_failed", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	actingUser, ok := actor(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	var payload struct {
		WeekStart string `json:"weekStart"`
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

	week := payroll.WeekRange{Start: weekStart, End: weekStart.AddDate(0, 0, 6)}
	record, err := h.Service.Process(r.Context(), actingUser, employeeID, week)
	if err != nil {
		failDomain(w, r, err)
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAguinaldo(w http.ResponseWriter, r *http.Request) {
	actingUser, ok := actor(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		EmployeeID  string `json:"employeeId"`
		DailySalary string `json:"dailySalary"`
		DaysWorked  int    `json:"daysWorked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	salary, err := decimal.NewFromString(payload.DailySalary)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid daily salary", middleware.GetRequestID(r.Context()))
		return
	}

	amount, err := h.Service.AnnualBonus(r.Context(), actingUser, payload.EmployeeID, salary, payload.DaysWorked)
	if err != nil {
		failDomain(w, r, err)
		return
	}
	api.Success(w, map[string]any{"employeeId": payload.EmployeeID, "amount": amount}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSeverance(w http.ResponseWriter, r *http.Request) {
	actingUser, ok := actor(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		EmployeeID  string `json:"employeeId"`
		DailySalary string `json:"dailySalary"`
		Reason      string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	salary, err := decimal.NewFromString(payload.DailySalary)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid daily salary", middleware.GetRequestID(r.Context()))
		return
	}

	amount, err := h.Service.Severance(r.Context(), actingUser, payload.EmployeeID, salary, payroll.TerminationReason(payload.Reason))
	if err != nil {
		failDomain(w, r, err)
		return
	}
	api.Success(w, map[string]any{"employeeId": payload.EmployeeID, "amount": amount, "reason": payload.Reason}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	weekStart, err := shared.ParseDate(r.URL.Query().Get("weekStart"))
	if err != nil || weekStart.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid week start", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Service.Records.Get(r.Context(), employeeID, weekStart)
	if err != nil {
		failDomain(w, r, err)
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	weekStart, err := shared.ParseDate(r.URL.Query().Get("weekStart"))
	if err != nil || weekStart.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid week start", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Service.Records.Get(r.Context(), employeeID, weekStart)
	if err != nil {
		failDomain(w, r, err)
		return
	}

	pdfBytes, err := payroll.RenderPayslipPDF(record)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to render payslip", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payslip-%s-%s.pdf", employeeID, record.WeekStart.Format("2006-01-02")))
	_, _ = w.Write(pdfBytes)
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		api.Fail(w, http.StatusNotFound, "not_found", "batch run not found", middleware.GetRequestID(r.Context()))
		return
	}
	run, err := h.Store.GetBatchRun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		failDomain(w, r, err)
		return
	}
	api.Success(w, run, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		api.Success(w, []payroll.BatchRun{}, middleware.GetRequestID(r.Context()))
		return
	}
	page := shared.ParsePagination(r, 20, 100)
	runs, err := h.Store.ListBatchRuns(r.Context(), page.Limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "runs_list_failed", "failed to list batch runs", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, runs, middleware.GetRequestID(r.Context()))
}
