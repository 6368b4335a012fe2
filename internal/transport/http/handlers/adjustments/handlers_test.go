package adjustmenthandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomina/internal/domain/adjustment"
	"nomina/internal/domain/audit"
	"nomina/internal/platform/auth"
	"nomina/internal/transport/http/middleware"
)

const testSecret = "adjustment-test-secret"

type failingTrail struct{}

func (failingTrail) Append(context.Context, audit.Entry) error {
	return errors.New("trail unavailable")
}

func (failingTrail) Query(context.Context, audit.Filter) ([]audit.Entry, error) {
	return nil, nil
}

func newTestRouter(t *testing.T, trail audit.Trail, ledger adjustment.Ledger) chi.Router {
	t.Helper()
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Auth(testSecret))
	router.Route("/api/v1", NewHandler(ledger, trail).RegisterRoutes)
	return router
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "u1", Name: "Alex"}, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func seedAdjustment(t *testing.T, ledger adjustment.Ledger) adjustment.Adjustment {
	t.Helper()
	saved, err := ledger.Add(context.Background(), adjustment.Adjustment{
		EmployeeID:   "emp-1",
		WeekStart:    time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Type:         adjustment.TypeBonus,
		Category:     adjustment.CategoryPerformance,
		Amount:       decimal.NewFromInt(150),
		Description:  "output target met",
		AuthorizedBy: "Alex",
	})
	require.NoError(t, err)
	return saved
}

func TestHandleAddAppendsAudit(t *testing.T) {
	trail := audit.NewMemoryTrail()
	router := newTestRouter(t, trail, adjustment.NewMemoryLedger())

	payload, _ := json.Marshal(map[string]any{
		"employeeId":  "emp-1",
		"weekStart":   "2024-03-04",
		"type":        "bonus",
		"category":    "performance",
		"amount":      "150",
		"description": "output target met",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/adjustments/", bytes.NewReader(payload))
	req.Header.Set("Authorization", bearerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	entries := trail.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionAdjustmentAdded, entries[0].Action)
	assert.Equal(t, "emp-1", entries[0].EmployeeRef)
}

func TestHandleRemoveAppendsAudit(t *testing.T) {
	trail := audit.NewMemoryTrail()
	ledger := adjustment.NewMemoryLedger()
	router := newTestRouter(t, trail, ledger)
	saved := seedAdjustment(t, ledger)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/adjustments/"+saved.ID, nil)
	req.Header.Set("Authorization", bearerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	entries := trail.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionAdjustmentRemoved, entries[0].Action)
}

func TestHandleRemoveAuditFailureSurfaces(t *testing.T) {
	ledger := adjustment.NewMemoryLedger()
	router := newTestRouter(t, failingTrail{}, ledger)
	saved := seedAdjustment(t, ledger)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/adjustments/"+saved.ID, nil)
	req.Header.Set("Authorization", bearerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var envelope struct {
		Success bool `json:"success"`
		Error   *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "audit_failed", envelope.Error.Code)
}

func TestHandleRemoveUnknownAdjustment(t *testing.T) {
	router := newTestRouter(t, audit.NewMemoryTrail(), adjustment.NewMemoryLedger())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/adjustments/missing", nil)
	req.Header.Set("Authorization", bearerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
