package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreUpsertKeepsOneRowPerWeek(t *testing.T) {
	store := NewMemoryRecordStore()
	ctx := context.Background()
	weekStart := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	record := PayrollRecord{
		EmployeeID: "emp-1",
		WeekStart:  weekStart,
		WeekEnd:    weekStart.AddDate(0, 0, 6),
		NetPay:     decimal.NewFromInt(1500),
	}

	first, err := store.Upsert(ctx, record)
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	record.NetPay = decimal.NewFromInt(1600)
	second, err := store.Upsert(ctx, record)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.Len())

	stored, err := store.Get(ctx, "emp-1", weekStart)
	require.NoError(t, err)
	assert.Equal(t, "1600.00", stored.NetPay.StringFixed(2))
}

func TestMemoryStoreProcessedRowRejectsUpsert(t *testing.T) {
	store := NewMemoryRecordStore()
	ctx := context.Background()
	weekStart := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	saved, err := store.Upsert(ctx, PayrollRecord{EmployeeID: "emp-1", WeekStart: weekStart})
	require.NoError(t, err)

	processed, err := store.MarkProcessed(ctx, saved.ID, "supervisor")
	require.NoError(t, err)
	assert.True(t, processed.Processed)

	_, err = store.Upsert(ctx, PayrollRecord{EmployeeID: "emp-1", WeekStart: weekStart})
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	_, err = store.MarkProcessed(ctx, saved.ID, "supervisor")
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestMemoryStoreMissingRows(t *testing.T) {
	store := NewMemoryRecordStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "nobody", time.Now())
	assert.ErrorIs(t, err, ErrRecordNotFound)

	_, err = store.MarkProcessed(ctx, "missing-id", "supervisor")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
