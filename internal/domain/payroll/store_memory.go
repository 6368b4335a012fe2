package payroll

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRecordStore implements RecordStore for tests and local runs with the
// same processed-row semantics as the postgres store.
type MemoryRecordStore struct {
	mu      sync.Mutex
	records map[string]PayrollRecord
}

func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{records: map[string]PayrollRecord{}}
}

func recordKey(employeeID string, weekStart time.Time) string {
	return employeeID + "|" + weekStart.UTC().Format("2006-01-02")
}

func (m *MemoryRecordStore) Get(_ context.Context, employeeID string, weekStart time.Time) (PayrollRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[recordKey(employeeID, weekStart)]
	if !ok {
		return PayrollRecord{}, ErrRecordNotFound
	}
	return record, nil
}

func (m *MemoryRecordStore) Upsert(_ context.Context, record PayrollRecord) (PayrollRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := recordKey(record.EmployeeID, record.WeekStart)
	if existing, ok := m.records[key]; ok {
		if existing.Processed {
			return PayrollRecord{}, ErrAlreadyProcessed
		}
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	m.records[key] = record
	return record, nil
}

func (m *MemoryRecordStore) MarkProcessed(_ context.Context, recordID, processedBy string) (PayrollRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, record := range m.records {
		if record.ID != recordID {
			continue
		}
		if record.Processed {
			return PayrollRecord{}, ErrAlreadyProcessed
		}
		now := time.Now().UTC()
		record.Processed = true
		record.ProcessedBy = processedBy
		record.ProcessedAt = &now
		m.records[key] = record
		return record, nil
	}
	return PayrollRecord{}, ErrRecordNotFound
}

// Len reports how many records are stored.
func (m *MemoryRecordStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
