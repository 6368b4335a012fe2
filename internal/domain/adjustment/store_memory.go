package adjustment

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryLedger keeps adjustments in insertion order. Used by tests and by the
// engine when no database is configured.
type MemoryLedger struct {
	mu      sync.Mutex
	entries []Adjustment
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

func (m *MemoryLedger) Add(_ context.Context, adj Adjustment) (Adjustment, error) {
	if err := adj.Validate(); err != nil {
		return Adjustment{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if adj.ID == "" {
		adj.ID = uuid.NewString()
	}
	if adj.CreatedAt.IsZero() {
		adj.CreatedAt = time.Now().UTC()
	}
	m.entries = append(m.entries, adj)
	return adj, nil
}

func (m *MemoryLedger) ListFor(_ context.Context, employeeID string, weekStart, weekEnd time.Time) ([]Adjustment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Adjustment
	for _, adj := range m.entries {
		if adj.EmployeeID != employeeID {
			continue
		}
		if adj.WeekStart.Before(weekStart) || adj.WeekStart.After(weekEnd) {
			continue
		}
		out = append(out, adj)
	}
	return out, nil
}

func (m *MemoryLedger) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, adj := range m.entries {
		if adj.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
