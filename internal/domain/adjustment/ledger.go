package adjustment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Ledger stores manual bonus/deduction entries scoped to one employee and week.
type Ledger interface {
	Add(ctx context.Context, adj Adjustment) (Adjustment, error)
	ListFor(ctx context.Context, employeeID string, weekStart, weekEnd time.Time) ([]Adjustment, error)
	Remove(ctx context.Context, id string) error
}

// Fold sums ledger entries by type. Consumers re-derive this on every read so
// ledger edits are always reflected in the final gross/net.
func Fold(adjs []Adjustment) (bonuses, deductions decimal.Decimal) {
	bonuses, deductions = decimal.Zero, decimal.Zero
	for _, adj := range adjs {
		switch adj.Type {
		case TypeBonus:
			bonuses = bonuses.Add(adj.Amount)
		case TypeDeduction:
			deductions = deductions.Add(adj.Amount)
		}
	}
	return bonuses, deductions
}
