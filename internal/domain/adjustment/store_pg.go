package adjustment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Add(ctx context.Context, adj Adjustment) (Adjustment, error) {
	if err := adj.Validate(); err != nil {
		return Adjustment{}, err
	}
	if adj.ID == "" {
		adj.ID = uuid.NewString()
	}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO adjustments (id, employee_id, payroll_id, week_start, adj_type, category, amount, description, authorized_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING created_at
  `, adj.ID, adj.EmployeeID, adj.PayrollID, adj.WeekStart, adj.Type, adj.Category, adj.Amount.StringFixed(2), adj.Description, adj.AuthorizedBy).Scan(&adj.CreatedAt)
	if err != nil {
		return Adjustment{}, err
	}
	return adj, nil
}

func (s *Store) ListFor(ctx context.Context, employeeID string, weekStart, weekEnd time.Time) ([]Adjustment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, payroll_id, week_start, adj_type, category, amount::text, description, authorized_by, created_at
    FROM adjustments
    WHERE employee_id = $1 AND week_start >= $2 AND week_start <= $3
    ORDER BY created_at
  `, employeeID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Adjustment
	for rows.Next() {
		var adj Adjustment
		var amount string
		if err := rows.Scan(&adj.ID, &adj.EmployeeID, &adj.PayrollID, &adj.WeekStart, &adj.Type, &adj.Category, &amount, &adj.Description, &adj.AuthorizedBy, &adj.CreatedAt); err != nil {
			return nil, err
		}
		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		adj.Amount = parsed
		out = append(out, adj)
	}
	return out, rows.Err()
}

func (s *Store) Remove(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM adjustments WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
