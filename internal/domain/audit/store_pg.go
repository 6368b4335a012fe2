package audit

import (
	"context"
	"fmt"

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

func (s *Store) Append(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_entries (id, action, employee_ref, amount, actor, details)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, entry.ID, entry.Action, entry.EmployeeRef, entry.Amount.StringFixed(2), entry.User, entry.Details)
	if err != nil {
		return fmt.Errorf("audit append: %w", err)
	}
	return nil
}

func (s *Store) Query(ctx context.Context, filter Filter) ([]Entry, error) {
	query := "SELECT id, action, employee_ref, amount::text, created_at, actor, details FROM audit_entries WHERE 1=1"
	var args []any
	if filter.Action != "" {
		args = append(args, filter.Action)
		query += fmt.Sprintf(" AND action = $%d", len(args))
	}
	if filter.EmployeeRef != "" {
		args = append(args, filter.EmployeeRef)
		query += fmt.Sprintf(" AND employee_ref = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	if filter.Ascending {
		query += " ORDER BY created_at ASC"
	} else {
		query += " ORDER BY created_at DESC"
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var entry Entry
		var amount string
		if err := rows.Scan(&entry.ID, &entry.Action, &entry.EmployeeRef, &amount, &entry.Timestamp, &entry.User, &entry.Details); err != nil {
			return nil, err
		}
		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		entry.Amount = parsed
		out = append(out, entry)
	}
	return out, rows.Err()
}
