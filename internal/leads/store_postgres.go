package leads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"motorlane/pkg/platform/sentinel"
)

// PostgresStore persists leads in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const leadColumns = `id, car_id, customer_name, customer_email, customer_phone, message, status, created_at`

func (s *PostgresStore) List(ctx context.Context) ([]*Lead, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var out []*Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Lead, error) {
	l, err := scanLead(s.db.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Create(ctx context.Context, lead *Lead) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leads (id, car_id, customer_name, customer_email, customer_phone, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		lead.ID, lead.CarID, lead.CustomerName, lead.CustomerEmail,
		lead.CustomerPhone, lead.Message, string(lead.Status), lead.CreatedAt)
	if err != nil {
		return fmt.Errorf("create lead: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, status Status) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*Lead, error) {
	var l Lead
	var status string
	err := row.Scan(&l.ID, &l.CarID, &l.CustomerName, &l.CustomerEmail,
		&l.CustomerPhone, &l.Message, &status, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	l.Status = Status(status)
	return &l, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
