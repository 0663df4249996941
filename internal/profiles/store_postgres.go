package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"motorlane/internal/session"
	"motorlane/pkg/platform/sentinel"
)

// PostgresStore persists profiles in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const profileColumns = `id, full_name, email, role, stand_name, phone, status, created_at`

func (s *PostgresStore) List(ctx context.Context) ([]*Profile, error) {
	return s.query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC`)
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Profile, error) {
	return s.one(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*Profile, error) {
	return s.one(ctx, `SELECT `+profileColumns+` FROM profiles WHERE lower(email) = lower($1)`, email)
}

func (s *PostgresStore) Search(ctx context.Context, query string) ([]*Profile, error) {
	p := "%" + query + "%"
	return s.query(ctx, `
		SELECT `+profileColumns+` FROM profiles
		WHERE full_name ILIKE $1 OR email ILIKE $1
		ORDER BY created_at DESC`, p)
}

func (s *PostgresStore) Stands(ctx context.Context) ([]*Profile, error) {
	return s.query(ctx, `
		SELECT `+profileColumns+` FROM profiles
		WHERE role = $1 AND status = $2
		ORDER BY created_at DESC`, string(session.RoleStand), string(StatusApproved))
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Create(ctx context.Context, p *Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, full_name, email, role, stand_name, phone, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.FullName, p.Email, string(p.Role), p.StandName, p.Phone, string(p.Status), p.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateDetails(ctx context.Context, id, fullName, standName, phone string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET full_name = $2, stand_name = $3, phone = $4
		WHERE id = $1`, id, fullName, standName, phone)
	if err != nil {
		return fmt.Errorf("update profile details: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, status Status) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update profile status: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) one(ctx context.Context, query string, args ...any) (*Profile, error) {
	p, err := scanProfile(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*Profile, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*Profile, error) {
	var p Profile
	var role, status string
	err := row.Scan(&p.ID, &p.FullName, &p.Email, &role, &p.StandName, &p.Phone, &status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Role = session.ParseRole(role)
	p.Status = Status(status)
	return &p, nil
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
