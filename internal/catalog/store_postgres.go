package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"motorlane/pkg/platform/sentinel"
)

// PostgresStore persists listings in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const carColumns = `id, brand, model, year, price, mileage, fuel, transmission,
	image, description, stand_name, verified, location, category, user_id, created_at`

func (s *PostgresStore) List(ctx context.Context, filter Filter) ([]*Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.Brand != "" {
		query += ` AND lower(brand) = lower(` + arg(filter.Brand) + `)`
	}
	if filter.Category != "" {
		query += ` AND lower(category) = lower(` + arg(filter.Category) + `)`
	}
	if filter.MaxPrice > 0 {
		query += ` AND price <= ` + arg(filter.MaxPrice)
	}
	if filter.Query != "" {
		p := arg("%" + filter.Query + "%")
		query += ` AND (brand ILIKE ` + p + ` OR model ILIKE ` + p + ` OR description ILIKE ` + p + `)`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	defer rows.Close()
	return scanCars(rows)
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Car, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+carColumns+` FROM cars WHERE id = $1`, id)
	car, err := scanCar(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get car: %w", err)
	}
	return car, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]*Car, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+carColumns+` FROM cars WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cars by user: %w", err)
	}
	defer rows.Close()
	return scanCars(rows)
}

func (s *PostgresStore) Brands(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, `SELECT DISTINCT brand FROM cars WHERE brand <> '' ORDER BY brand`)
}

func (s *PostgresStore) Categories(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, `SELECT DISTINCT category FROM cars WHERE category <> '' ORDER BY category`)
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cars`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cars: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Create(ctx context.Context, car *Car) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cars (id, brand, model, year, price, mileage, fuel, transmission,
			image, description, stand_name, verified, location, category, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		car.ID, car.Brand, car.Model, car.Year, car.Price, car.Mileage, car.Fuel,
		car.Transmission, car.Image, car.Description, car.StandName, car.Verified,
		car.Location, car.Category, car.UserID, car.CreatedAt)
	if err != nil {
		return fmt.Errorf("create car: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, car *Car) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE cars SET brand = $2, model = $3, year = $4, price = $5, mileage = $6,
			fuel = $7, transmission = $8, image = $9, description = $10,
			stand_name = $11, verified = $12, location = $13, category = $14
		WHERE id = $1`,
		car.ID, car.Brand, car.Model, car.Year, car.Price, car.Mileage, car.Fuel,
		car.Transmission, car.Image, car.Description, car.StandName, car.Verified,
		car.Location, car.Category)
	if err != nil {
		return fmt.Errorf("update car: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete car: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("distinct values: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan distinct value: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCar(row rowScanner) (*Car, error) {
	var c Car
	err := row.Scan(&c.ID, &c.Brand, &c.Model, &c.Year, &c.Price, &c.Mileage, &c.Fuel,
		&c.Transmission, &c.Image, &c.Description, &c.StandName, &c.Verified,
		&c.Location, &c.Category, &c.UserID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCars(rows *sql.Rows) ([]*Car, error) {
	var out []*Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan car: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
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
