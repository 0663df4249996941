package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"motorlane/pkg/platform/sentinel"
)

// PostgresStore persists articles in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const postColumns = `id, title, excerpt, content, author, date, image, reading_time`

func (s *PostgresStore) List(ctx context.Context) ([]*Post, error) {
	return s.query(ctx, `SELECT `+postColumns+` FROM blog_posts ORDER BY date DESC`)
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM blog_posts WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) Search(ctx context.Context, query string) ([]*Post, error) {
	p := "%" + query + "%"
	return s.query(ctx, `
		SELECT `+postColumns+` FROM blog_posts
		WHERE title ILIKE $1 OR author ILIKE $1
		ORDER BY date DESC`, p)
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_posts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Create(ctx context.Context, post *Post) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blog_posts (id, title, excerpt, content, author, date, image, reading_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		post.ID, post.Title, post.Excerpt, post.Content, post.Author,
		post.Date, post.Image, post.ReadingTime)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var out []*Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Excerpt, &p.Content, &p.Author,
		&p.Date, &p.Image, &p.ReadingTime)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
