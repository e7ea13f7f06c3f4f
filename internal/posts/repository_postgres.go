package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var _ Repository = (*PostgresRepository)(nil)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS posts (
    id         UUID PRIMARY KEY,
    title      TEXT NOT NULL,
    content    TEXT NOT NULL,
    tags       TEXT[] NOT NULL DEFAULT '{}',
    status     TEXT NOT NULL DEFAULT 'draft',
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS posts_updated_at_idx ON posts (updated_at DESC);`

const postgresColumns = `id, title, content, tags, status, created_at, updated_at`

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("migrate posts: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *Post) (*Post, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO posts (`+postgresColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+postgresColumns,
		uuid.New(), p.Title, p.Content, pq.Array(nonNil(p.Tags)), string(p.Status), p.CreatedAt, p.UpdatedAt,
	)
	post, err := scanPostgres(row)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return post, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+postgresColumns+` FROM posts WHERE id = $1`, id)
	post, err := scanPostgres(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select post: %w", err)
	}
	return post, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*Post, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+postgresColumns+` FROM posts ORDER BY updated_at DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}
	defer rows.Close()

	list := make([]*Post, 0)
	for rows.Next() {
		post, err := scanPostgres(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		list = append(list, post)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) Update(ctx context.Context, id string, u Update) (*Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx,
		`UPDATE posts
		 SET title = $2, content = $3, tags = $4, status = COALESCE($5, status), updated_at = $6
		 WHERE id = $1
		 RETURNING `+postgresColumns,
		id, u.Title, u.Content, pq.Array(nonNil(u.Tags)), statusParam(u.Status), u.UpdatedAt,
	)
	post, err := scanPostgres(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgres(row rowScanner) (*Post, error) {
	var (
		p      Post
		status string
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Content, pq.Array(&p.Tags), &status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Status = Status(status)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	p.normalize()
	return &p, nil
}

func statusParam(s *Status) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*s), Valid: true}
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
