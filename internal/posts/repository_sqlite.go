package posts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

var _ Repository = (*SQLiteRepository)(nil)

// Timestamps are unix milliseconds so ORDER BY compares integers.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS posts (
    id         TEXT PRIMARY KEY,
    title      TEXT NOT NULL,
    content    TEXT NOT NULL,
    tags       TEXT NOT NULL DEFAULT '[]',
    status     TEXT NOT NULL DEFAULT 'draft',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS posts_updated_at_idx ON posts (updated_at DESC);`

const sqliteColumns = `id, title, content, tags, status, created_at, updated_at`

type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database file and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate posts: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Create(ctx context.Context, p *Post) (*Post, error) {
	tags, err := json.Marshal(nonNil(p.Tags))
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO posts (`+sqliteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, p.Title, p.Content, string(tags), string(p.Status), p.CreatedAt.UnixMilli(), p.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Post, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM posts WHERE id = ?`, id)
	post, err := scanSQLite(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select post: %w", err)
	}
	return post, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*Post, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sqliteColumns+` FROM posts ORDER BY updated_at DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}
	defer rows.Close()

	list := make([]*Post, 0)
	for rows.Next() {
		post, err := scanSQLite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		list = append(list, post)
	}
	return list, rows.Err()
}

func (r *SQLiteRepository) Update(ctx context.Context, id string, u Update) (*Post, error) {
	tags, err := json.Marshal(nonNil(u.Tags))
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE posts SET title = ?, content = ?, tags = ?, status = COALESCE(?, status), updated_at = ? WHERE id = ?`,
		u.Title, u.Content, string(tags), statusParam(u.Status), u.UpdatedAt.UnixMilli(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func scanSQLite(row rowScanner) (*Post, error) {
	var (
		p                    Post
		tags, status         string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &tags, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	p.Status = Status(status)
	p.CreatedAt = time.UnixMilli(createdAt).UTC()
	p.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	p.normalize()
	return &p, nil
}
