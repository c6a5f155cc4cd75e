package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/benjination/portfolio-blog/blog/domain"
	"github.com/benjination/portfolio-blog/shared/db"
)

var _ domain.PostRepository = (*SQLitePostRepository)(nil)

// SQLitePostRepository implements domain.PostRepository using SQL database (SQLite)
type SQLitePostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new SQLitePostRepository from a standard sql.DB
func NewPostRepository(db *sql.DB) *SQLitePostRepository {
	return &SQLitePostRepository{
		db: db,
	}
}

const upsertPostQuery = `
	INSERT INTO posts (id, title, excerpt, author, date_created, date_updated, index_path, flat_path, content_hash, generated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title,
		excerpt = excluded.excerpt,
		author = excluded.author,
		date_created = excluded.date_created,
		date_updated = excluded.date_updated,
		index_path = excluded.index_path,
		flat_path = excluded.flat_path,
		content_hash = excluded.content_hash,
		generated_at = excluded.generated_at
`

// UpsertPost inserts or replaces the index record of a generated page
func (r *SQLitePostRepository) UpsertPost(ctx context.Context, p *domain.GeneratedPost) error {
	if p == nil {
		return fmt.Errorf("post cannot be nil")
	}

	if p.ID == "" {
		return fmt.Errorf("post ID cannot be empty")
	}

	generatedAt := p.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	executor := db.GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, upsertPostQuery,
		p.ID,
		p.Title,
		p.Excerpt,
		p.Author,
		p.DateCreated,
		p.DateUpdated,
		p.IndexPath,
		p.FlatPath,
		p.ContentHash,
		generatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert post: %w", err)
	}

	return nil
}

// ReplaceAll swaps the whole index for the posts of one generation run.
// Either every post is recorded or the previous index is kept.
func (r *SQLitePostRepository) ReplaceAll(ctx context.Context, posts []*domain.GeneratedPost) error {
	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)
		if _, err := executor.ExecContext(txCtx, `DELETE FROM posts`); err != nil {
			return fmt.Errorf("failed to clear posts: %w", err)
		}

		for _, p := range posts {
			if err := r.UpsertPost(txCtx, p); err != nil {
				return err
			}
		}

		return nil
	})
}

const selectPostColumns = `
	SELECT id, title, excerpt, author, date_created, date_updated, index_path, flat_path, content_hash, generated_at
	FROM posts
`

const getPostQuery = selectPostColumns + `WHERE id = ?`

// GetPost retrieves a single post by ID
func (r *SQLitePostRepository) GetPost(ctx context.Context, id string) (*domain.GeneratedPost, error) {
	if id == "" {
		return nil, fmt.Errorf("post ID cannot be empty")
	}

	row := db.GetExecutor(ctx, r.db).QueryRowContext(ctx, getPostQuery, id)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

const getLatestGeneratedTimeQuery = `
	SELECT generated_at FROM posts ORDER BY generated_at DESC LIMIT 1
`

// GetLatestGeneratedTime returns when the index was last written, or the zero time for an empty index
func (r *SQLitePostRepository) GetLatestGeneratedTime(ctx context.Context) (time.Time, error) {
	var latest sql.NullTime
	err := r.db.QueryRowContext(ctx, getLatestGeneratedTimeQuery).Scan(&latest)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get latest generated time: %w", err)
	}

	if !latest.Valid {
		return time.Time{}, nil
	}
	return latest.Time, nil
}

const listPostsQuery = selectPostColumns + `
	ORDER BY date_created DESC, id ASC
	LIMIT ? OFFSET ?
`

// ListPosts retrieves indexed posts, newest first by their creation date
func (r *SQLitePostRepository) ListPosts(ctx context.Context, limit, offset int) ([]*domain.GeneratedPost, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx, listPostsQuery, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*domain.GeneratedPost, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*domain.GeneratedPost, error) {
	var p domain.GeneratedPost
	var generatedAt sql.NullTime
	err := s.Scan(
		&p.ID,
		&p.Title,
		&p.Excerpt,
		&p.Author,
		&p.DateCreated,
		&p.DateUpdated,
		&p.IndexPath,
		&p.FlatPath,
		&p.ContentHash,
		&generatedAt,
	)
	if err != nil {
		return nil, err
	}

	if generatedAt.Valid {
		p.GeneratedAt = generatedAt.Time
	}
	return &p, nil
}
