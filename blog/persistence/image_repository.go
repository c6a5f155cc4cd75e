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

var _ domain.ImageRepository = (*SQLiteImageRepository)(nil)

// SQLiteImageRepository implements domain.ImageRepository using SQL database (SQLite)
type SQLiteImageRepository struct {
	db *sql.DB
}

// NewImageRepository creates a new SQLiteImageRepository from a standard sql.DB
func NewImageRepository(sqlDB *sql.DB) *SQLiteImageRepository {
	return &SQLiteImageRepository{
		db: sqlDB,
	}
}

const upsertImageQuery = `
	INSERT INTO images (file, label, path, hash, updated_at, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(file) DO UPDATE SET
		label = excluded.label,
		path = excluded.path,
		hash = excluded.hash,
		updated_at = CASE WHEN images.hash = excluded.hash THEN images.updated_at ELSE excluded.updated_at END
`

// SaveImage upserts an image record. updated_at only moves when the content hash changes.
func (r *SQLiteImageRepository) SaveImage(ctx context.Context, img *domain.Image) error {
	if img == nil {
		return fmt.Errorf("image cannot be nil")
	}

	if img.File == "" {
		return fmt.Errorf("image file cannot be empty")
	}

	updatedAt := img.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	updatedAt = updatedAt.UTC()

	executor := db.GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, upsertImageQuery,
		img.File,
		img.Label,
		img.Path,
		img.Hash,
		updatedAt,
		updatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert image record: %w", err)
	}

	return nil
}

const selectImageColumns = `
	SELECT file, label, path, hash, updated_at
	FROM images
`

// GetImage retrieves a single image by file name
func (r *SQLiteImageRepository) GetImage(ctx context.Context, file string) (*domain.Image, error) {
	if file == "" {
		return nil, fmt.Errorf("image file cannot be empty")
	}

	img, err := scanImage(r.db.QueryRowContext(ctx, selectImageColumns+`WHERE file = ?`, file))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("image %s: %w", file, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}

	return img, nil
}

// ListImages returns all image records ordered by label
func (r *SQLiteImageRepository) ListImages(ctx context.Context) ([]*domain.Image, error) {
	rows, err := r.db.QueryContext(ctx, selectImageColumns+`ORDER BY label ASC, file ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	images := make([]*domain.Image, 0)
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image row: %w", err)
		}
		images = append(images, img)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating image rows: %w", err)
	}

	return images, nil
}

// DeleteImage removes an image record
func (r *SQLiteImageRepository) DeleteImage(ctx context.Context, file string) error {
	if file == "" {
		return fmt.Errorf("image file cannot be empty")
	}

	executor := db.GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, `DELETE FROM images WHERE file = ?`, file); err != nil {
		return fmt.Errorf("failed to delete image record: %w", err)
	}

	return nil
}

func scanImage(s scanner) (*domain.Image, error) {
	var img domain.Image
	var updatedAt sql.NullTime
	if err := s.Scan(&img.File, &img.Label, &img.Path, &img.Hash, &updatedAt); err != nil {
		return nil, err
	}

	if updatedAt.Valid {
		img.UpdatedAt = updatedAt.Time
	}
	return &img, nil
}
