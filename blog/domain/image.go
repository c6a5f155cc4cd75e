package domain

import (
	"context"
	"time"
)

// ImageEntry is one record of the image manifest.
type ImageEntry struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	File  string `json:"file"`
}

// Image is the build-index record of a manifest entry
type Image struct {
	File      string
	Label     string
	Path      string
	Hash      string
	UpdatedAt time.Time
}

type ImageRepository interface {
	// SaveImage upserts an image record
	SaveImage(ctx context.Context, img *Image) error

	// GetImage retrieves an image record by file name
	GetImage(ctx context.Context, file string) (*Image, error)

	// ListImages returns all image records ordered by label
	ListImages(ctx context.Context) ([]*Image, error)

	// DeleteImage removes an image record
	DeleteImage(ctx context.Context, file string) error
}

// ManifestWriter persists the image manifest.
type ManifestWriter interface {
	WriteManifest(ctx context.Context, entries []ImageEntry) error
}
