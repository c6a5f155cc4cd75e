package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/benjination/portfolio-blog/blog/domain"
)

var _ domain.ManifestWriter = (*JSONManifestWriter)(nil)

// JSONManifestWriter writes the image manifest as a two-space indented JSON array.
type JSONManifestWriter struct {
	path string
}

func NewJSONManifestWriter(path string) *JSONManifestWriter {
	return &JSONManifestWriter{path: path}
}

func (w *JSONManifestWriter) WriteManifest(ctx context.Context, entries []domain.ImageEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeManifest(entries)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("%w: failed to create manifest directory: %v", domain.ErrFileSystem, err)
	}
	if err := os.WriteFile(w.path, data, 0644); err != nil {
		return fmt.Errorf("%w: failed to write manifest: %v", domain.ErrFileSystem, err)
	}

	return nil
}

// Path is where the manifest is written.
func (w *JSONManifestWriter) Path() string {
	return w.path
}

// encodeManifest keeps '<', '>' and '&' literal and omits the trailing newline.
func encodeManifest(entries []domain.ImageEntry) ([]byte, error) {
	if entries == nil {
		entries = []domain.ImageEntry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
