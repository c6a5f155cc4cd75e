package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/benjination/portfolio-blog/blog/domain"
)

var _ domain.PageWriter = (*FilesystemPageWriter)(nil)

// FilesystemPageWriter writes every page twice under root: as <id>/index.html
// for clean URLs and as <id>.html for hosts that do not resolve directory indexes.
type FilesystemPageWriter struct {
	root string
}

func NewFilesystemPageWriter(root string) *FilesystemPageWriter {
	return &FilesystemPageWriter{root: root}
}

func (w *FilesystemPageWriter) WritePage(ctx context.Context, id string, html []byte) (*domain.PagePaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if id == "" || id != filepath.Base(id) {
		return nil, fmt.Errorf("%w: invalid page id %q", domain.ErrFileSystem, id)
	}

	dir := filepath.Join(w.root, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create page directory: %v", domain.ErrFileSystem, err)
	}

	paths := &domain.PagePaths{
		IndexPath: filepath.Join(dir, "index.html"),
		FlatPath:  filepath.Join(w.root, id+".html"),
	}

	for _, p := range []string{paths.IndexPath, paths.FlatPath} {
		if err := os.WriteFile(p, html, 0644); err != nil {
			return nil, fmt.Errorf("%w: failed to write page file: %v", domain.ErrFileSystem, err)
		}
	}

	return paths, nil
}
