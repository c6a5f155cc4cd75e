package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/benjination/portfolio-blog/blog/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	imagesURLPrefix = "/blog/images/"
	sniffLength     = 200
)

var (
	imageExtensions = map[string]bool{
		".png":  true,
		".jpg":  true,
		".jpeg": true,
		".gif":  true,
		".svg":  true,
		".webp": true,
	}

	labelSeparators = regexp.MustCompile(`[-_]+`)
)

// ManifestBuilder scans the image directory and writes the image manifest.
type ManifestBuilder struct {
	dir    string
	writer domain.ManifestWriter

	// index is optional; nil disables recording entries in the build index.
	index domain.ImageRepository
	now   func() time.Time
}

func NewManifestBuilder(dir string, writer domain.ManifestWriter) *ManifestBuilder {
	return &ManifestBuilder{
		dir:    dir,
		writer: writer,
		now:    time.Now,
	}
}

// WithIndex records manifest entries in repo after each build.
func (b *ManifestBuilder) WithIndex(repo domain.ImageRepository) *ManifestBuilder {
	b.index = repo
	return b
}

// Build scans the directory and writes the manifest. A missing directory
// produces an empty manifest.
func (b *ManifestBuilder) Build(ctx context.Context) ([]domain.ImageEntry, error) {
	entries, err := b.Scan()
	if err != nil {
		return nil, err
	}

	if err := b.writer.WriteManifest(ctx, entries); err != nil {
		return nil, fmt.Errorf("failed to write image manifest: %w", err)
	}

	if b.index != nil {
		if err := b.syncIndex(ctx, entries); err != nil {
			return nil, fmt.Errorf("failed to update image index: %w", err)
		}
	}

	log.Info().Str("dir", b.dir).Int("images", len(entries)).Msg("Wrote image manifest")
	return entries, nil
}

// Scan lists the images in the directory, sorted by label.
func (b *ManifestBuilder) Scan() ([]domain.ImageEntry, error) {
	dirEntries, err := os.ReadDir(b.dir)
	if errors.Is(err, os.ErrNotExist) {
		log.Error().Str("dir", b.dir).Msg("Image directory not found")
		return []domain.ImageEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read image directory %s: %v", domain.ErrFileSystem, b.dir, err)
	}

	entries := []domain.ImageEntry{}
	for _, d := range dirEntries {
		if !d.Type().IsRegular() || !IsImageFile(d.Name()) {
			continue
		}

		name := b.resolveName(d.Name())
		entries = append(entries, domain.ImageEntry{
			Label: ImageLabel(name),
			Path:  imagesURLPrefix + name,
			File:  name,
		})
	}

	SortEntries(entries)
	return entries, nil
}

// resolveName prefers the .svg sibling of a file whose content is SVG but
// whose extension says otherwise.
func (b *ManifestBuilder) resolveName(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".svg") {
		return name
	}

	header, err := readHeader(filepath.Join(b.dir, name))
	if err != nil || !looksLikeSVG(header) {
		return name
	}

	candidate := strings.TrimSuffix(name, filepath.Ext(name)) + ".svg"
	if _, err := os.Stat(filepath.Join(b.dir, candidate)); err == nil {
		log.Debug().Str("file", name).Str("svg", candidate).Msg("Using SVG sibling for mislabeled image")
		return candidate
	}
	return name
}

func (b *ManifestBuilder) syncIndex(ctx context.Context, entries []domain.ImageEntry) error {
	existing, err := b.index.ListImages(ctx)
	if err != nil {
		return err
	}

	current := make(map[string]bool, len(entries))
	updatedAt := b.now().UTC()
	for _, e := range entries {
		current[e.File] = true

		content, err := os.ReadFile(filepath.Join(b.dir, e.File))
		if err != nil {
			return fmt.Errorf("%w: failed to read image %s: %v", domain.ErrFileSystem, e.File, err)
		}

		img := &domain.Image{
			File:      e.File,
			Label:     e.Label,
			Path:      e.Path,
			Hash:      calculateHash(content),
			UpdatedAt: updatedAt,
		}
		if err := b.index.SaveImage(ctx, img); err != nil {
			return err
		}
	}

	for _, img := range existing {
		if current[img.File] {
			continue
		}
		if err := b.index.DeleteImage(ctx, img.File); err != nil {
			return err
		}
	}
	return nil
}

// IsImageFile reports whether name has one of the manifest's image extensions.
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// ImageLabel derives a display label from a file name: the extension is
// dropped, runs of '-' and '_' become a space and each word starts upper-case.
func ImageLabel(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = labelSeparators.ReplaceAllString(base, " ")

	out := []byte(base)
	for i := range out {
		if !isWordByte(out[i]) || (i > 0 && isWordByte(out[i-1])) {
			continue
		}
		if out[i] >= 'a' && out[i] <= 'z' {
			out[i] -= 'a' - 'A'
		}
	}
	return string(out)
}

// isWordByte matches the ASCII word class [A-Za-z0-9_].
func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// SortEntries orders entries by label using English collation.
func SortEntries(entries []domain.ImageEntry) {
	c := collate.New(language.English)
	sort.SliceStable(entries, func(i, j int) bool {
		return c.CompareString(entries[i].Label, entries[j].Label) < 0
	})
}

func readHeader(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, sniffLength)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	return string(buf[:n]), nil
}

func looksLikeSVG(header string) bool {
	header = strings.TrimSpace(header)
	return strings.HasPrefix(header, "<?xml") || strings.Contains(header, "<svg")
}
