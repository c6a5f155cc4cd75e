package domain

import (
	"context"
	"time"
)

// Post represents a blog post
// A post is mapped from a document store record; only published posts are rendered.
// Date fields are kept as the strings the document store returned.
type Post struct {
	ID          string
	Title       string
	Content     string
	Excerpt     string
	Author      string
	Tags        []string
	IsPublished bool
	DateCreated string
	DateUpdated string

	// Provenance records, per field, whether a remote value or a default was used.
	Provenance Provenance
}

// FieldSource describes where a post field came from.
type FieldSource struct {
	// Remote is the document field name the value was read from. Empty when defaulted.
	Remote  string
	Default bool
}

func (s FieldSource) String() string {
	if s.Default {
		return "default"
	}
	return "field:" + s.Remote
}

// Provenance maps post field names (title, content, ...) to their source.
type Provenance map[string]FieldSource

// Defaulted returns the post fields that fell back to a default value, in a stable order.
func (p Provenance) Defaulted() []string {
	var out []string
	for _, name := range PostFields {
		if src, ok := p[name]; ok && src.Default {
			out = append(out, name)
		}
	}
	return out
}

// PostFields lists the mapped fields in declaration order.
var PostFields = []string{
	"title",
	"content",
	"excerpt",
	"author",
	"isPublished",
	"dateCreated",
	"dateUpdated",
	"tags",
}

// GeneratedPost is the build-index record for a page written to disk.
type GeneratedPost struct {
	ID          string
	Title       string
	Excerpt     string
	Author      string
	DateCreated string
	DateUpdated string
	IndexPath   string
	FlatPath    string
	ContentHash string
	GeneratedAt time.Time
}

// PostRepository stores the build index of generated pages.
type PostRepository interface {
	UpsertPost(ctx context.Context, p *GeneratedPost) error
	GetPost(ctx context.Context, id string) (*GeneratedPost, error)
	ListPosts(ctx context.Context, limit int, offset int) ([]*GeneratedPost, error)
	GetLatestGeneratedTime(ctx context.Context) (time.Time, error)

	// ReplaceAll swaps the index contents for the posts of a single run.
	ReplaceAll(ctx context.Context, posts []*GeneratedPost) error
}

// PageWriter persists rendered HTML for a post.
type PageWriter interface {
	WritePage(ctx context.Context, id string, html []byte) (*PagePaths, error)
}

// PagePaths are the two locations a rendered page is written to.
type PagePaths struct {
	IndexPath string
	FlatPath  string
}
