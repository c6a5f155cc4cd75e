package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/benjination/portfolio-blog/blog/domain"
	"github.com/rs/zerolog/log"
)

// GenerateState is the lifecycle stage of a generation run.
type GenerateState string

const (
	StateFetching   GenerateState = "fetching"
	StateProcessing GenerateState = "processing"
	StateDone       GenerateState = "done"
	StateFailed     GenerateState = "failed"
)

// PageRenderer renders a post into a complete HTML document.
type PageRenderer interface {
	Render(post *domain.Post) ([]byte, error)
}

var _ PageRenderer = (*Renderer)(nil)

// GenerateResult summarises a run.
type GenerateResult struct {
	State     GenerateState
	Fetched   int
	Published int
	Skipped   int
	Pages     []*domain.GeneratedPost
}

// Written is the number of pages written to disk.
func (r *GenerateResult) Written() int {
	return len(r.Pages)
}

type Generator struct {
	source   domain.DocumentSource
	renderer PageRenderer
	writer   domain.PageWriter
	defaults MapperDefaults

	// index is optional; nil disables the build index.
	index domain.PostRepository
	now   func() time.Time
}

func NewGenerator(source domain.DocumentSource, renderer PageRenderer, writer domain.PageWriter, defaults MapperDefaults) *Generator {
	return &Generator{
		source:   source,
		renderer: renderer,
		writer:   writer,
		defaults: defaults,
		now:      time.Now,
	}
}

// WithIndex records every generated page in repo at the end of a run.
func (g *Generator) WithIndex(repo domain.PostRepository) *Generator {
	g.index = repo
	return g
}

// Run fetches every document once and writes a page for each published post.
// The first fetch, render, write or index error aborts the run; pages already
// written stay on disk.
func (g *Generator) Run(ctx context.Context) (*GenerateResult, error) {
	result := &GenerateResult{State: StateFetching}
	log.Info().Str("state", string(result.State)).Msg("Fetching blog posts")

	list, err := g.source.FetchDocuments(ctx)
	if err != nil {
		return g.fail(result, fmt.Errorf("failed to fetch documents: %w", err))
	}

	if list == nil || len(list.Documents) == 0 {
		log.Info().Msg("No blog posts found.")
		result.State = StateDone
		return result, nil
	}
	result.Fetched = len(list.Documents)

	result.State = StateProcessing
	log.Info().Str("state", string(result.State)).Int("documents", result.Fetched).Msg("Processing blog posts")

	posts := g.publishedPosts(list.Documents, result)
	generatedAt := g.now().UTC()

	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			return g.fail(result, err)
		}

		page, err := g.generatePage(ctx, post, generatedAt)
		if err != nil {
			return g.fail(result, err)
		}
		result.Pages = append(result.Pages, page)

		log.Info().Str("postID", post.ID).Str("title", post.Title).Msg("Generated static page")
	}

	if g.index != nil {
		if err := g.index.ReplaceAll(ctx, result.Pages); err != nil {
			return g.fail(result, fmt.Errorf("failed to update build index: %w", err))
		}
	}

	result.State = StateDone
	log.Info().Str("state", string(result.State)).Msgf("Successfully generated %d static blog pages", result.Written())
	return result, nil
}

// publishedPosts maps documents and keeps the published posts that have a usable ID.
func (g *Generator) publishedPosts(docs []domain.RawDocument, result *GenerateResult) []*domain.Post {
	seen := make(map[string]string)
	var posts []*domain.Post

	for _, doc := range docs {
		post, ok := MapDocument(doc, g.defaults)
		if !ok {
			log.Debug().Str("document", doc.Name).Msg("Skipping document without fields")
			result.Skipped++
			continue
		}

		if defaulted := post.Provenance.Defaulted(); len(defaulted) > 0 {
			log.Debug().Str("document", doc.Name).Strs("defaulted", defaulted).Msg("Post fields fell back to defaults")
		}

		if !post.IsPublished {
			continue
		}
		result.Published++

		if post.ID == "" {
			log.Warn().Str("document", doc.Name).Str("title", post.Title).Msg("Skipping post with empty ID")
			result.Skipped++
			continue
		}

		if other, dup := seen[post.ID]; dup {
			log.Warn().Str("postID", post.ID).Str("title", post.Title).Str("previousTitle", other).Msg("Duplicate post ID, later post overwrites earlier page")
		}
		seen[post.ID] = post.Title

		posts = append(posts, post)
	}

	return posts
}

func (g *Generator) generatePage(ctx context.Context, post *domain.Post, generatedAt time.Time) (*domain.GeneratedPost, error) {
	html, err := g.renderer.Render(post)
	if err != nil {
		return nil, fmt.Errorf("failed to render post %s: %w", post.ID, err)
	}

	paths, err := g.writer.WritePage(ctx, post.ID, html)
	if err != nil {
		return nil, fmt.Errorf("failed to write post %s: %w", post.ID, err)
	}

	return &domain.GeneratedPost{
		ID:          post.ID,
		Title:       post.Title,
		Excerpt:     post.Excerpt,
		Author:      post.Author,
		DateCreated: post.DateCreated,
		DateUpdated: post.DateUpdated,
		IndexPath:   paths.IndexPath,
		FlatPath:    paths.FlatPath,
		ContentHash: calculateHash(html),
		GeneratedAt: generatedAt,
	}, nil
}

func (g *Generator) fail(result *GenerateResult, err error) (*GenerateResult, error) {
	result.State = StateFailed
	log.Error().Err(err).Str("state", string(result.State)).Msg("Blog page generation failed")
	return result, err
}

func calculateHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
