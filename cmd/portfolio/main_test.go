package main

import (
	"path/filepath"
	"testing"

	"github.com/benjination/portfolio-blog/blog/domain"
	"github.com/benjination/portfolio-blog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenIndex_Disabled(t *testing.T) {
	cfg := config.Default()

	index, err := openIndex(cfg)
	require.NoError(t, err)
	assert.Nil(t, index)

	// Close on a disabled index is a no-op.
	index.Close()
}

func TestOpenIndex(t *testing.T) {
	cfg := config.Default()
	cfg.Index.Path = filepath.Join(t.TempDir(), "index", "build.db")

	index, err := openIndex(cfg)
	require.NoError(t, err)
	require.NotNil(t, index)
	defer index.Close()

	_, err = index.posts.GetPost(t.Context(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNewRenderer(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		content string
		want    string
	}{
		{name: "simple", format: config.ContentFormatSimple, content: "**bold**", want: "<strong>bold</strong>"},
		{name: "markdown", format: config.ContentFormatMarkdown, content: "# Heading", want: "<h1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Render.ContentFormat = tt.format

			r, err := newRenderer(cfg)
			require.NoError(t, err)

			html, err := r.Render(&domain.Post{ID: "a-post", Title: "A Post", Content: tt.content, DateCreated: "2024-01-01"})
			require.NoError(t, err)
			assert.Contains(t, string(html), tt.want)
		})
	}
}

func TestNewRenderer_BadTimeZone(t *testing.T) {
	cfg := config.Default()
	cfg.Render.TimeZone = "Nowhere/Invalid"

	_, err := newRenderer(cfg)
	assert.Error(t, err)
}
