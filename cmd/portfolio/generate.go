package main

import (
	"context"
	"fmt"
	"time"

	"github.com/benjination/portfolio-blog/blog/application"
	"github.com/benjination/portfolio-blog/blog/persistence"
	"github.com/benjination/portfolio-blog/internal/config"
	"github.com/benjination/portfolio-blog/shared/firestore"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Output string `short:"o" help:"Override the output root directory"`
}

func (g *GenerateCmd) Run(ctx context.Context, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if g.Output != "" {
		cfg.Output.Root = g.Output
	}
	if err := cfg.RequireFirestore(); err != nil {
		return err
	}

	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}

	source := firestore.NewClient(firestore.Config{
		BaseURL:    cfg.Firestore.BaseURL,
		ProjectID:  cfg.Firestore.ProjectID,
		APIKey:     cfg.Firestore.APIKey,
		Collection: cfg.Firestore.Collection,
		Timeout:    cfg.Firestore.Timeout,
	})
	writer := persistence.NewFilesystemPageWriter(cfg.BlogRoot())

	generator := application.NewGenerator(source, renderer, writer, application.MapperDefaults{
		Author: cfg.Site.Owner,
	})

	index, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer index.Close()
	if index != nil {
		generator.WithIndex(index.posts)
	}

	_, err = generator.Run(ctx)
	return err
}

func newRenderer(cfg *config.Config) (*application.Renderer, error) {
	loc, err := time.LoadLocation(cfg.Render.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %q: %w", cfg.Render.TimeZone, err)
	}

	opts := application.RenderOptions{
		SiteURL:    cfg.Site.BaseURL,
		SiteName:   cfg.Site.Name,
		Owner:      cfg.Site.Owner,
		OGImage:    cfg.Site.OGImage,
		Favicon:    cfg.Site.Favicon,
		BackLink:   cfg.Site.BackLink,
		DateLayout: cfg.Render.DateLayout,
		Location:   loc,
	}
	if cfg.Render.ContentFormat == config.ContentFormatMarkdown {
		opts.Formatter = application.NewMarkdownFormatter(cfg.Site.BaseURL)
	}

	return application.NewRenderer(opts)
}
