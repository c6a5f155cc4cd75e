package main

import (
	"context"

	"github.com/benjination/portfolio-blog/blog/application"
	"github.com/benjination/portfolio-blog/blog/persistence"
)

// ImagesCmd implements the 'images' command.
type ImagesCmd struct {
	Watch bool `short:"w" help:"Keep running and rebuild the manifest when images change"`
}

func (i *ImagesCmd) Run(ctx context.Context, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	builder := application.NewManifestBuilder(cfg.ImagesRoot(), persistence.NewJSONManifestWriter(cfg.ManifestFile()))

	index, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer index.Close()
	if index != nil {
		builder.WithIndex(index.images)
	}

	if i.Watch {
		return application.WatchManifest(ctx, builder)
	}

	_, err = builder.Build(ctx)
	return err
}
