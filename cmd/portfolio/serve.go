package main

import (
	"context"
	"net/http"
	"time"

	"github.com/benjination/portfolio-blog/blog/domain"
	"github.com/benjination/portfolio-blog/internal/middleware"
	"github.com/benjination/portfolio-blog/internal/rest"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr string `help:"Override the listen address"`
}

func (s *ServeCmd) Run(ctx context.Context, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Serve.Addr = s.Addr
	}

	if !root.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	index, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer index.Close()

	var posts domain.PostRepository
	var images domain.ImageRepository
	if index != nil {
		posts, images = index.posts, index.images
	} else {
		log.Info().Msg("No build index configured, serving files only")
	}

	router := rest.NewRouter(cfg.Output.Root, posts, images,
		middleware.LoggingMiddleware(),
		gin.CustomRecovery(middleware.HandlePanics()),
	)

	srv := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return runServer(ctx, srv)
}
