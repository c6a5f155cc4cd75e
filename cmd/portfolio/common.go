package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/benjination/portfolio-blog/blog/domain"
	"github.com/benjination/portfolio-blog/blog/persistence"
	"github.com/benjination/portfolio-blog/internal/config"
	"github.com/benjination/portfolio-blog/shared/db"
	"github.com/benjination/portfolio-blog/shared/db/sqlite"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

// buildIndex holds the optional SQLite index and its repositories.
type buildIndex struct {
	db     db.Database
	posts  domain.PostRepository
	images domain.ImageRepository
}

// openIndex returns nil when no index path is configured.
func openIndex(cfg *config.Config) (*buildIndex, error) {
	if cfg.Index.Path == "" {
		return nil, nil
	}

	var database db.Database = sqlite.NewSQLiteDB(cfg.Index.Path)
	if err := database.Connect(); err != nil {
		return nil, fmt.Errorf("failed to open build index: %w", err)
	}
	log.Debug().Str("path", database.Path()).Msg("Opened build index")

	return &buildIndex{
		db:     database,
		posts:  persistence.NewPostRepository(database.DB()),
		images: persistence.NewImageRepository(database.DB()),
	}, nil
}

func (b *buildIndex) Close() {
	if b == nil {
		return
	}
	if err := b.db.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close build index")
	}
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}
