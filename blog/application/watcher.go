package application

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/benjination/portfolio-blog/blog/domain"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const rebuildDebounce = 300 * time.Millisecond

// WatchManifest rebuilds the manifest whenever an image in the builder's
// directory changes. It builds once up front and returns when ctx is done.
func WatchManifest(ctx context.Context, b *ManifestBuilder) error {
	if _, err := b.Build(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(b.dir); err != nil {
		return fmt.Errorf("%w: failed to watch %s: %v", domain.ErrFileSystem, b.dir, err)
	}
	log.Info().Str("dir", b.dir).Msg("Watching image directory")

	rebuild := make(chan struct{}, 1)
	trigger := debounce(rebuildDebounce, func() {
		select {
		case rebuild <- struct{}{}:
		default:
		}
	})

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isManifestEvent(ev) {
				continue
			}
			log.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("Image change detected")
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("Watcher error")
		case <-rebuild:
			if _, err := b.Build(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to rebuild image manifest")
			}
		}
	}
}

// isManifestEvent filters out editor temp files and non-image files.
func isManifestEvent(ev fsnotify.Event) bool {
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	if ev.Op == fsnotify.Chmod {
		return false
	}
	return IsImageFile(base)
}

// debounce returns a function that calls fn once calls have stopped for d.
func debounce(d time.Duration, fn func()) func() {
	var mu sync.Mutex
	var timer *time.Timer

	return func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, fn)
	}
}
