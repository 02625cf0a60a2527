package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"apidrift/internal/core/ports"
	"apidrift/internal/shared/util"
	"apidrift/internal/watcher"
)

// WatchService returns the watch-mode service for this app. It requires a
// git-backed source so changed files can be re-compared against the base
// revision.
func (a *App) WatchService() ports.WatchService {
	return &watchService{
		app: a,
		// One re-analysis batch per second with short bursts keeps rapid
		// editor saves from stacking full runs.
		limiter: util.NewLimiter(1, 2),
	}
}

type watchService struct {
	app     *App
	limiter *util.Limiter
	watcher *watcher.Watcher

	mu       sync.Mutex
	handlers []func(ports.WatchUpdate)
}

var _ ports.WatchService = (*watchService)(nil)

func (s *watchService) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.app.Baseline == nil {
		return fmt.Errorf("watch mode requires a git-backed pair source")
	}

	w, err := watcher.NewWatcher(
		s.app.Config.Watch.Debounce,
		s.app.Config.Exclude.Dirs,
		s.app.Config.Exclude.Files,
		func(paths []string) { s.onBatch(ctx, paths) },
	)
	if err != nil {
		return err
	}
	w.SetExtensionFilter(s.app.SupportedExtensions())

	if err := w.Watch(s.app.Config.Watch.Paths); err != nil {
		_ = w.Close()
		return err
	}
	s.watcher = w

	go func() {
		<-ctx.Done()
		_ = w.Close()
	}()
	return nil
}

func (s *watchService) Subscribe(handler func(ports.WatchUpdate)) {
	if handler == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

func (s *watchService) onBatch(ctx context.Context, paths []string) {
	if err := s.limiter.Wait(ctx, 1); err != nil {
		return
	}

	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				content = nil
			} else {
				slog.Warn("skipping unreadable file", "path", path, "error", err)
				continue
			}
		}

		pair := s.app.Baseline.PairForPath(ctx, s.relPath(path), content)
		results := s.app.ComparePair(ctx, pair)
		s.notify(ports.WatchUpdate{
			Path:     pair.Path,
			Findings: results,
			At:       time.Now(),
		})
	}
}

func (s *watchService) relPath(path string) string {
	rel, err := util.RelToRoot(s.app.Baseline.Root, path)
	if err != nil {
		return path
	}
	return rel
}

func (s *watchService) notify(update ports.WatchUpdate) {
	s.mu.Lock()
	handlers := append([]func(ports.WatchUpdate){}, s.handlers...)
	s.mu.Unlock()
	for _, handler := range handlers {
		handler(update)
	}
}
