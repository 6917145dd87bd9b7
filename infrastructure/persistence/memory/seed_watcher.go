package memory

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kimtaewoo9/mansereok/domain/core/entities"
)

// LoadFunc reads a full data set from a seed file.
type LoadFunc func(path string) ([]*entities.AlmanacRecord, error)

const reloadDebounce = 500 * time.Millisecond

// SeedWatcher reloads an AlmanacStore whenever its seed file is rewritten.
// A reload that fails leaves the previous data in place.
type SeedWatcher struct {
	store   *AlmanacStore
	path    string
	load    LoadFunc
	logger  *zap.Logger
	watcher *fsnotify.Watcher

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewSeedWatcher starts watching path. The directory is watched rather than
// the file so that editors that replace the file by rename are seen.
func NewSeedWatcher(store *AlmanacStore, path string, load LoadFunc, logger *zap.Logger) (*SeedWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	w := &SeedWatcher{
		store:   store,
		path:    filepath.Clean(path),
		load:    load,
		logger:  logger,
		watcher: fsWatcher,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go w.watchLoop()

	logger.Info("Almanac seed hot reloading enabled", zap.String("path", path))
	return w, nil
}

func (w *SeedWatcher) watchLoop() {
	defer close(w.doneCh)
	defer w.watcher.Close()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("Almanac seed changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()),
			)
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, w.Reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Seed watcher error", zap.Error(err))

		case <-w.stopCh:
			return
		}
	}
}

// Reload reads the seed file and installs it.
func (w *SeedWatcher) Reload() {
	records, err := w.load(w.path)
	if err != nil {
		w.logger.Error("Failed to reload almanac seed, keeping previous data",
			zap.String("path", w.path),
			zap.Error(err),
		)
		return
	}
	w.store.Replace(records)
	w.logger.Info("Almanac seed reloaded",
		zap.String("path", w.path),
		zap.Int("records", len(records)),
	)
}

// Stop ends the watch loop and waits for it to exit.
func (w *SeedWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
	<-w.doneCh
}
