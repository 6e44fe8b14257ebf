package llm

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ConfigWatcher monitors the declarative config document and reloads the
// Manager when it changes. Editors tend to emit bursts of write events, so
// reloads are debounced.
type ConfigWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	manager  *Manager
	debounce time.Duration
	timer    *time.Timer
	timerMu  sync.Mutex
	done     chan struct{}
	stopOnce sync.Once
	logger   zerolog.Logger
}

// NewConfigWatcher creates a watcher for the config document at path.
func NewConfigWatcher(path string, manager *Manager, logger zerolog.Logger) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &ConfigWatcher{
		watcher:  watcher,
		path:     path,
		manager:  manager,
		debounce: 200 * time.Millisecond,
		done:     make(chan struct{}),
		logger:   logger.With().Str("component", "llm-config-watcher").Logger(),
	}, nil
}

// Start begins watching. The containing directory is watched rather than
// the file itself so atomic rename-replace saves are still observed.
func (w *ConfigWatcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	go w.eventLoop()

	w.logger.Info().Str("path", w.path).Msg("LLM config watcher started")
	return nil
}

// Stop stops the watcher.
func (w *ConfigWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}

func (w *ConfigWatcher) eventLoop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("Config watcher error")
		}
	}
}

func (w *ConfigWatcher) scheduleReload() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		cfg := LoadConfig(w.path, w.logger)
		w.manager.Reload(cfg)
	})
}
