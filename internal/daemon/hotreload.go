package daemon

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vunf1/goalnotify/internal/config"
)

// ConfigWatcher watches the daemon config file and reloads it on change.
// Invalid configs are reported through the error callback and the
// previous config stays in effect.
type ConfigWatcher struct {
	mu     sync.Mutex
	logger *slog.Logger

	configPath string
	watcher    *fsnotify.Watcher

	onReload func(*config.DaemonConfig)
	onError  func(error)

	// Debounce window for editors that write in multiple events.
	debounce time.Duration

	doneCh  chan struct{}
	running bool
}

// NewConfigWatcher creates a ConfigWatcher for the default config path.
func NewConfigWatcher(logger *slog.Logger) (*ConfigWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	path, err := config.DaemonConfigPath()
	if err != nil {
		return nil, err
	}

	return &ConfigWatcher{
		logger:     logger,
		configPath: path,
		debounce:   250 * time.Millisecond,
		doneCh:     make(chan struct{}),
	}, nil
}

// SetReloadCallback sets the callback invoked with each valid new config.
func (w *ConfigWatcher) SetReloadCallback(cb func(*config.DaemonConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = cb
}

// SetErrorCallback sets the callback invoked when a reload fails.
func (w *ConfigWatcher) SetErrorCallback(cb func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = cb
}

// Start begins watching the config file's directory.
func (w *ConfigWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory, not the file: atomic saves replace the inode.
	if err := watcher.Add(filepath.Dir(w.configPath)); err != nil {
		_ = watcher.Close()
		return err
	}

	w.watcher = watcher
	w.doneCh = make(chan struct{})
	w.running = true

	go w.watch(ctx)

	w.logger.Info("config watcher started", "path", w.configPath)
	return nil
}

// Stop stops the watcher.
func (w *ConfigWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false
	close(w.doneCh)
	_ = w.watcher.Close()
}

// watch is the main watch loop.
func (w *ConfigWatcher) watch(ctx context.Context) {
	filename := filepath.Base(w.configPath)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerCh = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerCh:
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)

		case <-ctx.Done():
			return
		case <-w.doneCh:
			return
		}
	}
}

// reload parses and validates the config file, then fires a callback.
func (w *ConfigWatcher) reload() {
	cfg, err := config.LoadDaemonConfigFrom(w.configPath)

	w.mu.Lock()
	onReload := w.onReload
	onError := w.onError
	w.mu.Unlock()

	if err != nil {
		w.logger.Warn("config reload failed", "error", err)
		if onError != nil {
			onError(err)
		}
		return
	}

	w.logger.Info("config reloaded", "path", w.configPath)
	if onReload != nil {
		onReload(cfg)
	}
}
