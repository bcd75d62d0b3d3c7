package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DocumentWatcher watches a policy documents directory and triggers
// reparse-and-republish on changes. Events are debounced to absorb editor
// write storms.
type DocumentWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   *DocumentWatcherConfig
	debounce *Debouncer

	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// DocumentWatcherConfig contains configuration for the document watcher.
type DocumentWatcherConfig struct {
	// Path is the directory holding policy documents.
	Path string

	// DebounceInterval is the quiet period before a reload fires
	// (default: 250ms).
	DebounceInterval time.Duration

	// Extensions lists the file extensions treated as policy documents.
	Extensions []string

	// SkipHidden controls whether hidden files are ignored.
	SkipHidden bool
}

// DefaultDocumentWatcherConfig returns the default watcher configuration.
func DefaultDocumentWatcherConfig() *DocumentWatcherConfig {
	return &DocumentWatcherConfig{
		DebounceInterval: 250 * time.Millisecond,
		Extensions:       []string{".txt", ".md"},
		SkipHidden:       true,
	}
}

// NewDocumentWatcher creates a new document watcher.
func NewDocumentWatcher(config *DocumentWatcherConfig, logger *slog.Logger) (*DocumentWatcher, error) {
	if config == nil {
		config = DefaultDocumentWatcherConfig()
	}
	if logger == nil {
		logger = slog.Default().With("component", "policy.store.watcher")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &DocumentWatcher{
		watcher:  watcher,
		logger:   logger,
		config:   config,
		debounce: NewDebouncer(config.DebounceInterval),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch blocks, invoking onChange with the changed path after each
// debounced event, until the context is cancelled or Stop is called.
func (w *DocumentWatcher) Watch(ctx context.Context, onChange func(path string) error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	if err := w.addPath(w.config.Path); err != nil {
		return fmt.Errorf("failed to watch path: %w", err)
	}

	w.logger.Info("policy document watcher started",
		"path", w.config.Path,
		"debounce_ms", w.config.DebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("document watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("document watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.shouldProcessEvent(event) {
				continue
			}

			w.logger.Debug("policy document event",
				"path", event.Name,
				"op", event.Op.String(),
			)

			changed := event.Name
			w.debounce.Trigger(func() {
				w.logger.Info("policy documents changed, triggering republish",
					"path", changed,
				)
				if err := onChange(changed); err != nil {
					w.logger.Error("policy republish failed", "error", err)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("document watcher error", "error", err)
			// Keep watching despite errors
		}
	}
}

// Stop stops the watcher.
func (w *DocumentWatcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.debounce.Stop()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// addPath registers a file or directory (recursively) with the watcher.
func (w *DocumentWatcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.watcher.Add(path)
	}

	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if w.config.SkipHidden && strings.HasPrefix(filepath.Base(p), ".") && p != path {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if err := w.watcher.Add(p); err != nil {
				return fmt.Errorf("failed to watch directory %q: %w", p, err)
			}
			w.logger.Debug("watching directory", "path", p)
		}
		return nil
	})
}

// shouldProcessEvent filters events down to real content changes on policy
// documents.
func (w *DocumentWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}

	ext := strings.ToLower(filepath.Ext(event.Name))
	valid := false
	for _, e := range w.config.Extensions {
		if ext == strings.ToLower(e) {
			valid = true
			break
		}
	}
	if !valid {
		return false
	}

	if w.config.SkipHidden && strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return true
}

// Debouncer collects rapid events and fires the callback only after a
// quiet period.
type Debouncer struct {
	interval time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	callback func()
	stopCh   chan struct{}
}

// NewDebouncer creates a new debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Trigger arms the debouncer; the callback runs after the interval unless
// another event arrives first.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.callback = callback
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		select {
		case <-d.stopCh:
			return
		default:
			d.mu.Lock()
			cb := d.callback
			d.mu.Unlock()
			if cb != nil {
				cb()
			}
		}
	})
}

// Stop cancels any pending callback.
func (d *Debouncer) Stop() {
	close(d.stopCh)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
