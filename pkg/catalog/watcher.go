package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"digital.vasic.conformance/pkg/logging"
)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce duration for file change
// events.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithWatcherLogger sets the logger used by the watcher.
func WithWatcherLogger(l logging.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// Watcher monitors a catalog file for changes and reloads it
// into the catalog. It watches the containing directory rather
// than the file itself so atomic saves (rename-over) are
// caught.
type Watcher struct {
	catalog  *Catalog
	path     string
	debounce time.Duration
	logger   logging.Logger
	onReload func(*File)

	fsWatcher *fsnotify.Watcher
	done      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	lastHash  string

	mu      sync.Mutex
	pending map[string]time.Time // path -> last event time
}

// NewWatcher creates a Watcher for the given catalog file.
// onReload, when non-nil, is invoked after each successful
// reload with the freshly parsed file.
func NewWatcher(
	cat *Catalog,
	path string,
	onReload func(*File),
	opts ...WatcherOption,
) *Watcher {
	w := &Watcher{
		catalog:  cat,
		path:     path,
		debounce: 500 * time.Millisecond,
		logger:   logging.NullLogger{},
		onReload: onReload,
		done:     make(chan struct{}),
		pending:  make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching the catalog file's directory for
// changes.
func (w *Watcher) Start() error {
	hash, err := w.hashFile()
	if err != nil {
		return fmt.Errorf("catalog watcher: initial hash: %w", err)
	}
	w.lastHash = hash

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog watcher: create fsnotify: %w", err)
	}
	w.fsWatcher = fsw

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("catalog watcher: watch %s: %w", dir, err)
	}

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop terminates the watcher and waits for the background
// goroutine to exit. It is safe to call Stop multiple times.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() { close(w.done) })
	w.wg.Wait()
	if w.fsWatcher != nil {
		return w.fsWatcher.Close()
	}
	return nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				// Any write, create, or rename in the watched
				// directory queues the catalog path for a hash
				// check. The hash comparison in processChange
				// suppresses spurious reloads.
				w.mu.Lock()
				w.pending[w.path] = time.Now()
				w.mu.Unlock()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("catalog watcher error",
				logging.ErrorField(err))

		case <-ticker.C:
			w.processPending()
		}
	}
}

func (w *Watcher) processPending() {
	w.mu.Lock()
	now := time.Now()
	var ready []string
	for path, t := range w.pending {
		if now.Sub(t) >= w.debounce {
			ready = append(ready, path)
		}
	}
	for _, path := range ready {
		delete(w.pending, path)
	}
	w.mu.Unlock()

	for _, path := range ready {
		w.processChange(path)
	}
}

// processChange re-reads the catalog file and merges it into
// the catalog if the content actually changed and still
// validates.
func (w *Watcher) processChange(path string) {
	if filepath.Clean(path) != filepath.Clean(w.path) {
		return
	}

	data, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Error("catalog watcher: read failed",
			logging.StringField("path", w.path),
			logging.ErrorField(err))
		return
	}

	newHash := hashBytes(data)
	if newHash == w.lastHash {
		w.logger.Debug("catalog watcher: content unchanged",
			logging.StringField("path", w.path))
		return
	}

	file, err := parseForPath(data, w.path)
	if err != nil {
		w.logger.Error("catalog watcher: parse failed",
			logging.StringField("path", w.path),
			logging.ErrorField(err))
		return
	}

	if problems := Validate(file); len(problems) > 0 {
		w.logger.Error("catalog watcher: catalog invalid, keeping previous",
			logging.StringField("path", w.path),
			logging.IntField("problems", len(problems)),
			logging.StringField("first", problems[0].Error()))
		return
	}

	if err := w.catalog.merge(file, w.path); err != nil {
		w.logger.Error("catalog watcher: reload failed",
			logging.StringField("path", w.path),
			logging.ErrorField(err))
		return
	}

	w.lastHash = newHash
	w.logger.Info("catalog reloaded",
		logging.StringField("path", w.path),
		logging.IntField("contracts", len(file.Contracts)))

	if w.onReload != nil {
		w.onReload(file)
	}
}

func (w *Watcher) hashFile() (string, error) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return "", err
	}
	return hashBytes(data), nil
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
