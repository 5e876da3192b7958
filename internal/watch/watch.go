// Package watch rebuilds the site when its sources change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ziadkadry99/folio/internal/logging"
	"github.com/ziadkadry99/folio/internal/walker"
)

// DefaultDebounce batches rapid saves into one rebuild.
const DefaultDebounce = 500 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Dirs are watched recursively.
	Dirs []string
	// Files are watched individually, e.g. the catalog.
	Files []string
	// Ignore are paths whose subtree never triggers a rebuild, e.g. the
	// output directory when it lives inside a source directory.
	Ignore []string
	// Exclude are glob patterns matched against changed file names.
	Exclude  []string
	Debounce time.Duration
	Logger   *zap.Logger
}

// Watcher calls a rebuild function after sources stop changing.
type Watcher struct {
	opts    Options
	rebuild func(context.Context) error
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	files   map[string]bool
	ignore  []string

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a watcher. rebuild runs on the watcher goroutine; its errors
// are logged and watching continues.
func New(opts Options, rebuild func(context.Context) error) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		opts:    opts,
		rebuild: rebuild,
		watcher: fw,
		logger:  logging.OrNop(opts.Logger),
		files:   map[string]bool{},
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	for _, p := range opts.Ignore {
		if abs, err := filepath.Abs(p); err == nil {
			w.ignore = append(w.ignore, abs)
		}
	}
	return w, nil
}

// Start adds the watches and begins the event loop. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	for _, dir := range w.opts.Dirs {
		if err := w.addTree(dir); err != nil {
			w.logger.Warn("watch: skipping directory", zap.String("dir", dir), zap.Error(err))
		}
	}
	for _, f := range w.opts.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		w.files[abs] = true
		// Editors replace files on save, so watch the parent directory.
		if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
			w.logger.Warn("watch: skipping file", zap.String("file", f), zap.Error(err))
		}
	}

	go w.run(ctx)
	return nil
}

// Stop ends the event loop and releases the watches.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("watch: closing watcher", zap.Error(err))
	}
}

// addTree watches dir and every directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		abs, _ := filepath.Abs(path)
		if w.ignored(abs) {
			return filepath.SkipDir
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	timer := time.NewTimer(w.opts.Debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return

		case <-w.stopCh:
			timer.Stop()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("watch: change", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Warn("watch: adding directory", zap.String("dir", event.Name), zap.Error(err))
					}
				}
			}
			timer.Reset(w.opts.Debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch: error", zap.Error(err))

		case <-timer.C:
			start := time.Now()
			if err := w.rebuild(ctx); err != nil {
				w.logger.Error("rebuild failed", zap.Error(err))
				continue
			}
			w.logger.Info("rebuilt", zap.Duration("took", time.Since(start)))
		}
	}
}

// relevant filters out chmod-only events, ignored paths, excluded names and
// siblings of individually watched files.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	if w.ignored(abs) {
		return false
	}
	if walker.MatchesExclude(filepath.Base(abs), w.opts.Exclude) {
		return false
	}
	if w.files[abs] {
		return true
	}
	for _, dir := range w.opts.Dirs {
		d, err := filepath.Abs(dir)
		if err == nil && within(abs, d) {
			return true
		}
	}
	return false
}

func (w *Watcher) ignored(abs string) bool {
	for _, p := range w.ignore {
		if within(abs, p) {
			return true
		}
	}
	return false
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
