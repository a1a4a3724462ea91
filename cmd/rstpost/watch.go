package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-rstpost"
	"github.com/alnah/go-rstpost/internal/fileutil"
	"github.com/alnah/go-rstpost/internal/hints"
)

// watchDebounce is how long a source must stay quiet before it is
// reconverted. Editors often write a file in several steps.
const watchDebounce = 300 * time.Millisecond

// watchSession reconverts sources under root as they change.
type watchSession struct {
	root      string
	outputDir string
	ext       string
	pool      Pool
	params    *conversionParams
	ref       *rstpost.Reader
	logger    *slog.Logger

	// delay overrides watchDebounce in tests.
	delay time.Duration
	// ready, when set, is closed once the watcher is registered.
	ready chan struct{}
}

// run blocks until ctx is done.
func (w *watchSession) run(ctx context.Context) error {
	info, err := os.Stat(w.root)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w%s", err, hints.ForWatchLimit())
	}
	defer func() { _ = watcher.Close() }()

	baseDir := ""
	if info.IsDir() {
		baseDir = w.root
		if err := addDirsRecursive(watcher, w.root, w.logger); err != nil {
			return err
		}
	} else if err := watcher.Add(filepath.Dir(w.root)); err != nil {
		return fmt.Errorf("watching %s: %w%s", w.root, err, hints.ForWatchLimit())
	}

	delay := w.delay
	if delay <= 0 {
		delay = watchDebounce
	}
	deb := newDebouncer(delay)
	defer deb.stop()

	w.logger.Info("watching for changes", "path", w.root)
	if w.ready != nil {
		close(w.ready)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopped")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && info.IsDir() {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() && !shouldIgnoreEvent(ev.Name) {
					_ = addDirsRecursive(watcher, ev.Name, w.logger)
					continue
				}
			}
			if w.relevant(ev, info.IsDir()) {
				w.logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
				deb.trigger(ev.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		case path := <-deb.out:
			w.reconvert(ctx, path, baseDir)
		}
	}
}

// relevant reports whether ev should trigger a reconversion.
func (w *watchSession) relevant(ev fsnotify.Event, dirMode bool) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	if shouldIgnoreEvent(ev.Name) {
		return false
	}
	if !dirMode {
		return filepath.Clean(ev.Name) == filepath.Clean(w.root)
	}
	return fileutil.IsSource(ev.Name)
}

// reconvert converts one changed source and logs the outcome.
func (w *watchSession) reconvert(ctx context.Context, path, baseDir string) {
	if _, err := os.Stat(path); err != nil {
		// Removed or renamed away before the debounce fired.
		return
	}

	reader, err := w.pool.Acquire(ctx)
	if err != nil {
		w.logger.Error("conversion failed", "input", path, "error", err)
		return
	}
	defer w.pool.Release(reader)

	f := FileToConvert{
		InputPath:  path,
		OutputPath: resolveOutputPath(path, w.outputDir, baseDir, w.ext),
	}
	result := convertFile(ctx, reader, f, w.params)
	logResults(w.logger, withHints([]ConversionResult{result}, w.ref))
}

// addDirsRecursive watches root and every non-hidden directory below it.
func addDirsRecursive(watcher *fsnotify.Watcher, root string, logger *slog.Logger) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			logger.Warn("watch add failed", "dir", path, "error", err)
			return fmt.Errorf("watching %s: %w%s", path, err, hints.ForWatchLimit())
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for hidden, editor swap and lock files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}

// debouncer delivers a path on out once it has not been triggered for delay.
type debouncer struct {
	delay  time.Duration
	out    chan string
	done   chan struct{}
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		out:    make(chan string, 16),
		done:   make(chan struct{}),
		timers: make(map[string]*time.Timer),
	}
}

func (d *debouncer) trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[path]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.timers[path] == t {
			delete(d.timers, path)
		}
		d.mu.Unlock()

		select {
		case d.out <- path:
		case <-d.done:
		}
	})
	d.timers[path] = t
}

// stop cancels pending timers and releases blocked deliveries.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for path, t := range d.timers {
		t.Stop()
		delete(d.timers, path)
	}
	select {
	case <-d.done:
	default:
		close(d.done)
	}
}
