// Package watch keeps a project's scan snapshot fresh: file events under the
// source tree are debounced into a single rescan trigger.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/uimap/internal/config"
	"github.com/standardbeagle/uimap/internal/debug"
)

// Watcher monitors a project tree and invokes a rescan callback after a quiet
// period following relevant changes.
type Watcher struct {
	watcher   *fsnotify.Watcher
	cfg       *config.Config
	debouncer *eventDebouncer
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	// onChange receives the batch of changed paths after debouncing.
	onChange func(paths []string)
}

// New creates a watcher for the configured project. onChange runs on the
// debouncer's timer goroutine and must not block for long.
func New(cfg *config.Config, onChange func(paths []string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher:  fsw,
		cfg:      cfg,
		onChange: onChange,
	}
	w.debouncer = newEventDebouncer(
		time.Duration(cfg.Performance.WatchDebounceMs)*time.Millisecond,
		w.flush,
	)
	return w, nil
}

// Start adds watches for the project tree and begins processing events.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatches(w.cfg.Project.Root); err != nil {
		return err
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.processEvents(ctx)

	debug.Log("WATCH", "watching %s", w.cfg.Project.Root)
	return nil
}

// Stop tears the watcher down and waits for its goroutine.
func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	err := w.watcher.Close()
	w.wg.Wait()
	w.debouncer.stop()
	return err
}

// addWatches registers every non-excluded directory. fsnotify watches are not
// recursive, so each subdirectory needs its own.
func (w *Watcher) addWatches(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.ignoredDir(path, d.Name()) {
			return filepath.SkipDir
		}
		if addErr := w.watcher.Add(path); addErr != nil {
			debug.Log("WATCH", "cannot watch %s: %v", path, addErr)
		}
		return nil
	})
}

func (w *Watcher) ignoredDir(path, name string) bool {
	if strings.HasPrefix(name, ".") || name == "node_modules" {
		return true
	}
	rel, err := filepath.Rel(w.cfg.Project.Root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.cfg.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, rel+"/"); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			debug.Log("WATCH", "watch error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	path := event.Name

	// New directories need their own watch to see files created inside them.
	if event.Op&fsnotify.Create != 0 {
		if ok, name := isDir(path); ok {
			if !w.ignoredDir(path, name) {
				if err := w.watcher.Add(path); err == nil {
					debug.Log("WATCH", "watching new directory %s", path)
				}
			}
			return
		}
	}

	if !w.relevantFile(path) {
		return
	}
	debug.Log("WATCH", "event %v for %s", event.Op, path)
	w.debouncer.add(path)
}

// relevantFile applies the scan's include and exclude globs to an event path.
func (w *Watcher) relevantFile(path string) bool {
	rel, err := filepath.Rel(w.cfg.Project.Root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.cfg.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	for _, pattern := range w.cfg.Include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) flush(paths []string) {
	if w.onChange != nil {
		w.onChange(paths)
	}
}

// eventDebouncer folds bursts of file events into one callback per quiet
// period. Editors and build tools emit many events per logical save.
type eventDebouncer struct {
	mu       sync.Mutex
	pending  map[string]struct{}
	debounce time.Duration
	timer    *time.Timer
	flush    func(paths []string)
}

func newEventDebouncer(debounce time.Duration, flush func(paths []string)) *eventDebouncer {
	return &eventDebouncer{
		pending:  make(map[string]struct{}),
		debounce: debounce,
		flush:    flush,
	}
}

func (d *eventDebouncer) add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.debounce, d.fire)
}

func (d *eventDebouncer) fire() {
	d.mu.Lock()
	paths := make([]string, 0, len(d.pending))
	for path := range d.pending {
		paths = append(paths, path)
	}
	d.pending = make(map[string]struct{})
	d.mu.Unlock()

	if len(paths) > 0 {
		d.flush(paths)
	}
}

// stop cancels the pending timer. Events queued at shutdown are dropped; the
// next scan picks the changes up anyway.
func (d *eventDebouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

func isDir(path string) (bool, string) {
	info, err := os.Stat(path)
	if err != nil {
		return false, ""
	}
	return info.IsDir(), filepath.Base(path)
}
