package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cmmoran/argen/internal/output"
	"github.com/cmmoran/argen/pkg/action/generate"
	"github.com/cmmoran/argen/pkg/generator"
)

const DefaultDebounce = 300 * time.Millisecond

type runFunc func(*generator.Options, *slog.Logger) ([]output.Change, error)

// Watcher regenerates a module whenever one of its headers or its config
// list changes. Runs never overlap.
type Watcher struct {
	opts     *generator.Options
	debounce time.Duration
	logger   *slog.Logger
	generate runFunc

	fsWatcher *fsnotify.Watcher
	runMu     sync.Mutex

	watchedMu sync.Mutex
	watched   map[string]bool // cleaned file paths
	dirs      map[string]bool

	pendingMu sync.Mutex
	pending   map[string]struct{}
	timer     *time.Timer
}

func New(opts *generator.Options, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if err := opts.Normalize(); err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		opts:      opts,
		debounce:  debounce,
		logger:    logger.With("module", opts.PackageName),
		generate:  generate.Generate,
		fsWatcher: fsw,
		watched:   map[string]bool{},
		dirs:      map[string]bool{},
		pending:   map[string]struct{}{},
	}, nil
}

// Run generates once and then on every relevant change until ctx is done.
// Generation errors are logged; the watcher keeps running so the next edit
// can fix them.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	w.rebuild(nil)
	w.logger.Info("Watching headers", "files", len(w.watched), "debounce", w.debounce.String())

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if w.relevant(event.Name) {
				w.schedule(event.Name)
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	return w.fsWatcher.Close()
}

func (w *Watcher) relevant(path string) bool {
	w.watchedMu.Lock()
	defer w.watchedMu.Unlock()
	return w.watched[filepath.Clean(path)]
}

func (w *Watcher) schedule(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = map[string]struct{}{}
	w.pendingMu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)
	w.rebuild(paths)
}

// rebuild refreshes the watch list, since the config list may have gained or
// lost headers, and runs the generator.
func (w *Watcher) rebuild(changed []string) {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	if len(changed) > 0 {
		w.logger.Info("Change detected", "files", changed)
	}
	if err := w.refresh(); err != nil {
		w.logger.Warn("Unable to refresh watch list", "error", err)
	}
	if _, err := w.generate(w.opts, w.logger); err != nil {
		w.logger.Error("Generation failed", "error", err)
	}
}

func (w *Watcher) refresh() error {
	files := []string{filepath.Clean(w.opts.ConfigList)}
	headers, err := w.opts.Headers()
	if err != nil {
		return err
	}
	for _, rel := range headers {
		files = append(files, filepath.Clean(filepath.Join(w.opts.SourceDir, filepath.FromSlash(rel))))
	}

	w.watchedMu.Lock()
	defer w.watchedMu.Unlock()
	w.watched = make(map[string]bool, len(files))
	for _, f := range files {
		w.watched[f] = true
		dir := filepath.Dir(f)
		if w.dirs[dir] {
			continue
		}
		if err := w.fsWatcher.Add(dir); err != nil {
			w.logger.Warn("failed to watch directory", "path", dir, "error", err)
			continue
		}
		w.dirs[dir] = true
	}
	return nil
}
