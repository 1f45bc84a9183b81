// Package watch rebuilds a site when its sources change.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/talc/internal/foundation/errors"
	"git.home.luguber.info/inful/talc/internal/logfields"
)

// DefaultDebounce is the quiet window between the last change and a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// BuildFunc runs one build. Errors are logged and do not stop watching.
type BuildFunc func(ctx context.Context) error

// Config configures a Watcher.
type Config struct {
	// Dirs are watched recursively. Missing directories are skipped.
	Dirs []string
	// Ignore lists directories whose events never trigger a build, such as
	// the output directory.
	Ignore   []string
	Debounce time.Duration
	Build    BuildFunc
}

// Watcher runs an initial build and then one build per burst of changes.
// Builds never overlap; changes during a build schedule exactly one
// follow-up build.
type Watcher struct {
	cfg    Config
	ignore []string

	mu     sync.Mutex
	timer  *time.Timer
	builds chan struct{}
}

// New validates cfg and returns a watcher.
func New(cfg Config) (*Watcher, error) {
	if cfg.Build == nil {
		return nil, ferrors.ValidationError("build function is required").Build()
	}
	if len(cfg.Dirs) == 0 {
		return nil, ferrors.ValidationError("at least one directory to watch is required").Build()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	ignore := make([]string, 0, len(cfg.Ignore))
	for _, dir := range cfg.Ignore {
		if abs, err := filepath.Abs(dir); err == nil {
			ignore = append(ignore, abs)
		}
	}
	return &Watcher{cfg: cfg, ignore: ignore, builds: make(chan struct{}, 1)}, nil
}

// Run blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to create file watcher").Build()
	}
	defer func() { _ = fw.Close() }()

	for _, dir := range w.cfg.Dirs {
		if st, statErr := os.Stat(dir); statErr != nil || !st.IsDir() {
			slog.Warn("Skipping missing watch directory", logfields.Path(dir))
			continue
		}
		w.addDirsRecursive(fw, dir)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.buildLoop(ctx)
	}()
	defer wg.Wait()

	w.request()
	slog.Info("Watching for changes", logfields.Count(len(w.cfg.Dirs)))

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) buildLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.builds:
			if err := w.cfg.Build(ctx); err != nil {
				slog.Error("Rebuild failed", logfields.Error(err))
			}
		}
	}
}

// request queues a build unless one is already pending.
func (w *Watcher) request() {
	select {
	case w.builds <- struct{}{}:
	default:
	}
}

func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.cfg.Debounce, w.request)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) || w.ignored(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addDirsRecursive(fw, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.trigger()
}

func (w *Watcher) ignored(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, dir := range w.ignore {
		if abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			slog.Warn("Failed to watch directory", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent reports hidden, editor swap and OS metadata files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}
