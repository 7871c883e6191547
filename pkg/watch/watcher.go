package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/biom-format/tablecheck/pkg/config"
)

// Op is the kind of change reported for a table file.
type Op string

// Operations reported in events.
const (
	OpCreate Op = "create"
	OpWrite  Op = "write"
	OpRemove Op = "remove"
	OpRename Op = "rename"
)

// Event describes a debounced change to one table file.
type Event struct {
	Path string
	Op   Op
}

// Handler is called once per debounced event.
type Handler func(ctx context.Context, ev Event)

// Observer is notified of watcher activity. *metrics.Collector satisfies it.
type Observer interface {
	RecordWatchEvent(op string)
	SetWatchedFiles(n int)
}

// Config contains configuration for the file watcher.
type Config struct {
	// Path is the table file or directory to watch.
	Path string

	// DebounceInterval is how long a file must be quiet before its event is
	// delivered.
	DebounceInterval time.Duration

	// Extensions lists the file extensions treated as tables, compared
	// case-insensitively.
	Extensions []string

	// SkipHidden ignores files and directories whose name starts with a dot.
	SkipHidden bool

	// Observer receives event counts and the number of known tables.
	Observer Observer
}

// FromConfig builds a watcher configuration for path from the watch section
// of the application configuration.
func FromConfig(path string, cfg config.WatchConfig) Config {
	return Config{
		Path:             path,
		DebounceInterval: cfg.DebounceInterval,
		Extensions:       slices.Clone(cfg.Extensions),
		SkipHidden:       cfg.SkipHidden,
	}
}

// FileWatcher watches table files for changes.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   Config
	debounce *Debouncer

	// target is set when watching a single file; its parent directory is
	// watched instead so that atomic replacements are seen.
	target string

	mu      sync.RWMutex
	running bool
	files   map[string]struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	closed  sync.Once
}

// NewFileWatcher creates a new file watcher. The path is not inspected until
// Watch is called.
func NewFileWatcher(cfg Config, logger *slog.Logger) (*FileWatcher, error) {
	if cfg.Path == "" {
		return nil, errors.New("watch path cannot be empty")
	}
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = config.DefaultWatchDebounceInterval
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = slices.Clone(config.DefaultWatchExtensions)
	}

	if logger == nil {
		logger = slog.Default().With("component", "watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  watcher,
		logger:   logger,
		config:   cfg,
		debounce: NewDebouncer(cfg.DebounceInterval),
		files:    make(map[string]struct{}),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Scan returns the table files under the watched path, sorted. A file path
// is returned as is, whatever its extension.
func (fw *FileWatcher) Scan() ([]string, error) {
	info, err := os.Stat(fw.config.Path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{fw.config.Path}, nil
	}

	var files []string
	err = filepath.WalkDir(fw.config.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != fw.config.Path && fw.isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && fw.hasValidExtension(filepath.Ext(path)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Watch starts watching and calls handler for each debounced event. It
// blocks until ctx is cancelled or Stop is called.
func (fw *FileWatcher) Watch(ctx context.Context, handler Handler) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	fw.running = true
	fw.mu.Unlock()

	defer func() {
		fw.mu.Lock()
		fw.running = false
		fw.mu.Unlock()
		close(fw.doneCh)
	}()

	if err := fw.addPath(fw.config.Path); err != nil {
		return fmt.Errorf("failed to watch path: %w", err)
	}

	fw.logger.Info("file watcher started",
		"path", fw.config.Path,
		"debounce_ms", fw.config.DebounceInterval.Milliseconds(),
		"tables", fw.FileCount(),
	)

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("file watcher stopped (context cancelled)")
			return nil

		case <-fw.stopCh:
			fw.logger.Info("file watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			fw.handleEvent(ctx, event, handler)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

// handleEvent filters one fsnotify event and schedules the handler.
func (fw *FileWatcher) handleEvent(ctx context.Context, event fsnotify.Event, handler Handler) {
	// New directories inside a watched tree are watched too.
	if fw.target == "" && event.Has(fsnotify.Create) && !fw.isHidden(event.Name) {
		if isDir, err := isDirectory(event.Name); err == nil && isDir {
			if err := fw.addDirectory(event.Name); err != nil {
				fw.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			return
		}
	}

	if !fw.shouldProcessEvent(event) {
		return
	}

	op := opOf(event.Op)
	fw.track(event.Name, op)
	if fw.config.Observer != nil {
		fw.config.Observer.RecordWatchEvent(string(op))
	}

	fw.logger.Debug("file event detected", "path", event.Name, "op", op)

	ev := Event{Path: event.Name, Op: op}
	fw.debounce.Trigger(event.Name, func() {
		if ctx.Err() != nil {
			return
		}
		handler(ctx, ev)
	})
}

// Stop stops the file watcher and cancels pending callbacks.
func (fw *FileWatcher) Stop() error {
	var err error
	fw.closed.Do(func() {
		fw.mu.RLock()
		running := fw.running
		fw.mu.RUnlock()

		close(fw.stopCh)
		if running {
			<-fw.doneCh
		}

		fw.debounce.Stop()

		if cerr := fw.watcher.Close(); cerr != nil {
			err = fmt.Errorf("failed to close watcher: %w", cerr)
		}
	})
	return err
}

// Running reports whether Watch is active.
func (fw *FileWatcher) Running() bool {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	return fw.running
}

// FileCount returns the number of table files currently known.
func (fw *FileWatcher) FileCount() int {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	return len(fw.files)
}

// addPath adds a file or directory to the watcher.
func (fw *FileWatcher) addPath(path string) error {
	isDir, err := isDirectory(path)
	if err != nil {
		return err
	}

	if isDir {
		return fw.addDirectory(path)
	}

	fw.target = filepath.Clean(path)
	fw.track(fw.target, OpCreate)
	return fw.watcher.Add(filepath.Dir(fw.target))
}

// addDirectory adds a directory and all subdirectories to the watcher and
// records the table files found.
func (fw *FileWatcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path != dir && fw.isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.IsDir() {
			if fw.hasValidExtension(filepath.Ext(path)) {
				fw.track(path, OpCreate)
			}
			return nil
		}

		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		fw.logger.Debug("watching directory", "path", path)
		return nil
	})
}

// track updates the set of known table files.
func (fw *FileWatcher) track(path string, op Op) {
	fw.mu.Lock()
	switch op {
	case OpRemove, OpRename:
		delete(fw.files, path)
	default:
		fw.files[path] = struct{}{}
	}
	n := len(fw.files)
	fw.mu.Unlock()

	if fw.config.Observer != nil {
		fw.config.Observer.SetWatchedFiles(n)
	}
}

// shouldProcessEvent determines if an event concerns a table file.
func (fw *FileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}

	if fw.target != "" {
		return filepath.Clean(event.Name) == fw.target
	}

	if !fw.hasValidExtension(filepath.Ext(event.Name)) {
		return false
	}

	return !fw.isHidden(event.Name)
}

// hasValidExtension checks if a file extension should be watched.
func (fw *FileWatcher) hasValidExtension(ext string) bool {
	for _, validExt := range fw.config.Extensions {
		if strings.EqualFold(ext, validExt) {
			return true
		}
	}
	return false
}

func (fw *FileWatcher) isHidden(path string) bool {
	return fw.config.SkipHidden && strings.HasPrefix(filepath.Base(path), ".")
}

// opOf maps an fsnotify operation to an Op. Removal wins over creation when
// several bits are set.
func opOf(op fsnotify.Op) Op {
	switch {
	case op.Has(fsnotify.Remove):
		return OpRemove
	case op.Has(fsnotify.Rename):
		return OpRename
	case op.Has(fsnotify.Create):
		return OpCreate
	default:
		return OpWrite
	}
}

func isDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
