// Package watch reports debounced changes to .classes files below a root directory.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config configures the file watcher
type Config struct {
	// Root is the directory to watch recursively
	Root string

	// Match selects files by their slash-separated path relative to Root.
	// Nil selects every file ending in .classes.
	Match func(rel string) bool

	// SkipDir reports whether a directory (relative to Root) must not be watched.
	SkipDir func(rel string) bool

	// Debounce is how long to wait for more changes before reporting
	Debounce time.Duration

	// Logger for logging events
	Logger *slog.Logger
}

// Operation indicates the type of file change
type Operation string

const (
	OpCreate Operation = "create"
	OpModify Operation = "modify"
	OpDelete Operation = "delete"
)

// Event is a single debounced change.
type Event struct {
	// Path is the file path as seen by the watcher (Root joined with the relative path)
	Path string
	// Rel is the slash-separated path relative to Root
	Rel       string
	Operation Operation
}

// Watcher watches a directory tree for .classes changes.
type Watcher struct {
	config  Config
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	hashMu sync.Mutex
	hashes map[string]string

	events chan Event
	done   chan struct{}
}

// New creates a watcher. Call Start to begin receiving events.
func New(config Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Debounce <= 0 {
		config.Debounce = 200 * time.Millisecond
	}
	if config.Match == nil {
		config.Match = func(rel string) bool { return strings.HasSuffix(rel, ".classes") }
	}
	if config.Root == "" {
		config.Root = "."
	}

	return &Watcher{
		config:  config,
		watcher: fsw,
		logger:  config.Logger,
		pending: make(map[string]fsnotify.Op),
		hashes:  make(map[string]string),
		events:  make(chan Event, 100),
		done:    make(chan struct{}),
	}, nil
}

// Events returns the channel of debounced events. It is closed when the
// watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start adds watches below Root, records the current file contents and
// processes changes until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchesRecursive(w.config.Root, true); err != nil {
		w.watcher.Close()
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("watching for changes",
		"root", w.config.Root,
		"debounce", w.config.Debounce)

	return nil
}

// Wait blocks until the event loop has exited.
func (w *Watcher) Wait() {
	<-w.done
}

func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.config.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (w *Watcher) skipDir(path string) bool {
	rel := w.rel(path)
	if rel == "." {
		return false
	}
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || base == "vendor" {
		return true
	}
	return w.config.SkipDir != nil && w.config.SkipDir(rel)
}

// addWatchesRecursive watches every directory below root. Matching files
// found during the initial walk are recorded; files found in a directory
// created later are reported as new.
func (w *Watcher) addWatchesRecursive(root string, initial bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			if !w.config.Match(w.rel(path)) {
				return nil
			}
			if initial {
				w.recordHash(path)
			} else {
				w.pendingMu.Lock()
				w.pending[path] |= fsnotify.Create
				w.pendingMu.Unlock()
			}
			return nil
		}

		if w.skipDir(path) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory",
				"path", path,
				"error", err)
		} else {
			w.logger.Debug("watching directory", "path", path)
		}

		return nil
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	ticker := time.NewTicker(w.config.Debounce)
	defer func() {
		ticker.Stop()
		w.watcher.Close()
		close(w.events)
		close(w.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.skipDir(path) {
				if err := w.addWatchesRecursive(path, false); err != nil {
					w.logger.Warn("failed to watch new directory", "path", path, "error", err)
				}
			}
			return
		}
	}

	rel := w.rel(path)
	if !w.config.Match(rel) {
		return
	}

	w.pendingMu.Lock()
	w.pending[path] |= event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("file change detected",
		"path", rel,
		"op", event.Op.String())
}

func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := maps.Clone(w.pending)
	clear(w.pending)
	w.pendingMu.Unlock()

	for path, op := range toProcess {
		if ctx.Err() != nil {
			return
		}

		event := Event{Path: path, Rel: w.rel(path)}

		hash, err := fileHash(path)
		if errors.Is(err, fs.ErrNotExist) {
			if !w.forget(path) {
				continue
			}
			event.Operation = OpDelete
			w.send(ctx, event)
			continue
		}
		if err != nil {
			w.logger.Warn("failed to read changed file", "path", event.Rel, "error", err)
			continue
		}

		old, had := w.swapHash(path, hash)
		if had && old == hash {
			continue
		}
		if op.Has(fsnotify.Create) || !had {
			event.Operation = OpCreate
		} else {
			event.Operation = OpModify
		}
		w.send(ctx, event)
	}
}

func (w *Watcher) send(ctx context.Context, event Event) {
	select {
	case w.events <- event:
		w.logger.Debug("sent watch event", "path", event.Rel, "op", event.Operation)
	case <-ctx.Done():
	}
}

func (w *Watcher) recordHash(path string) {
	hash, err := fileHash(path)
	if err != nil {
		return
	}
	w.swapHash(path, hash)
}

func (w *Watcher) swapHash(path, hash string) (string, bool) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	old, ok := w.hashes[path]
	w.hashes[path] = hash
	return old, ok
}

func (w *Watcher) forget(path string) bool {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	_, ok := w.hashes[path]
	delete(w.hashes, path)
	return ok
}

func fileHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
