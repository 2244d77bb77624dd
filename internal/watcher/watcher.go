// Package watcher signals when the medportal SQLite database changes, so
// `medportal orphans --watch` can rerun its report.
package watcher

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kduhealth/medportal/internal/log"
)

// Config configures a Watcher.
type Config struct {
	// DBPath is the database file. Its directory is watched.
	DBPath   string
	Debounce time.Duration
}

// DefaultConfig watches dbPath with a one second debounce.
func DefaultConfig(dbPath string) Config {
	return Config{DBPath: dbPath, Debounce: time.Second}
}

// Watcher coalesces writes to the database and its WAL into single signals.
type Watcher struct {
	fs       *fsnotify.Watcher
	dir      string
	names    map[string]struct{}
	debounce time.Duration
	changes  chan struct{}
	done     chan struct{}
}

// New creates a watcher. Call Start to begin watching.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	base := filepath.Base(cfg.DBPath)
	names := map[string]struct{}{base: {}, base + "-wal": {}}
	return &Watcher{
		fs:       fsw,
		dir:      filepath.Dir(cfg.DBPath),
		names:    names,
		debounce: cfg.Debounce,
		changes:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}, nil
}

// Start watches the database directory and returns the change channel.
func (w *Watcher) Start() (<-chan struct{}, error) {
	if err := w.fs.Add(w.dir); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", w.dir, err)
	}
	log.Debug(log.CatWatcher, "watching database", "dir", w.dir)
	go w.loop()
	return w.changes, nil
}

// Stop ends the watch.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fs.Close()
}

func (w *Watcher) loop() {
	// Idle until the first relevant event resets it.
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case evt, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(evt) {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "watch error", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) relevant(evt fsnotify.Event) bool {
	if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
		return false
	}
	_, ok := w.names[filepath.Base(evt.Name)]
	return ok
}
