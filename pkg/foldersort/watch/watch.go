// Package watch reruns the organizer whenever new files land in a folder.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jamesainslie/foldersort/pkg/foldersort/logging"
)

// DefaultDebounce is how long the folder must be quiet before a run.
const DefaultDebounce = 2 * time.Second

// Options configures a Watcher.
type Options struct {
	// Debounce delays a run until no new event arrived for this long.
	Debounce time.Duration

	// RunOnStart triggers one run before waiting for events.
	RunOnStart bool

	// Logger overrides the package logger.
	Logger *logging.Logger
}

// Watcher watches the top level of one folder. Subfolders are not watched,
// so destination folders filling up never trigger a run.
type Watcher struct {
	root string
	fsw  *fsnotify.Watcher
	opts Options
	log  *logging.Logger
}

// New starts watching root.
func New(root string, opts Options) (*Watcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", absRoot)
	}

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	log := opts.Logger
	if log == nil {
		log = logging.Get("watch")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(absRoot); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", absRoot, err)
	}

	return &Watcher{root: absRoot, fsw: fsw, opts: opts, log: log}, nil
}

// Root returns the watched folder.
func (w *Watcher) Root() string {
	return w.root
}

// Run calls trigger each time the folder settles after new top-level files
// appeared. trigger runs on the calling goroutine, so runs never overlap;
// events that arrive meanwhile are handled afterwards. Run blocks until ctx
// is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context, trigger func()) error {
	defer w.fsw.Close()

	if w.opts.RunOnStart {
		trigger()
	}

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug("change detected", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.log.Info("folder settled, organizing", "path", w.root)
			trigger()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watcher error", "error", err)
		}
	}
}

// relevant reports whether event announces a top-level entry that still
// exists and is not a folder. Files the organizer just moved away and the
// folders it created are ignored.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return false
	}
	if filepath.Dir(event.Name) != w.root {
		return false
	}
	info, err := os.Lstat(event.Name)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
