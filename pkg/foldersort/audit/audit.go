// Package audit finds folders that have no entries and removes them.
package audit

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/jamesainslie/foldersort/pkg/foldersort/logging"
	"github.com/jamesainslie/foldersort/pkg/foldersort/trash"
)

// Options configures Remove.
type Options struct {
	// UseTrash sends folders to the system trash instead of deleting them.
	UseTrash bool

	// DryRun reports what would be removed without removing anything.
	DryRun bool

	// Logger overrides the package logger.
	Logger *logging.Logger
}

// walkState collects what the walk learns. fastwalk calls back from several
// goroutines.
type walkState struct {
	mu       sync.Mutex
	dirs     []string
	nonEmpty map[string]bool
	failed   map[string]bool
}

// Find walks the tree below root and returns every folder that has no
// entries at all, sorted. root itself is never reported, symlinks are not
// followed, and a folder holding only empty folders is not empty.
// Folders that could not be read are left out.
func Find(root string) ([]string, error) {
	log := logging.Get("audit")

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("auditing %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("auditing %s: not a directory", root)
	}

	st := &walkState{nonEmpty: make(map[string]bool), failed: make(map[string]bool)}
	conf := fastwalk.Config{
		Follow: false,
	}

	walkErr := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		st.mu.Lock()
		defer st.mu.Unlock()

		if err != nil {
			log.Warn("cannot read folder", "path", path, "error", err)
			st.failed[path] = true
			return nil
		}
		if path == root {
			return nil
		}

		st.nonEmpty[filepath.Dir(path)] = true
		if d.IsDir() {
			st.dirs = append(st.dirs, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking %s: %w", root, walkErr)
	}

	empty := make([]string, 0)
	for _, dir := range st.dirs {
		if !st.nonEmpty[dir] && !st.failed[dir] {
			empty = append(empty, dir)
		}
	}
	sort.Strings(empty)

	log.Debug("audit complete", "root", root, "folders", len(st.dirs), "empty", len(empty))
	return empty, nil
}

// Remove deletes each folder in dirs, in order, and returns the ones it
// removed. Each folder must still be empty. The first failure stops the
// run.
func Remove(dirs []string, opts Options) ([]string, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Get("audit")
	}

	remove := trash.Remove
	if opts.UseTrash {
		remove = trash.RemoveEmptyDir
	}

	removed := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if opts.DryRun {
			removed = append(removed, dir)
			continue
		}
		if err := remove(dir); err != nil {
			log.Error("removing empty folder failed", "path", dir, "error", err)
			return removed, err
		}
		log.Debug("removed empty folder", "path", dir, "trash", opts.UseTrash)
		removed = append(removed, dir)
	}
	return removed, nil
}
