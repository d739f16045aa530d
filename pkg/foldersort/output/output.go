// Package output renders the report of an organize run in various formats
// (pretty, plain, json, yaml, table, etc.).
//
// Formatters are registered by name and selected at runtime:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    return err
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, output.FromOutcome(outcome)); err != nil {
//	    return err
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/foldersort/pkg/foldersort/session"
)

// MoveInfo describes one relocated file.
type MoveInfo struct {
	// Source is the original absolute path.
	Source string `json:"source" yaml:"source"`

	// Destination is the final absolute path.
	Destination string `json:"destination" yaml:"destination"`

	// Name is the file name before the move.
	Name string `json:"name" yaml:"name"`

	// RelDest is Destination relative to the target folder.
	RelDest string `json:"rel_dest" yaml:"rel_dest"`

	// Folder is the destination folder relative to the target, e.g. "pdf/2024-06-15".
	Folder string `json:"folder" yaml:"folder"`

	Size      int64  `json:"size" yaml:"size"`
	SizeHuman string `json:"size_human" yaml:"size_human"`

	// Renamed is set when a _N suffix avoided a collision.
	Renamed bool `json:"renamed" yaml:"renamed"`
}

// SkipInfo describes an entry that stayed in place.
type SkipInfo struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

// Stats summarizes a run.
type Stats struct {
	Moved          int           `json:"moved" yaml:"moved"`
	Renamed        int           `json:"renamed" yaml:"renamed"`
	Skipped        int           `json:"skipped" yaml:"skipped"`
	FoldersCreated int           `json:"folders_created" yaml:"folders_created"`
	EmptyFound     int           `json:"empty_found" yaml:"empty_found"`
	EmptyRemoved   int           `json:"empty_removed" yaml:"empty_removed"`
	TotalSize      int64         `json:"total_size" yaml:"total_size"`
	Duration       time.Duration `json:"duration" yaml:"duration"`
}

// Result is the report handed to formatters.
type Result struct {
	RunID        string     `json:"run_id" yaml:"run_id"`
	Target       string     `json:"target" yaml:"target"`
	DryRun       bool       `json:"dry_run" yaml:"dry_run"`
	Started      time.Time  `json:"started" yaml:"started"`
	Status       string     `json:"status" yaml:"status"`
	Cleanup      string     `json:"cleanup" yaml:"cleanup"`
	Moves        []MoveInfo `json:"moves" yaml:"moves"`
	Skipped      []SkipInfo `json:"skipped" yaml:"skipped"`
	CreatedDirs  []string   `json:"created_dirs" yaml:"created_dirs"`
	EmptyFolders []string   `json:"empty_folders" yaml:"empty_folders"`
	Removed      []string   `json:"removed" yaml:"removed"`
	Stats        Stats      `json:"stats" yaml:"stats"`
	Error        string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// FromOutcome builds a report from a session outcome.
func FromOutcome(out *session.Outcome) *Result {
	r := &Result{
		RunID:        out.RunID,
		Target:       out.Target,
		Status:       out.Status,
		Cleanup:      string(out.Cleanup),
		Started:      out.Started,
		Moves:        make([]MoveInfo, 0),
		Skipped:      make([]SkipInfo, 0),
		CreatedDirs:  make([]string, 0),
		EmptyFolders: append([]string{}, out.EmptyFolders...),
		Removed:      append([]string{}, out.Removed...),
	}
	if out.Err != nil {
		r.Error = out.Err.Error()
	}

	if res := out.Result; res != nil {
		r.DryRun = res.DryRun
		for _, m := range res.Moves {
			rel := RelPath(res.Target, m.Destination)
			r.Moves = append(r.Moves, MoveInfo{
				Source:      m.Source,
				Destination: m.Destination,
				Name:        filepath.Base(m.Source),
				RelDest:     rel,
				Folder:      filepath.ToSlash(filepath.Dir(rel)),
				Size:        m.Size,
				SizeHuman:   humanize.IBytes(uint64(m.Size)),
				Renamed:     m.Renamed,
			})
		}
		for _, s := range res.Skipped {
			r.Skipped = append(r.Skipped, SkipInfo{Path: s.Path, Reason: string(s.Reason)})
		}
		r.CreatedDirs = append(r.CreatedDirs, res.CreatedDirs...)
		r.Stats.Renamed = res.Renamed()
		r.Stats.TotalSize = res.TotalBytes()
	}

	r.Stats.Moved = len(r.Moves)
	r.Stats.Skipped = len(r.Skipped)
	r.Stats.FoldersCreated = len(r.CreatedDirs)
	r.Stats.EmptyFound = len(r.EmptyFolders)
	r.Stats.EmptyRemoved = len(r.Removed)
	r.Stats.Duration = out.Duration
	return r
}

// RelPath returns path relative to base with forward slashes, or path
// itself when no relative form exists.
func RelPath(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// Formatter is the interface that all output formatters implement.
type Formatter interface {
	// Format writes the formatted report to the buffer.
	Format(w *bytes.Buffer, r *Result) error
}

// FormatterFactory creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory, replacing any with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
