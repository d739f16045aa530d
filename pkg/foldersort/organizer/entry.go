package organizer

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Kind describes what a directory entry is.
type Kind int

// Entry kinds.
const (
	KindRegular Kind = iota
	KindDir
	KindSymlink
	KindOther
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRegular:
		return "file"
	case KindDir:
		return "directory"
	case KindSymlink:
		return "symlink"
	default:
		return "other"
	}
}

// Entry is one item directly inside the target directory.
type Entry struct {
	Name    string
	Path    string
	Kind    Kind
	Size    int64
	ModTime time.Time
	Created time.Time
	// Ext is the lower-cased extension without the dot.
	Ext string
}

// Extension returns the lower-cased text after the final dot of name, or ""
// when there is none. ".bashrc" yields "bashrc" and "archive." yields "".
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// splitName splits name into the part before the extension and the extension
// with its dot, preserving case: "Report.PDF" -> ("Report", ".PDF").
func splitName(name string) (base, ext string) {
	ext = filepath.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}

func kindOf(mode os.FileMode) Kind {
	switch {
	case mode&os.ModeSymlink != 0:
		return KindSymlink
	case mode.IsDir():
		return KindDir
	case mode.IsRegular():
		return KindRegular
	default:
		return KindOther
	}
}

// Key determines the destination folder of an entry.
type Key struct {
	Ext  string `json:"ext" yaml:"ext"`
	Date string `json:"date,omitempty" yaml:"date,omitempty"`
}

// DateLayout formats the date bucket.
const DateLayout = "2006-01-02"

// Dir returns the destination folder relative to the target. An empty
// extension maps to noExtDir.
func (k Key) Dir(noExtDir string) string {
	ext := k.Ext
	if ext == "" {
		ext = noExtDir
	}
	if k.Date == "" {
		return ext
	}
	return filepath.Join(ext, k.Date)
}

// String returns the key in slash form, e.g. "pdf/2024-06-15".
func (k Key) String() string {
	return filepath.ToSlash(k.Dir(""))
}

// SkipReason explains why an entry stayed in place.
type SkipReason string

// Skip reasons.
const (
	SkipDirectory       SkipReason = "directory"
	SkipSymlink         SkipReason = "symlink"
	SkipExcludedSuffix  SkipReason = "excluded-suffix"
	SkipExcludedPattern SkipReason = "excluded-pattern"
	SkipNotRegular      SkipReason = "not-regular"
)

// Skip records an entry that was left in place.
type Skip struct {
	Path   string     `json:"path" yaml:"path"`
	Reason SkipReason `json:"reason" yaml:"reason"`
}

// Move records one relocation.
type Move struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	Key         Key    `json:"key" yaml:"key"`
	Size        int64  `json:"size" yaml:"size"`
	// Renamed is set when a numeric suffix was needed to avoid a collision.
	Renamed bool `json:"renamed" yaml:"renamed"`
}

// Result summarizes one organizer run. On failure it holds the moves made
// before the failing entry.
type Result struct {
	Target      string        `json:"target" yaml:"target"`
	Moves       []Move        `json:"moves" yaml:"moves"`
	Skipped     []Skip        `json:"skipped" yaml:"skipped"`
	CreatedDirs []string      `json:"created_dirs" yaml:"created_dirs"`
	DryRun      bool          `json:"dry_run" yaml:"dry_run"`
	Started     time.Time     `json:"started" yaml:"started"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
}

// TotalBytes returns the combined size of all moved files.
func (r *Result) TotalBytes() int64 {
	var total int64
	for _, m := range r.Moves {
		total += m.Size
	}
	return total
}

// Renamed returns the number of moves that needed a collision suffix.
func (r *Result) Renamed() int {
	n := 0
	for _, m := range r.Moves {
		if m.Renamed {
			n++
		}
	}
	return n
}
