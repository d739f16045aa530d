package organizer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/jamesainslie/foldersort/pkg/foldersort/logging"
	"github.com/spf13/afero"
)

// Organizer moves the top-level files of a directory into extension (and
// optionally date) folders. It keeps no state between runs.
type Organizer struct {
	fs      afero.Fs
	opts    Options
	log     *logging.Logger
	exclude []glob.Glob

	// rename is swapped in tests to simulate cross-device failures.
	rename func(oldpath, newpath string) error
}

// New creates an Organizer on fs. Options are validated and defaults applied.
func New(fs afero.Fs, opts Options) (*Organizer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	o := &Organizer{
		fs:     fs,
		opts:   opts,
		log:    opts.Logger,
		rename: fs.Rename,
	}
	if o.log == nil {
		o.log = logging.Get("organizer")
	}
	for _, pattern := range opts.Exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		o.exclude = append(o.exclude, g)
	}
	return o, nil
}

// Organize runs the organizer against target on the OS filesystem.
func Organize(target string, opts Options) (*Result, error) {
	o, err := New(afero.NewOsFs(), opts)
	if err != nil {
		return nil, err
	}
	return o.Organize(target)
}

// Organize moves every eligible top-level file of target into its
// destination folder. Precondition failures return before anything is
// touched. Any later filesystem error aborts the run; the returned Result
// then lists the moves that already happened.
func (o *Organizer) Organize(target string) (*Result, error) {
	started := time.Now()

	root, err := o.validateTarget(target)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Target:  root,
		Moves:   make([]Move, 0),
		Skipped: make([]Skip, 0),
		DryRun:  o.opts.DryRun,
		Started: started,
	}
	defer func() { res.Duration = time.Since(started) }()

	entries, err := o.list(root)
	if err != nil {
		return res, err
	}

	candidates := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if reason, skip := o.skipReason(e); skip {
			res.Skipped = append(res.Skipped, Skip{Path: e.Path, Reason: reason})
			o.log.Debug("skipping entry", "path", e.Path, "reason", reason)
			continue
		}
		candidates = append(candidates, e)
	}

	o.log.Info("organizing", "target", root, "files", len(candidates), "skipped", len(res.Skipped), "dry_run", o.opts.DryRun)

	plan := newPlan(o.opts.DryRun)
	for _, e := range candidates {
		plan.pending[e.Path] = true
	}
	for i, e := range candidates {
		m, err := o.relocate(root, e, plan, res)
		if err != nil {
			o.log.Error("move failed", "path", e.Path, "error", err)
			return res, err
		}
		res.Moves = append(res.Moves, m)
		if o.opts.OnMove != nil {
			o.opts.OnMove(i+1, len(candidates), m)
		}
	}

	o.log.Info("organized", "target", root, "moved", len(res.Moves), "renamed", res.Renamed(), "dirs_created", len(res.CreatedDirs))
	return res, nil
}

func (o *Organizer) validateTarget(target string) (string, error) {
	if strings.TrimSpace(target) == "" {
		return "", ErrNoFolderSelected
	}

	root, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", target, err)
	}

	info, err := o.fs.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrDirectoryNotFound, root)
		}
		return "", fmt.Errorf("reading %s: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}
	return root, nil
}

// list returns the direct entries of root, sorted by name.
func (o *Organizer) list(root string) ([]Entry, error) {
	infos, err := afero.ReadDir(o.fs, root)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", root, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, Entry{
			Name:    info.Name(),
			Path:    filepath.Join(root, info.Name()),
			Kind:    kindOf(info.Mode()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Ext:     Extension(info.Name()),
		})
	}
	return entries, nil
}

func (o *Organizer) skipReason(e Entry) (SkipReason, bool) {
	switch e.Kind {
	case KindDir:
		return SkipDirectory, true
	case KindSymlink:
		if o.opts.Policy.ExcludeSymlinks {
			return SkipSymlink, true
		}
		// A link to a directory counts as a directory; other links move as links.
		if info, err := o.fs.Stat(e.Path); err == nil && info.IsDir() {
			return SkipDirectory, true
		}
	case KindOther:
		return SkipNotRegular, true
	}

	lower := strings.ToLower(e.Name)
	for _, suffix := range o.opts.Policy.ExcludedSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return SkipExcludedSuffix, true
		}
	}
	for _, g := range o.exclude {
		if g.Match(e.Name) {
			return SkipExcludedPattern, true
		}
	}
	return "", false
}

// KeyFor returns the destination key of e under the current options.
func (o *Organizer) KeyFor(e Entry) Key {
	k := Key{Ext: e.Ext}
	if o.opts.Policy.BucketByDate {
		k.Date = o.dateOf(e).Local().Format(DateLayout)
	}
	return k
}

func (o *Organizer) relocate(root string, e Entry, p *plan, res *Result) (Move, error) {
	source := e.Path
	e.Path = p.current(source)

	key := o.KeyFor(e)
	dir := filepath.Join(root, key.Dir(o.opts.NoExtensionDir))

	created, err := o.ensureDir(root, key, p)
	if err != nil {
		return Move{}, err
	}
	res.CreatedDirs = append(res.CreatedDirs, created...)
	e.Path = p.current(source)

	dst, renamed, err := o.resolve(dir, e.Name, p)
	if err != nil {
		return Move{}, err
	}

	if !o.opts.DryRun {
		if err := o.move(e.Path, dst); err != nil {
			return Move{}, fmt.Errorf("moving %s to %s: %w", e.Path, dst, err)
		}
	}
	p.take(dst)
	delete(p.pending, source)

	m := Move{Source: source, Destination: dst, Key: key, Size: e.Size, Renamed: renamed}
	o.log.Debug("moved", "src", m.Source, "dst", m.Destination, "renamed", renamed)
	return m, nil
}

// ensureDir creates the destination folder of key level by level and
// returns the folders it had to create. A top-level file of this run that
// sits where a folder must go is set aside first and moved from there on its
// turn.
func (o *Organizer) ensureDir(root string, key Key, p *plan) ([]string, error) {
	levels := []string{filepath.Join(root, key.Dir(o.opts.NoExtensionDir))}
	if key.Date != "" {
		levels = []string{filepath.Dir(levels[0]), levels[0]}
	}

	var created []string
	for _, dir := range levels {
		if p.hasDir(dir) {
			continue
		}
		info, err := o.fs.Stat(dir)
		if p.shadowed(dir) {
			info, err = nil, os.ErrNotExist
		}
		switch {
		case err == nil && info.IsDir():
			p.addDir(dir)
			continue
		case err == nil && filepath.Dir(dir) == root && p.pending[dir]:
			if err := o.setAside(root, dir, p); err != nil {
				return created, err
			}
		case err == nil:
			return created, fmt.Errorf("%w: %s", ErrDestinationNotDirectory, dir)
		case !errors.Is(err, os.ErrNotExist):
			return created, fmt.Errorf("checking %s: %w", dir, err)
		}

		if !o.opts.DryRun {
			if err := o.fs.MkdirAll(dir, 0o755); err != nil {
				return created, fmt.Errorf("creating %s: %w", dir, err)
			}
		}
		p.addDir(dir)
		created = append(created, dir)
		o.log.Debug("created folder", "path", dir)
	}
	return created, nil
}

// setAside renames the top-level file at path to a free collision name in
// root so a folder can take its place.
func (o *Organizer) setAside(root, path string, p *plan) error {
	aside, _, err := o.resolve(root, filepath.Base(path), p)
	if err != nil {
		return err
	}
	if !o.opts.DryRun {
		if err := o.rename(path, aside); err != nil {
			return fmt.Errorf("moving %s aside: %w", path, err)
		}
	}
	p.take(aside)
	p.asides[path] = aside
	o.log.Debug("set file aside", "path", path, "aside", aside)
	return nil
}

// plan tracks folders and destinations claimed during a run so that a dry
// run resolves collisions the same way a real run would. pending holds the
// candidates not moved yet; asides maps a candidate to the temporary name it
// was renamed to.
type plan struct {
	dryRun  bool
	dirs    map[string]bool
	taken   map[string]bool
	pending map[string]bool
	asides  map[string]string
}

func newPlan(dryRun bool) *plan {
	return &plan{
		dryRun:  dryRun,
		dirs:    make(map[string]bool),
		taken:   make(map[string]bool),
		pending: make(map[string]bool),
		asides:  make(map[string]string),
	}
}

func (p *plan) hasDir(dir string) bool { return p.dirs[dir] }
func (p *plan) addDir(dir string)      { p.dirs[dir] = true }

func (p *plan) take(path string) {
	if p.dryRun {
		p.taken[path] = true
	}
}

func (p *plan) claimed(path string) bool { return p.taken[path] }

// shadowed reports whether dir or its parent is a file that a dry run would
// have renamed out of the way.
func (p *plan) shadowed(dir string) bool {
	if !p.dryRun {
		return false
	}
	_, self := p.asides[dir]
	_, parent := p.asides[filepath.Dir(dir)]
	return self || parent
}

// current returns where the candidate at path lives now. In a dry run
// nothing is renamed, so that is always path.
func (p *plan) current(path string) string {
	if aside, ok := p.asides[path]; ok && !p.dryRun {
		return aside
	}
	return path
}
