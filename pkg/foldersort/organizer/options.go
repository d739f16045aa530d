package organizer

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/jamesainslie/foldersort/pkg/foldersort/logging"
)

// DefaultNoExtensionDir is the folder that receives files without an extension.
// It contains a dot, so no extension folder can share its name.
const DefaultNoExtensionDir = "no.extension"

// DateSource selects the timestamp used for the date bucket.
type DateSource string

const (
	// DateCreated uses the file's creation (birth) time.
	DateCreated DateSource = "created"
	// DateModified uses the file's modification time.
	DateModified DateSource = "modified"
	// DateEXIF uses the EXIF capture date of images, falling back to DateCreated.
	DateEXIF DateSource = "exif"
)

// ParseDateSource parses a date source name. Empty means DateCreated.
func ParseDateSource(s string) (DateSource, error) {
	switch DateSource(strings.ToLower(strings.TrimSpace(s))) {
	case "", DateCreated:
		return DateCreated, nil
	case DateModified:
		return DateModified, nil
	case DateEXIF:
		return DateEXIF, nil
	default:
		return "", fmt.Errorf("unknown date source %q (want created, modified or exif)", s)
	}
}

// Policy is the set of switches that distinguishes the organizer variants.
type Policy struct {
	// BucketByDate adds a YYYY-MM-DD folder below the extension folder.
	BucketByDate bool

	// ExcludeSymlinks leaves symbolic links in place. Without it a link to a
	// directory is still skipped and any other link is moved as-is.
	ExcludeSymlinks bool

	// ExcludedSuffixes are name suffixes, matched case-insensitively, that are
	// never moved.
	ExcludedSuffixes []string

	// AuditEmptyDirs asks the caller to look for empty folders after the move pass.
	AuditEmptyDirs bool
}

// SimplePolicy groups by extension only and skips nothing but directories.
func SimplePolicy() Policy {
	return Policy{}
}

// DatedPolicy groups by extension and creation date and skips nothing but directories.
func DatedPolicy() Policy {
	return Policy{BucketByDate: true}
}

// EnhancedPolicy groups by extension and date, leaves symlinks and .lnk
// shortcuts alone, and audits empty folders afterwards.
func EnhancedPolicy() Policy {
	return Policy{
		BucketByDate:     true,
		ExcludeSymlinks:  true,
		ExcludedSuffixes: []string{".lnk"},
		AuditEmptyDirs:   true,
	}
}

// ParsePolicy returns the preset with the given name.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "simple":
		return SimplePolicy(), nil
	case "dated":
		return DatedPolicy(), nil
	case "enhanced":
		return EnhancedPolicy(), nil
	default:
		return Policy{}, fmt.Errorf("unknown policy %q (want simple, dated or enhanced)", name)
	}
}

// Options configures an Organizer.
type Options struct {
	Policy Policy

	// Exclude holds glob patterns matched against entry names. Matching
	// entries are left in place.
	Exclude []string

	// NoExtensionDir names the folder for files without an extension.
	// Empty means DefaultNoExtensionDir.
	NoExtensionDir string

	// DateSource selects the timestamp for the date bucket.
	DateSource DateSource

	// DryRun plans every move, including collision suffixes, without
	// creating folders or moving files.
	DryRun bool

	// OnMove is called after each file is moved (or planned, in a dry run).
	OnMove func(done, total int, m Move)

	// Logger overrides the package logger.
	Logger *logging.Logger
}

// DefaultOptions returns options for the enhanced policy.
func DefaultOptions() Options {
	return Options{
		Policy:         EnhancedPolicy(),
		NoExtensionDir: DefaultNoExtensionDir,
		DateSource:     DateCreated,
	}
}

// Validate applies defaults and rejects unusable settings.
func (o *Options) Validate() error {
	if o.NoExtensionDir == "" {
		o.NoExtensionDir = DefaultNoExtensionDir
	}
	if o.NoExtensionDir == "." || o.NoExtensionDir == ".." || strings.ContainsAny(o.NoExtensionDir, `/\`) {
		return fmt.Errorf("invalid no-extension folder name %q", o.NoExtensionDir)
	}

	source, err := ParseDateSource(string(o.DateSource))
	if err != nil {
		return err
	}
	o.DateSource = source

	suffixes := make([]string, 0, len(o.Policy.ExcludedSuffixes))
	for _, s := range o.Policy.ExcludedSuffixes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			suffixes = append(suffixes, s)
		}
	}
	o.Policy.ExcludedSuffixes = suffixes

	for _, pattern := range o.Exclude {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}

	return nil
}
