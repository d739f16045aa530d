// Package session runs one organize pass at a time on behalf of an
// interactive shell and keeps the selected folder and the last status
// message between runs.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jamesainslie/foldersort/pkg/foldersort/audit"
	"github.com/jamesainslie/foldersort/pkg/foldersort/logging"
	"github.com/jamesainslie/foldersort/pkg/foldersort/organizer"
)

// CleanupState tells what happened to the empty folders of a run.
type CleanupState string

const (
	// CleanupNotRun means the policy has no audit or the run failed first.
	CleanupNotRun CleanupState = "not-run"
	// CleanupNoneFound means the audit found nothing to remove.
	CleanupNoneFound CleanupState = "none-found"
	// CleanupPending means empty folders were found and await a decision.
	CleanupPending CleanupState = "pending"
	// CleanupCleaned means the empty folders were removed.
	CleanupCleaned CleanupState = "cleaned"
	// CleanupLeft means removal was declined.
	CleanupLeft CleanupState = "left"
	// CleanupFailed means removal stopped on an error.
	CleanupFailed CleanupState = "failed"
	// CleanupDryRun means empty folders were reported but never removed.
	CleanupDryRun CleanupState = "dry-run"
)

// ConfirmFunc decides whether the listed empty folders may be removed.
type ConfirmFunc func(dirs []string) bool

// Options configures a Session.
type Options struct {
	Organizer organizer.Options

	// UseTrash sends empty folders to the system trash.
	UseTrash bool

	// Logger overrides the package logger.
	Logger *logging.Logger
}

// Outcome describes one run.
type Outcome struct {
	RunID        string
	Target       string
	Result       *organizer.Result
	EmptyFolders []string
	Removed      []string
	Cleanup      CleanupState
	Status       string
	Err          error
	Started      time.Time
	Duration     time.Duration
}

// Session holds the folder a shell has selected and the status of the
// last run. Runs on one Session must not overlap.
type Session struct {
	Target string
	Status string

	opts Options
	log  *logging.Logger
}

// New creates a Session for target.
func New(target string, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = logging.Get("session")
	}
	return &Session{Target: target, opts: opts, log: log}
}

// Options returns the options the session runs with.
func (s *Session) Options() Options {
	return s.opts
}

// Organize runs the organizer on the selected folder and, when the policy
// asks for it, audits the result for empty folders. Found folders are left
// pending until Cleanup is called.
func (s *Session) Organize() (*Outcome, error) {
	out := &Outcome{
		RunID:   uuid.NewString(),
		Target:  s.Target,
		Cleanup: CleanupNotRun,
		Started: time.Now(),
	}
	log := s.log.With("run", out.RunID)
	defer func() { out.Duration = time.Since(out.Started) }()

	opts := s.opts.Organizer
	if opts.Logger == nil {
		opts.Logger = logging.Get("organizer").With("run", out.RunID)
	}

	log.Info("run started", "target", s.Target, "dry_run", opts.DryRun)
	res, err := organizer.Organize(s.Target, opts)
	out.Result = res
	if res != nil {
		out.Target = res.Target
	}
	if err != nil {
		return s.fail(out, log, err)
	}

	if !opts.Policy.AuditEmptyDirs {
		return s.succeed(out, log, s.finalStatus(out))
	}

	dirs, err := audit.Find(out.Target)
	if err != nil {
		return s.fail(out, log, fmt.Errorf("auditing empty folders: %w", err))
	}
	out.EmptyFolders = dirs

	switch {
	case opts.DryRun:
		out.Cleanup = CleanupDryRun
	case len(dirs) == 0:
		out.Cleanup = CleanupNoneFound
	default:
		out.Cleanup = CleanupPending
		log.Info("empty folders found", "count", len(dirs))
	}
	return s.succeed(out, log, s.finalStatus(out))
}

// Cleanup settles the empty folders of a pending outcome: removes them when
// confirmed and leaves them otherwise. Outcomes that are not pending are
// left unchanged.
func (s *Session) Cleanup(out *Outcome, confirmed bool) error {
	if out == nil || out.Cleanup != CleanupPending {
		return nil
	}
	log := s.log.With("run", out.RunID)

	if !confirmed {
		out.Cleanup = CleanupLeft
		log.Info("empty folders left in place", "count", len(out.EmptyFolders))
		s.setStatus(out, s.finalStatus(out))
		return nil
	}

	removed, err := audit.Remove(out.EmptyFolders, audit.Options{UseTrash: s.opts.UseTrash})
	out.Removed = removed
	if err != nil {
		out.Cleanup = CleanupFailed
		out.Err = fmt.Errorf("removing empty folders: %w", err)
		log.Error("cleanup failed", "removed", len(removed), "error", err)
		s.setStatus(out, FailureMessage(out.Err))
		return out.Err
	}

	out.Cleanup = CleanupCleaned
	log.Info("empty folders removed", "count", len(removed), "trash", s.opts.UseTrash)
	s.setStatus(out, s.finalStatus(out))
	return nil
}

// Run organizes the selected folder and settles any empty folders with
// confirm. A nil confirm declines.
func (s *Session) Run(confirm ConfirmFunc) (*Outcome, error) {
	out, err := s.Organize()
	if err != nil {
		return out, err
	}
	if out.Cleanup == CleanupPending {
		confirmed := confirm != nil && confirm(out.EmptyFolders)
		if err := s.Cleanup(out, confirmed); err != nil {
			return out, err
		}
	}
	return out, nil
}

func (s *Session) finalStatus(out *Outcome) string {
	if out.Result != nil && out.Result.DryRun {
		return DryRunMessage(len(out.Result.Moves))
	}
	switch out.Cleanup {
	case CleanupCleaned:
		return DeletedMessage(len(out.Removed))
	case CleanupLeft:
		return LeftMessage(len(out.EmptyFolders))
	default:
		return MsgSuccess
	}
}

func (s *Session) succeed(out *Outcome, log *logging.Logger, status string) (*Outcome, error) {
	moved := 0
	if out.Result != nil {
		moved = len(out.Result.Moves)
	}
	log.Info("run finished", "moved", moved, "cleanup", out.Cleanup)
	s.setStatus(out, status)
	return out, nil
}

func (s *Session) fail(out *Outcome, log *logging.Logger, err error) (*Outcome, error) {
	out.Err = err
	if organizer.IsPrecondition(err) {
		log.Warn("run not started", "target", s.Target, "error", err)
	} else {
		log.Error("run failed", "target", s.Target, "error", err)
	}
	s.setStatus(out, FailureMessage(err))
	return out, err
}

func (s *Session) setStatus(out *Outcome, status string) {
	out.Status = status
	s.Status = status
}
