package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesainslie/foldersort/pkg/foldersort/organizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture creates a folder with two loose files and one empty subfolder.
func fixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.pdf"), []byte("b"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "old"), 0o755))
	return dir
}

func enhanced() Options {
	return Options{Organizer: organizer.Options{Policy: organizer.EnhancedPolicy()}}
}

func TestRun_NoFolder(t *testing.T) {
	s := New("", enhanced())

	out, err := s.Run(nil)
	require.ErrorIs(t, err, organizer.ErrNoFolderSelected)
	assert.Equal(t, MsgNoFolder, s.Status)
	assert.Equal(t, MsgNoFolder, out.Status)
	assert.Nil(t, out.Result)
	assert.Equal(t, CleanupNotRun, out.Cleanup)
}

func TestRun_MissingFolder(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "gone"), enhanced())

	_, err := s.Run(nil)
	require.ErrorIs(t, err, organizer.ErrDirectoryNotFound)
	assert.Contains(t, s.Status, "Organizing failed: directory not found")
}

func TestRun_Confirmed(t *testing.T) {
	dir := fixture(t)
	s := New(dir, enhanced())

	var asked []string
	out, err := s.Run(func(dirs []string) bool {
		asked = dirs
		return true
	})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "old")}, asked)
	assert.Equal(t, CleanupCleaned, out.Cleanup)
	assert.Equal(t, DeletedMessage(1), s.Status)
	assert.Equal(t, "Files organized successfully! Deleted 1 empty folder(s).", s.Status)
	assert.NoDirExists(t, filepath.Join(dir, "old"))
	assert.Len(t, out.Result.Moves, 2)
	assert.NotEmpty(t, out.RunID)
}

func TestRun_Declined(t *testing.T) {
	dir := fixture(t)
	s := New(dir, enhanced())

	out, err := s.Run(func([]string) bool { return false })
	require.NoError(t, err)

	assert.Equal(t, CleanupLeft, out.Cleanup)
	assert.Equal(t, "Files organized successfully. Left 1 empty folder(s) in place.", s.Status)
	assert.DirExists(t, filepath.Join(dir, "old"))
	assert.Empty(t, out.Removed)
}

func TestRun_NilConfirmDeclines(t *testing.T) {
	dir := fixture(t)
	s := New(dir, enhanced())

	out, err := s.Run(nil)
	require.NoError(t, err)
	assert.Equal(t, CleanupLeft, out.Cleanup)
}

func TestRun_NoneFound(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	s := New(dir, enhanced())

	called := false
	out, err := s.Run(func([]string) bool {
		called = true
		return true
	})
	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, CleanupNoneFound, out.Cleanup)
	assert.Equal(t, MsgSuccess, s.Status)
}

func TestRun_AuditOff(t *testing.T) {
	dir := fixture(t)
	s := New(dir, Options{Organizer: organizer.Options{Policy: organizer.SimplePolicy()}})

	out, err := s.Run(func([]string) bool { return true })
	require.NoError(t, err)
	assert.Equal(t, CleanupNotRun, out.Cleanup)
	assert.Equal(t, MsgSuccess, s.Status)
	assert.DirExists(t, filepath.Join(dir, "old"))
	assert.FileExists(t, filepath.Join(dir, "txt", "a.txt"))
}

func TestRun_DryRun(t *testing.T) {
	dir := fixture(t)
	opts := enhanced()
	opts.Organizer.DryRun = true
	s := New(dir, opts)

	out, err := s.Run(func([]string) bool { return true })
	require.NoError(t, err)
	assert.Equal(t, CleanupDryRun, out.Cleanup)
	assert.Equal(t, []string{filepath.Join(dir, "old")}, out.EmptyFolders)
	assert.Equal(t, DryRunMessage(2), s.Status)
	assert.DirExists(t, filepath.Join(dir, "old"))
	assert.FileExists(t, filepath.Join(dir, "a.txt"))
}

func TestOrganizeThenCleanup(t *testing.T) {
	dir := fixture(t)
	s := New(dir, enhanced())

	out, err := s.Organize()
	require.NoError(t, err)
	require.Equal(t, CleanupPending, out.Cleanup)
	assert.Equal(t, MsgSuccess, s.Status)

	require.NoError(t, s.Cleanup(out, true))
	assert.Equal(t, CleanupCleaned, out.Cleanup)
	assert.Equal(t, []string{filepath.Join(dir, "old")}, out.Removed)

	// Settled outcomes are not touched again.
	require.NoError(t, s.Cleanup(out, false))
	assert.Equal(t, CleanupCleaned, out.Cleanup)
}

func TestCleanup_Failure(t *testing.T) {
	dir := fixture(t)
	s := New(dir, enhanced())

	out, err := s.Organize()
	require.NoError(t, err)
	require.Equal(t, CleanupPending, out.Cleanup)

	// The folder fills up before the user answers.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old", "late.txt"), nil, 0o644))

	err = s.Cleanup(out, true)
	require.Error(t, err)
	assert.Equal(t, CleanupFailed, out.Cleanup)
	assert.Contains(t, s.Status, "Organizing failed:")
	assert.FileExists(t, filepath.Join(dir, "old", "late.txt"))
}

func TestSecondRunIsNoop(t *testing.T) {
	dir := fixture(t)
	s := New(dir, enhanced())

	_, err := s.Run(func([]string) bool { return true })
	require.NoError(t, err)

	out, err := s.Run(func([]string) bool { return true })
	require.NoError(t, err)
	assert.Empty(t, out.Result.Moves)
	assert.Equal(t, CleanupNoneFound, out.Cleanup)
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, MsgNoFolder, FailureMessage(organizer.ErrNoFolderSelected))
	assert.Equal(t, "Organizing failed: boom", FailureMessage(errors.New("boom")))
	assert.Equal(t, "Found 3 empty folder(s). Delete them?", ConfirmPrompt(3))
}
