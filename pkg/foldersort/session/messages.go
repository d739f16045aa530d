package session

import (
	"errors"
	"fmt"

	"github.com/jamesainslie/foldersort/pkg/foldersort/organizer"
)

// Status messages shown to the user.
const (
	MsgNoFolder = "Please select a folder first!"
	MsgSuccess  = "Files organized successfully!"
)

// DeletedMessage reports a run whose empty folders were removed.
func DeletedMessage(n int) string {
	return fmt.Sprintf("Files organized successfully! Deleted %d empty folder(s).", n)
}

// LeftMessage reports a run whose empty folders were kept.
func LeftMessage(n int) string {
	return fmt.Sprintf("Files organized successfully. Left %d empty folder(s) in place.", n)
}

// DryRunMessage reports a planned run.
func DryRunMessage(moves int) string {
	return fmt.Sprintf("Dry run complete: %d file(s) would be moved.", moves)
}

// FailureMessage maps err to a status message.
func FailureMessage(err error) string {
	if errors.Is(err, organizer.ErrNoFolderSelected) {
		return MsgNoFolder
	}
	return "Organizing failed: " + err.Error()
}

// ConfirmPrompt is the question asked before empty folders are removed.
func ConfirmPrompt(n int) string {
	return fmt.Sprintf("Found %d empty folder(s). Delete them?", n)
}
