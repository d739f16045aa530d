package organizer

import "errors"

// Precondition failures. Nothing in the target has been touched when one of
// these is returned.
var (
	// ErrNoFolderSelected is returned when the target path is empty.
	ErrNoFolderSelected = errors.New("no folder selected")

	// ErrDirectoryNotFound is returned when the target path does not exist.
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrNotDirectory is returned when the target path is not a directory.
	ErrNotDirectory = errors.New("not a directory")
)

// ErrDestinationNotDirectory is returned when a destination folder name is
// already taken by something that is not a directory. It aborts the run.
var ErrDestinationNotDirectory = errors.New("destination exists and is not a directory")

// IsPrecondition reports whether err means the run never started.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrNoFolderSelected) ||
		errors.Is(err, ErrDirectoryNotFound) ||
		errors.Is(err, ErrNotDirectory)
}
