// Package trash removes empty folders, sending them to the desktop trash
// where one is available and deleting them outright otherwise.
package trash

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// commandTimeout is the maximum time to wait for a trash command.
const commandTimeout = 30 * time.Second

// ErrNotEmpty is returned when the folder to remove has entries.
var ErrNotEmpty = errors.New("directory not empty")

// linuxTools are tried in order on Linux. The path is appended.
var linuxTools = [][]string{
	{"gio", "trash"},
	{"trash-put"},
}

// RemoveEmptyDir moves an empty folder to the system trash. On macOS it asks
// Finder, on Linux it tries gio and trash-cli. Anywhere else, or when no tool
// succeeds, the folder is removed with a plain rmdir, which fails if the
// folder has gained entries in the meantime.
func RemoveEmptyDir(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cannot resolve absolute path for %q: %w", path, err)
	}

	empty, err := isEmptyDir(absPath)
	if err != nil {
		return fmt.Errorf("cannot trash %q: %w", path, err)
	}
	if !empty {
		return fmt.Errorf("cannot trash %q: %w", path, ErrNotEmpty)
	}

	switch runtime.GOOS {
	case "darwin":
		return trashMacOS(absPath)
	case "linux":
		return trashLinux(absPath)
	default:
		return remove(absPath)
	}
}

// Remove deletes an empty folder without going through the trash.
func Remove(path string) error {
	return remove(path)
}

func isEmptyDir(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return false, fmt.Errorf("%s is not a directory", path)
	}

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}

func trashMacOS(path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	script := fmt.Sprintf(`tell application "Finder" to delete POSIX file %q`, path)
	if err := exec.CommandContext(ctx, "osascript", "-e", script).Run(); err != nil {
		return remove(path)
	}
	return nil
}

func trashLinux(path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	for _, tool := range linuxTools {
		bin, err := exec.LookPath(tool[0])
		if err != nil {
			continue
		}
		args := append(append([]string{}, tool[1:]...), path)
		if err := exec.CommandContext(ctx, bin, args...).Run(); err == nil {
			return nil
		}
	}
	return remove(path)
}

// remove deletes an empty folder. It never deletes contents.
func remove(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %q: %w", path, err)
	}
	return nil
}
