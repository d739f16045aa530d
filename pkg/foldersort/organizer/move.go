package organizer

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/otiai10/copy"
	"github.com/spf13/afero"
)

// move renames src to dst. When the rename crosses filesystems on the OS
// filesystem it copies dst from src and removes src instead.
func (o *Organizer) move(src, dst string) error {
	err := o.rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) || !o.onDisk() {
		return err
	}

	o.log.Debug("rename crossed devices, copying", "src", src, "dst", dst)
	opts := copy.Options{
		PreserveTimes: true,
		OnSymlink: func(string) copy.SymlinkAction {
			return copy.Shallow
		},
	}
	if err := copy.Copy(src, dst, opts); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("copying across devices: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("removing source after copy: %w", err)
	}
	return nil
}

func (o *Organizer) onDisk() bool {
	_, ok := o.fs.(*afero.OsFs)
	return ok
}
