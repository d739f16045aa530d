package organizer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// CollisionName returns name with "_n" inserted before its extension:
// "report.pdf" with n=2 becomes "report_2.pdf". n=0 returns name unchanged.
func CollisionName(name string, n int) string {
	if n == 0 {
		return name
	}
	base, ext := splitName(name)
	return fmt.Sprintf("%s_%d%s", base, n, ext)
}

// resolve returns the first free path for name in dir, trying name itself
// and then name_1, name_2 and so on. Anything already at a path, including a
// dangling symlink, makes it unavailable.
func (o *Organizer) resolve(dir, name string, p *plan) (string, bool, error) {
	for n := 0; ; n++ {
		candidate := filepath.Join(dir, CollisionName(name, n))
		taken, err := o.exists(candidate, p)
		if err != nil {
			return "", false, err
		}
		if !taken {
			return candidate, n > 0, nil
		}
	}
}

func (o *Organizer) exists(path string, p *plan) (bool, error) {
	if p.claimed(path) {
		return true, nil
	}
	if p.shadowed(filepath.Dir(path)) {
		// The folder only exists in the plan; a file still sits there.
		return false, nil
	}

	var err error
	if l, ok := o.fs.(afero.Lstater); ok {
		_, _, err = l.LstatIfPossible(path)
	} else {
		_, err = o.fs.Stat(path)
	}
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
}
