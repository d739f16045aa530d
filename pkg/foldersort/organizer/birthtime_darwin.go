//go:build darwin

package organizer

import (
	"os"
	"syscall"
	"time"
)

// birthTime returns the creation time of a file from Birthtimespec.
func birthTime(_ string, info os.FileInfo) time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(stat.Birthtimespec.Unix())
}
