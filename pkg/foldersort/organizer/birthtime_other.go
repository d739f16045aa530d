//go:build !darwin && !linux && !windows

package organizer

import (
	"os"
	"time"
)

// birthTime falls back to the modification time on platforms without a
// portable creation time.
func birthTime(_ string, info os.FileInfo) time.Time {
	return info.ModTime()
}
