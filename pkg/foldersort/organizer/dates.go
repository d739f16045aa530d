package organizer

import (
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// exifExtensions are the formats goexif can decode.
var exifExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"tif":  true,
	"tiff": true,
}

// dateOf returns the timestamp used for the date bucket of e.
func (o *Organizer) dateOf(e Entry) time.Time {
	switch o.opts.DateSource {
	case DateModified:
		return e.ModTime
	case DateEXIF:
		if t, ok := o.exifDate(e); ok {
			return t
		}
	}
	return o.createdAt(e)
}

// createdAt returns the birth time of e on the OS filesystem and the
// modification time elsewhere.
func (o *Organizer) createdAt(e Entry) time.Time {
	if !e.Created.IsZero() {
		return e.Created
	}
	if !o.onDisk() {
		return e.ModTime
	}
	info, err := os.Lstat(e.Path)
	if err != nil {
		return e.ModTime
	}
	return birthTime(e.Path, info)
}

// exifDate reads the capture time of a JPEG or TIFF image.
func (o *Organizer) exifDate(e Entry) (time.Time, bool) {
	if e.Kind != KindRegular || !exifExtensions[e.Ext] {
		return time.Time{}, false
	}

	f, err := o.fs.Open(e.Path)
	if err != nil {
		return time.Time{}, false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		o.log.Debug("no exif data", "path", e.Path, "error", err)
		return time.Time{}, false
	}
	t, err := x.DateTime()
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
