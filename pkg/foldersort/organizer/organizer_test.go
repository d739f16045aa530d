package organizer

import (
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const target = "/target"

func memFS(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(target, 0o755))
	for _, f := range files {
		path := filepath.Join(target, f)
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(f), 0o644))
	}
	return fs
}

func newOrganizer(t *testing.T, fs afero.Fs, policy Policy) *Organizer {
	t.Helper()
	opts := DefaultOptions()
	opts.Policy = policy
	o, err := New(fs, opts)
	require.NoError(t, err)
	return o
}

func assertFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err, "expected file at %s", path)
	assert.Equal(t, content, string(data))
}

func assertMissing(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	_, err := fs.Stat(path)
	assert.True(t, os.IsNotExist(err), "expected %s to be gone", path)
}

func TestOrganize_GroupsByExtension(t *testing.T) {
	fs := memFS(t, "a.txt", "b.TXT", "notes", "sub/keep.md")
	o := newOrganizer(t, fs, SimplePolicy())

	res, err := o.Organize(target)
	require.NoError(t, err)

	assertFile(t, fs, "/target/txt/a.txt", "a.txt")
	assertFile(t, fs, "/target/txt/b.TXT", "b.TXT")
	assertFile(t, fs, "/target/no.extension/notes", "notes")
	assertFile(t, fs, "/target/sub/keep.md", "sub/keep.md")
	assertMissing(t, fs, "/target/a.txt")
	assertMissing(t, fs, "/target/notes")

	assert.Len(t, res.Moves, 3)
	assert.Equal(t, []Skip{{Path: "/target/sub", Reason: SkipDirectory}}, res.Skipped)
	assert.ElementsMatch(t, []string{"/target/no.extension", "/target/txt"}, res.CreatedDirs)
	assert.Equal(t, 0, res.Renamed())
	assert.False(t, res.DryRun)
}

func TestOrganize_CustomNoExtensionDir(t *testing.T) {
	fs := memFS(t, "Makefile")
	opts := DefaultOptions()
	opts.Policy = SimplePolicy()
	opts.NoExtensionDir = "misc"
	o, err := New(fs, opts)
	require.NoError(t, err)

	_, err = o.Organize(target)
	require.NoError(t, err)
	assertFile(t, fs, "/target/misc/Makefile", "Makefile")
}

func TestOrganize_Collision(t *testing.T) {
	fs := memFS(t, "report.pdf", "pdf/report.pdf", "pdf/report_1.pdf")
	o := newOrganizer(t, fs, SimplePolicy())

	res, err := o.Organize(target)
	require.NoError(t, err)

	require.Len(t, res.Moves, 1)
	assert.Equal(t, "/target/pdf/report_2.pdf", res.Moves[0].Destination)
	assert.True(t, res.Moves[0].Renamed)
	assert.Equal(t, 1, res.Renamed())

	// Existing files are never overwritten.
	assertFile(t, fs, "/target/pdf/report.pdf", "pdf/report.pdf")
	assertFile(t, fs, "/target/pdf/report_1.pdf", "pdf/report_1.pdf")
	assertFile(t, fs, "/target/pdf/report_2.pdf", "report.pdf")
	assert.Empty(t, res.CreatedDirs)
}

func TestOrganize_CollisionWithDirectory(t *testing.T) {
	fs := memFS(t, "report.pdf", "pdf/report.pdf/inner.txt")
	o := newOrganizer(t, fs, SimplePolicy())

	res, err := o.Organize(target)
	require.NoError(t, err)
	require.Len(t, res.Moves, 1)
	assert.Equal(t, "/target/pdf/report_1.pdf", res.Moves[0].Destination)
}

func TestOrganize_BucketsByDate(t *testing.T) {
	fs := memFS(t, "x.jpg", "y.jpg", "z.jpg")
	day1 := time.Date(2024, 1, 2, 12, 0, 0, 0, time.Local)
	day2 := time.Date(2024, 3, 4, 12, 0, 0, 0, time.Local)
	require.NoError(t, fs.Chtimes("/target/x.jpg", day1, day1))
	require.NoError(t, fs.Chtimes("/target/y.jpg", day2, day2))
	require.NoError(t, fs.Chtimes("/target/z.jpg", day2, day2))

	o := newOrganizer(t, fs, DatedPolicy())
	res, err := o.Organize(target)
	require.NoError(t, err)

	assertFile(t, fs, "/target/jpg/2024-01-02/x.jpg", "x.jpg")
	assertFile(t, fs, "/target/jpg/2024-03-04/y.jpg", "y.jpg")
	assertFile(t, fs, "/target/jpg/2024-03-04/z.jpg", "z.jpg")
	assert.Equal(t, []string{
		"/target/jpg",
		"/target/jpg/2024-01-02",
		"/target/jpg/2024-03-04",
	}, res.CreatedDirs)
	assert.Equal(t, Key{Ext: "jpg", Date: "2024-01-02"}, res.Moves[0].Key)
}

func TestOrganize_Idempotent(t *testing.T) {
	fs := memFS(t, "a.txt", "b.pdf", "c")
	o := newOrganizer(t, fs, DatedPolicy())

	first, err := o.Organize(target)
	require.NoError(t, err)
	require.Len(t, first.Moves, 3)

	second, err := o.Organize(target)
	require.NoError(t, err)
	assert.Empty(t, second.Moves)
	assert.Empty(t, second.CreatedDirs)
	assert.Len(t, second.Skipped, 3)
}

func TestOrganize_ExcludedSuffixes(t *testing.T) {
	fs := memFS(t, "Browser.LNK", "app.lnk", "doc.txt")
	o := newOrganizer(t, fs, EnhancedPolicy())

	res, err := o.Organize(target)
	require.NoError(t, err)

	assertFile(t, fs, "/target/Browser.LNK", "Browser.LNK")
	assertFile(t, fs, "/target/app.lnk", "app.lnk")
	require.Len(t, res.Moves, 1)
	assert.Equal(t, "doc.txt", filepath.Base(res.Moves[0].Destination))
	for _, s := range res.Skipped {
		assert.Equal(t, SkipExcludedSuffix, s.Reason)
	}
}

func TestOrganize_SimplePolicyMovesLnk(t *testing.T) {
	fs := memFS(t, "app.lnk")
	o := newOrganizer(t, fs, SimplePolicy())

	_, err := o.Organize(target)
	require.NoError(t, err)
	assertFile(t, fs, "/target/lnk/app.lnk", "app.lnk")
}

func TestOrganize_ExcludePatterns(t *testing.T) {
	fs := memFS(t, "movie.mkv.part", "movie.mkv", ".DS_Store")
	opts := DefaultOptions()
	opts.Policy = SimplePolicy()
	opts.Exclude = []string{"*.part", ".DS_Store"}
	o, err := New(fs, opts)
	require.NoError(t, err)

	res, err := o.Organize(target)
	require.NoError(t, err)

	assertFile(t, fs, "/target/movie.mkv.part", "movie.mkv.part")
	assertFile(t, fs, "/target/.DS_Store", ".DS_Store")
	assertFile(t, fs, "/target/mkv/movie.mkv", "movie.mkv")
	assert.Len(t, res.Skipped, 2)
}

func TestOrganize_DryRun(t *testing.T) {
	fs := memFS(t, "report.pdf", "pdf/report.pdf", "notes")
	opts := DefaultOptions()
	opts.Policy = SimplePolicy()
	opts.DryRun = true
	o, err := New(fs, opts)
	require.NoError(t, err)

	res, err := o.Organize(target)
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	require.Len(t, res.Moves, 2)
	assert.Equal(t, "/target/no.extension/notes", res.Moves[0].Destination)
	assert.Equal(t, "/target/pdf/report_1.pdf", res.Moves[1].Destination)
	assert.Equal(t, []string{"/target/no.extension"}, res.CreatedDirs)

	// Nothing was touched.
	assertFile(t, fs, "/target/report.pdf", "report.pdf")
	assertFile(t, fs, "/target/notes", "notes")
	assertMissing(t, fs, "/target/no.extension")
	assertMissing(t, fs, "/target/pdf/report_1.pdf")
}

func TestOrganize_Progress(t *testing.T) {
	fs := memFS(t, "a.txt", "b.txt", "dir/x")
	var calls [][2]int
	opts := DefaultOptions()
	opts.Policy = SimplePolicy()
	opts.OnMove = func(done, total int, _ Move) {
		calls = append(calls, [2]int{done, total})
	}
	o, err := New(fs, opts)
	require.NoError(t, err)

	_, err = o.Organize(target)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, calls)
}

func TestOrganize_Preconditions(t *testing.T) {
	fs := memFS(t, "file.txt")
	o := newOrganizer(t, fs, SimplePolicy())

	tests := []struct {
		name   string
		target string
		want   error
	}{
		{"empty", "", ErrNoFolderSelected},
		{"blank", "   ", ErrNoFolderSelected},
		{"missing", "/nope", ErrDirectoryNotFound},
		{"file", "/target/file.txt", ErrNotDirectory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := o.Organize(tt.target)
			assert.Nil(t, res)
			require.ErrorIs(t, err, tt.want)
			assert.True(t, IsPrecondition(err))
		})
	}

	assertFile(t, fs, "/target/file.txt", "file.txt")
}

func TestOrganize_DestinationNotDirectoryAborts(t *testing.T) {
	// "txt" is excluded, so it stays put and b.txt cannot get its folder.
	fs := memFS(t, "a.pdf", "b.txt", "txt")
	opts := DefaultOptions()
	opts.Policy = SimplePolicy()
	opts.Exclude = []string{"txt"}
	o, err := New(fs, opts)
	require.NoError(t, err)

	res, err := o.Organize(target)
	require.ErrorIs(t, err, ErrDestinationNotDirectory)
	assert.False(t, IsPrecondition(err))

	// Moves before the failure stay done.
	require.NotNil(t, res)
	require.Len(t, res.Moves, 1)
	assertFile(t, fs, "/target/pdf/a.pdf", "a.pdf")
	assertFile(t, fs, "/target/b.txt", "b.txt")
	assertFile(t, fs, "/target/txt", "txt")
}

func TestOrganize_FileNamedLikeItsOwnFolder(t *testing.T) {
	fs := memFS(t, "misc")
	opts := DefaultOptions()
	opts.Policy = SimplePolicy()
	opts.NoExtensionDir = "misc"
	o, err := New(fs, opts)
	require.NoError(t, err)

	res, err := o.Organize(target)
	require.NoError(t, err)

	require.Len(t, res.Moves, 1)
	assert.Equal(t, "/target/misc", res.Moves[0].Source)
	assert.Equal(t, "/target/misc/misc", res.Moves[0].Destination)
	assert.False(t, res.Moves[0].Renamed)
	assertFile(t, fs, "/target/misc/misc", "misc")
	assertMissing(t, fs, "/target/misc_1")
}

func TestOrganize_DefaultNoExtensionDirIsNotAnExtension(t *testing.T) {
	fs := memFS(t, "no.extension", "x.no_extension", "plain")
	o := newOrganizer(t, fs, SimplePolicy())

	_, err := o.Organize(target)
	require.NoError(t, err)

	assertFile(t, fs, "/target/no.extension/plain", "plain")
	assertFile(t, fs, "/target/extension/no.extension", "no.extension")
	assertFile(t, fs, "/target/no_extension/x.no_extension", "x.no_extension")
}

func TestOrganize_FileBlockingAnotherFolderIsSetAside(t *testing.T) {
	fs := memFS(t, "a.txt", "txt")
	o := newOrganizer(t, fs, SimplePolicy())

	res, err := o.Organize(target)
	require.NoError(t, err)

	require.Len(t, res.Moves, 2)
	assert.Equal(t, Move{Source: "/target/a.txt", Destination: "/target/txt/a.txt", Key: Key{Ext: "txt"}, Size: 5}, res.Moves[0])
	assert.Equal(t, "/target/txt", res.Moves[1].Source)
	assert.Equal(t, "/target/no.extension/txt", res.Moves[1].Destination)
	assert.ElementsMatch(t, []string{"/target/txt", "/target/no.extension"}, res.CreatedDirs)
	assert.Equal(t, int64(8), res.TotalBytes())

	assertFile(t, fs, "/target/txt/a.txt", "a.txt")
	assertFile(t, fs, "/target/no.extension/txt", "txt")
	assertMissing(t, fs, "/target/txt_1")
}

func TestOrganize_FileBlockingDatedFolderIsSetAside(t *testing.T) {
	fs := memFS(t, "a.txt", "txt")
	stamp := time.Date(2022, 2, 3, 12, 0, 0, 0, time.Local)
	require.NoError(t, fs.Chtimes("/target/a.txt", stamp, stamp))
	require.NoError(t, fs.Chtimes("/target/txt", stamp, stamp))

	opts := DefaultOptions()
	opts.Policy = DatedPolicy()
	opts.DateSource = DateModified
	o, err := New(fs, opts)
	require.NoError(t, err)

	_, err = o.Organize(target)
	require.NoError(t, err)
	assertFile(t, fs, "/target/txt/2022-02-03/a.txt", "a.txt")
	assertFile(t, fs, "/target/no.extension/2022-02-03/txt", "txt")
}

func TestOrganize_DryRunMatchesSetAside(t *testing.T) {
	plan := func(dryRun bool) ([]Move, []string) {
		fs := memFS(t, "a.txt", "txt")
		opts := DefaultOptions()
		opts.Policy = SimplePolicy()
		opts.DryRun = dryRun
		o, err := New(fs, opts)
		require.NoError(t, err)
		res, err := o.Organize(target)
		require.NoError(t, err)
		if dryRun {
			assertFile(t, fs, "/target/txt", "txt")
			assertFile(t, fs, "/target/a.txt", "a.txt")
		}
		return res.Moves, res.CreatedDirs
	}

	dryMoves, dryDirs := plan(true)
	moves, dirs := plan(false)
	assert.Equal(t, moves, dryMoves)
	assert.Equal(t, dirs, dryDirs)
}

func TestOrganize_MoveFailureAborts(t *testing.T) {
	fs := memFS(t, "a.txt", "b.txt")
	o := newOrganizer(t, fs, SimplePolicy())
	calls := 0
	o.rename = func(oldpath, newpath string) error {
		calls++
		if calls == 2 {
			return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EACCES}
		}
		return fs.Rename(oldpath, newpath)
	}

	res, err := o.Organize(target)
	require.Error(t, err)
	assert.ErrorIs(t, err, syscall.EACCES)
	require.Len(t, res.Moves, 1)
	assertFile(t, fs, "/target/txt/a.txt", "a.txt")
	assertFile(t, fs, "/target/b.txt", "b.txt")
}

func TestOrganize_CrossDeviceFallback(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.png")
	require.NoError(t, os.WriteFile(src, []byte("pixels"), 0o644))

	o := newOrganizer(t, afero.NewOsFs(), SimplePolicy())
	o.rename = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}

	res, err := o.Organize(dir)
	require.NoError(t, err)
	require.Len(t, res.Moves, 1)

	data, err := os.ReadFile(filepath.Join(dir, "png", "photo.png"))
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))
	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
}

func TestOrganize_CrossDeviceOnlyOnDisk(t *testing.T) {
	fs := memFS(t, "a.txt")
	o := newOrganizer(t, fs, SimplePolicy())
	o.rename = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}

	_, err := o.Organize(target)
	require.ErrorIs(t, err, syscall.EXDEV)
	assertFile(t, fs, "/target/a.txt", "a.txt")
}

func TestOrganize_Symlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	setup := func(t *testing.T) string {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "real.txt"), []byte("real"), 0o644))
		require.NoError(t, os.Mkdir(filepath.Join(dir, "folder"), 0o755))
		require.NoError(t, os.Symlink(filepath.Join(dir, "real.txt"), filepath.Join(dir, "link.txt")))
		require.NoError(t, os.Symlink(filepath.Join(dir, "folder"), filepath.Join(dir, "dirlink")))
		return dir
	}

	t.Run("excluded", func(t *testing.T) {
		dir := setup(t)
		res, err := Organize(dir, Options{Policy: EnhancedPolicy()})
		require.NoError(t, err)

		for _, name := range []string{"link.txt", "dirlink"} {
			info, err := os.Lstat(filepath.Join(dir, name))
			require.NoError(t, err)
			assert.NotZero(t, info.Mode()&os.ModeSymlink)
		}
		assert.Contains(t, res.Skipped, Skip{Path: filepath.Join(dir, "link.txt"), Reason: SkipSymlink})
		require.Len(t, res.Moves, 1)
		assert.Equal(t, filepath.Join(dir, "real.txt"), res.Moves[0].Source)
	})

	t.Run("moved as links", func(t *testing.T) {
		dir := setup(t)
		res, err := Organize(dir, Options{Policy: SimplePolicy()})
		require.NoError(t, err)

		assert.Contains(t, res.Skipped, Skip{Path: filepath.Join(dir, "dirlink"), Reason: SkipDirectory})
		info, err := os.Lstat(filepath.Join(dir, "txt", "link.txt"))
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&os.ModeSymlink)
		assert.FileExists(t, filepath.Join(dir, "txt", "real.txt"))
	})
}

func TestOrganize_ModifiedDateSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "old.log")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	stamp := time.Date(2019, 7, 8, 12, 0, 0, 0, time.Local)
	require.NoError(t, os.Chtimes(path, stamp, stamp))

	res, err := Organize(dir, Options{Policy: DatedPolicy(), DateSource: DateModified})
	require.NoError(t, err)
	require.Len(t, res.Moves, 1)
	assert.Equal(t, filepath.Join(dir, "log", "2019-07-08", "old.log"), res.Moves[0].Destination)
}

func TestOrganize_EXIFFallsBackWithoutMetadata(t *testing.T) {
	fs := memFS(t, "photo.jpg")
	stamp := time.Date(2021, 5, 6, 12, 0, 0, 0, time.Local)
	require.NoError(t, fs.Chtimes("/target/photo.jpg", stamp, stamp))

	opts := DefaultOptions()
	opts.Policy = DatedPolicy()
	opts.DateSource = DateEXIF
	o, err := New(fs, opts)
	require.NoError(t, err)

	_, err = o.Organize(target)
	require.NoError(t, err)
	assertFile(t, fs, "/target/jpg/2021-05-06/photo.jpg", "photo.jpg")
}

func TestOrganize_EXIFCaptureDate(t *testing.T) {
	photo, err := os.ReadFile(filepath.Join("testdata", "exif.jpg"))
	require.NoError(t, err)

	fs := memFS(t)
	require.NoError(t, afero.WriteFile(fs, "/target/photo.jpg", photo, 0o644))
	stamp := time.Date(2021, 5, 6, 12, 0, 0, 0, time.Local)
	require.NoError(t, fs.Chtimes("/target/photo.jpg", stamp, stamp))

	opts := DefaultOptions()
	opts.Policy = DatedPolicy()
	opts.DateSource = DateEXIF
	o, err := New(fs, opts)
	require.NoError(t, err)

	got, ok := o.exifDate(Entry{Path: "/target/photo.jpg", Name: "photo.jpg", Ext: "jpg", Kind: KindRegular})
	require.True(t, ok)
	assert.Equal(t, time.Date(2018, 3, 4, 10, 20, 30, 0, time.Local), got)

	res, err := o.Organize(target)
	require.NoError(t, err)
	require.Len(t, res.Moves, 1)
	assert.Equal(t, "/target/jpg/2018-03-04/photo.jpg", res.Moves[0].Destination)
	assert.Equal(t, Key{Ext: "jpg", Date: "2018-03-04"}, res.Moves[0].Key)

	data, err := afero.ReadFile(fs, "/target/jpg/2018-03-04/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, photo, data)
}

func TestBirthTimeNotZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	info, err := os.Lstat(path)
	require.NoError(t, err)

	got := birthTime(path, info)
	assert.False(t, got.IsZero())
	assert.WithinDuration(t, time.Now(), got, time.Hour)
}
