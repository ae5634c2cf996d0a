package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/staticreview/internal/collection"
)

func TestFormattedStatus(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusAdded, "added"},
		{StatusCopied, "copied"},
		{StatusModified, "modified"},
		{StatusRenamed, "renamed"},
		{StatusDeleted, "deleted"},
		{StatusUnstaged, "modified changes but not yet staged"},
	}
	for _, tt := range tests {
		f := New(tt.status, "/repo/a.go", "/repo", "")
		got, err := f.FormattedStatus()
		require.NoError(t, err, "status %q", tt.status)
		assert.Equal(t, tt.want, got)
		assert.True(t, tt.status.Known())
	}
}

func TestFormattedStatusUnknown(t *testing.T) {
	for _, code := range []Status{"", "X", "U", "?", "MM"} {
		f := New(code, "/repo/a.go", "/repo", "")

		_, err := f.FormattedStatus()

		assert.ErrorIs(t, err, ErrUnknownStatus, "status %q", code)
		assert.False(t, code.Known())
	}
}

func TestUnknownStatusStillUsable(t *testing.T) {
	f := New("X", "/repo/src/a.go", "/repo", "")

	assert.Equal(t, "src/a.go", f.Name())
	assert.Equal(t, "/repo/src/a.go", f.FullPath())
	assert.Equal(t, Status("X"), f.Status())
}

func TestRelativePath(t *testing.T) {
	f := New(StatusModified, "/repo/src/File/File.php", "/repo", "")
	assert.Equal(t, "src/File/File.php", f.RelativePath())
	assert.Equal(t, f.RelativePath(), f.Name())
}

func TestRelativePathStripsTrailingSeparators(t *testing.T) {
	f := New(StatusModified, "/repo/src/main.go", "/repo///", "")

	assert.Equal(t, "/repo", f.ProjectRoot())
	assert.Equal(t, "src/main.go", f.RelativePath())
}

func TestRelativePathOutsideRoot(t *testing.T) {
	f := New(StatusModified, "/elsewhere/main.go", "/repo", "")

	assert.Equal(t, "/elsewhere/main.go", f.RelativePath())
	assert.ErrorIs(t, f.Validate(), ErrInvalidPath)
}

func TestValidateRejectsSiblingPrefix(t *testing.T) {
	f := New(StatusModified, "/repository/main.go", "/repo", "")
	assert.ErrorIs(t, f.Validate(), ErrInvalidPath)
}

func TestValidateRejectsPathsLeavingRoot(t *testing.T) {
	for _, path := range []string{
		"/repo/../escaped.txt",
		"/repo/src/../../escaped.txt",
		"/repo/..",
		"/repo/.",
	} {
		f := New(StatusModified, path, "/repo", "")
		assert.ErrorIs(t, f.Validate(), ErrInvalidPath, path)
	}

	_, err := NewCollection(New(StatusModified, "/repo/../escaped.txt", "/repo", ""))
	assert.ErrorIs(t, err, ErrInvalidPath)

	assert.NoError(t, New(StatusModified, "/repo/src/../main.go", "/repo", "").Validate())
}

func TestFileNameAndExtension(t *testing.T) {
	tests := []struct {
		path string
		name string
		ext  string
	}{
		{"/repo/src/File.php", "File.php", "php"},
		{"/repo/archive.tar.gz", "archive.tar.gz", "gz"},
		{"/repo/Makefile", "Makefile", ""},
		{"/repo/.gitignore", ".gitignore", "gitignore"},
	}
	for _, tt := range tests {
		f := New(StatusAdded, tt.path, "/repo", "")
		assert.Equal(t, tt.name, f.FileName(), tt.path)
		assert.Equal(t, tt.ext, f.Extension(), tt.path)
	}
}

func TestFullPathWithoutCache(t *testing.T) {
	f := New(StatusModified, "/repo/main.go", "/repo", "")

	assert.Empty(t, f.CachedPath())
	assert.Equal(t, "/repo/main.go", f.FullPath())
}

func TestFullPathWithMissingCache(t *testing.T) {
	dir := t.TempDir()
	f := New(StatusModified, "/repo/main.go", "/repo", "").
		WithCachedPath(filepath.Join(dir, "missing.go"))

	assert.Equal(t, filepath.Join(dir, "missing.go"), f.CachedPath())
	assert.Equal(t, "/repo/main.go", f.FullPath())
}

func TestFullPathWithExistingCache(t *testing.T) {
	dir := t.TempDir()
	cached := filepath.Join(dir, "main.go")
	f := New(StatusModified, "/repo/main.go", "/repo", "").WithCachedPath(cached)

	// not there yet
	assert.Equal(t, "/repo/main.go", f.FullPath())

	require.NoError(t, os.WriteFile(cached, []byte("package main\n"), 0o644))
	assert.Equal(t, cached, f.FullPath())

	require.NoError(t, os.Remove(cached))
	assert.Equal(t, "/repo/main.go", f.FullPath())
}

func TestWithCachedPath(t *testing.T) {
	f := New(StatusModified, "/repo/main.go", "/repo", "")

	a := f.WithCachedPath("/tmp/a").WithCachedPath("/tmp/a")
	b := f.WithCachedPath("/tmp/a")
	assert.Equal(t, b, a)

	c := a.WithCachedPath("/tmp/c")
	assert.Equal(t, "/tmp/c", c.CachedPath())
	assert.Equal(t, "/tmp/a", a.CachedPath())
	assert.Empty(t, f.CachedPath())
}

func TestFilePathBeforeRename(t *testing.T) {
	renamed := New(StatusRenamed, "/repo/new.go", "/repo", "/repo/old.go")
	prior, ok := renamed.FilePathBeforeRename()
	assert.True(t, ok)
	assert.Equal(t, "/repo/old.go", prior)

	modified := New(StatusModified, "/repo/new.go", "/repo", "")
	_, ok = modified.FilePathBeforeRename()
	assert.False(t, ok)
}

func TestMimeType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world\n"), 0o644))

	f := New(StatusAdded, path, dir, "")
	mime, err := f.MimeType()

	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", mime)
}

func TestMimeTypeAlwaysCarriesCharset(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "logo.png")
	data := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o644))
	require.NoError(t, os.WriteFile(data, []byte(`{"a": 1}`), 0o644))

	mime, err := New(StatusAdded, png, dir, "").MimeType()
	require.NoError(t, err)
	assert.Equal(t, "image/png; charset=binary", mime)

	mime, err = New(StatusAdded, data, dir, "").MimeType()
	require.NoError(t, err)
	assert.Equal(t, "application/json; charset=utf-8", mime)
}

func TestMimeTypeReadsCachedContent(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "image")
	cached := filepath.Join(dir, "cached")
	require.NoError(t, os.WriteFile(source, []byte("plain text\n"), 0o644))
	require.NoError(t, os.WriteFile(cached, []byte("%PDF-1.4\n"), 0o644))

	f := New(StatusModified, source, dir, "").WithCachedPath(cached)
	mime, err := f.MimeType()

	require.NoError(t, err)
	assert.Equal(t, "application/pdf; charset=binary", mime)
}

func TestIsText(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "config.json")
	binary := filepath.Join(dir, "blob.bin")
	require.NoError(t, os.WriteFile(text, []byte(`{"a": 1}`), 0o644))
	require.NoError(t, os.WriteFile(binary, []byte{0x00, 0x01, 0x02, 0xff, 0x00}, 0o644))

	ok, err := New(StatusAdded, text, dir, "").IsText()
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = New(StatusAdded, binary, dir, "").IsText()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMimeTypeMissingFile(t *testing.T) {
	f := New(StatusAdded, "/definitely/not/here.txt", "/definitely", "")

	_, err := f.MimeType()
	assert.Error(t, err)
}

func TestLanguageAndVendored(t *testing.T) {
	goFile := New(StatusAdded, "/repo/cmd/main.go", "/repo", "")
	assert.Equal(t, "Go", goFile.Language())
	assert.False(t, goFile.IsVendored())

	vendored := New(StatusAdded, "/repo/vendor/github.com/x/y.go", "/repo", "")
	assert.True(t, vendored.IsVendored())
}

func TestIsDeleted(t *testing.T) {
	assert.True(t, New(StatusDeleted, "/repo/a", "/repo", "").IsDeleted())
	assert.False(t, New(StatusAdded, "/repo/a", "/repo", "").IsDeleted())
}

func TestNewCollection(t *testing.T) {
	a := New(StatusAdded, "/repo/a.go", "/repo", "")
	b := New(StatusModified, "/repo/b.go", "/repo", "")

	files, err := NewCollection(a, b)
	require.NoError(t, err)

	assert.Equal(t, "FileCollection(2)", files.String())
	assert.Equal(t, []*File{a, b}, files.Slice())
}

func TestNewCollectionRejectsInvalidFiles(t *testing.T) {
	a := New(StatusAdded, "/repo/a.go", "/repo", "")
	outside := New(StatusAdded, "/tmp/b.go", "/repo", "")

	_, err := NewCollection(a, outside)
	assert.ErrorIs(t, err, collection.ErrInvalidElement)
	assert.ErrorIs(t, err, ErrInvalidPath)

	files, err := NewCollection(a)
	require.NoError(t, err)
	assert.ErrorIs(t, files.Append(nil), collection.ErrInvalidElement)
	assert.Equal(t, 1, files.Count())
}

func TestFilter(t *testing.T) {
	files, err := NewCollection(
		New(StatusAdded, "/repo/a.go", "/repo", ""),
		New(StatusDeleted, "/repo/b.go", "/repo", ""),
		New(StatusModified, "/repo/c.go", "/repo", ""),
	)
	require.NoError(t, err)

	kept, err := Filter(files, func(f *File) bool { return !f.IsDeleted() })
	require.NoError(t, err)

	assert.Equal(t, 2, kept.Count())
	assert.Equal(t, 3, files.Count())
}
