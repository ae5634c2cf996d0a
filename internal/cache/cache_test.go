package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/staticreview/internal/file"
)

func TestPutLookupApply(t *testing.T) {
	root := t.TempDir()
	store, err := New(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)

	src := filepath.Join(root, "src", "main.go")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("worktree"), 0o644))

	staged := file.New(file.StatusModified, src, root, "")
	other := file.New(file.StatusAdded, filepath.Join(root, "other.go"), root, "")

	path, err := store.Put(staged, strings.NewReader("staged"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.Dir(), "src", "main.go"), path)

	got, ok := store.Lookup(staged)
	assert.True(t, ok)
	assert.Equal(t, path, got)
	_, ok = store.Lookup(other)
	assert.False(t, ok)

	files, err := file.NewCollection(staged, other)
	require.NoError(t, err)
	applied, err := store.Apply(files)
	require.NoError(t, err)
	require.Equal(t, 2, applied.Count())

	first, err := applied.At(0)
	require.NoError(t, err)
	assert.Equal(t, path, first.FullPath())
	content, err := os.ReadFile(first.FullPath())
	require.NoError(t, err)
	assert.Equal(t, "staged", string(content))

	// the original collection is untouched
	orig, err := files.At(0)
	require.NoError(t, err)
	assert.Equal(t, src, orig.FullPath())

	second, err := applied.At(1)
	require.NoError(t, err)
	assert.Empty(t, second.CachedPath())
}

func TestPutRejectsFileOutsideRoot(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	f := file.New(file.StatusAdded, "/elsewhere/x.go", "/repo", "")
	_, err = store.Put(f, strings.NewReader("x"))
	assert.ErrorIs(t, err, file.ErrInvalidPath)
	assert.Equal(t, 0, store.Len())
}

func TestPutRejectsDotDotPath(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "repo")
	store, err := New(filepath.Join(base, "cache"))
	require.NoError(t, err)

	f := file.New(file.StatusModified, root+"/../escaped.txt", root, "")
	_, err = store.Put(f, strings.NewReader("x"))
	assert.ErrorIs(t, err, file.ErrInvalidPath)
	assert.Equal(t, 0, store.Len())

	_, err = os.Stat(filepath.Join(base, "escaped.txt"))
	assert.True(t, os.IsNotExist(err), "nothing written next to the cache directory")
}

func TestClearTemporary(t *testing.T) {
	store, err := New("")
	require.NoError(t, err)
	dir := store.Dir()

	root := t.TempDir()
	f := file.New(file.StatusAdded, filepath.Join(root, "a.txt"), root, "")
	_, err = store.Put(f, strings.NewReader("a"))
	require.NoError(t, err)

	require.NoError(t, store.Clear())
	assert.NoDirExists(t, dir)
	assert.Equal(t, 0, store.Len())

	// a file whose cached copy is gone falls back to its source path
	applied, err := store.Apply(mustCollection(t, f))
	require.NoError(t, err)
	got, err := applied.At(0)
	require.NoError(t, err)
	assert.Equal(t, f.SourcePath(), got.FullPath())
}

func TestClearConfigured(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "keep.txt")
	require.NoError(t, os.WriteFile(keep, []byte("k"), 0o644))

	store, err := New(dir)
	require.NoError(t, err)

	root := t.TempDir()
	f := file.New(file.StatusAdded, filepath.Join(root, "a.txt"), root, "")
	path, err := store.Put(f, strings.NewReader("a"))
	require.NoError(t, err)

	require.NoError(t, store.Clear())
	assert.NoFileExists(t, path)
	assert.FileExists(t, keep)
}

func mustCollection(t *testing.T, files ...*file.File) *file.Collection {
	t.Helper()
	c, err := file.NewCollection(files...)
	require.NoError(t, err)
	return c
}
