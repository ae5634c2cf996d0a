package vcs

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/staticreview/internal/cache"
	"github.com/sprite-ai/staticreview/internal/diff"
	"github.com/sprite-ai/staticreview/internal/file"
)

// fixture creates a repository with a.txt committed as "one", staged as
// "two" and changed in the worktree to "three", plus an untracked b.txt.
func fixture(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	write("a.txt", "one\n")
	_, err = wt.Add("a.txt")
	require.NoError(t, err)
	_, err = wt.Commit("init", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	write("a.txt", "two\n")
	_, err = wt.Add("a.txt")
	require.NoError(t, err)

	write("a.txt", "three\n")
	write("b.txt", "untracked\n")
	return dir
}

func openFixture(t *testing.T) *Repository {
	t.Helper()
	log, _ := test.NewNullLogger()
	repo, err := Open(fixture(t), log)
	require.NoError(t, err)
	return repo
}

func TestOpenFromSubdirectory(t *testing.T) {
	dir := fixture(t)
	sub := filepath.Join(dir, "nested", "deeper")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	repo, err := Open(sub, nil)
	require.NoError(t, err)
	assert.Equal(t, dir, repo.Root())
}

func TestOpenNotARepository(t *testing.T) {
	_, err := Open(t.TempDir(), nil)
	assert.Error(t, err)
}

func TestUnstagedFiles(t *testing.T) {
	repo := openFixture(t)

	files, err := repo.UnstagedFiles()
	require.NoError(t, err)
	require.Equal(t, 2, files.Count())

	var names []string
	for f := range files.Values() {
		names = append(names, f.Name())
		assert.Equal(t, file.StatusUnstaged, f.Status())
		assert.Equal(t, repo.Root(), f.ProjectRoot())
	}
	assert.Equal(t, []string{"a.txt", "b.txt"}, names)
}

func TestStagedContent(t *testing.T) {
	repo := openFixture(t)

	rc, err := repo.StagedContent("a.txt")
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "two\n", string(content))

	_, err = repo.StagedContent("b.txt")
	assert.ErrorIs(t, err, ErrNotStaged)
}

func TestNewFiles(t *testing.T) {
	changes := []diff.Change{
		{Status: file.StatusModified, Path: "src/main.go"},
		{Status: file.StatusRenamed, Path: "b.go", PriorPath: "a.go"},
	}

	files, err := NewFiles("/repo", changes)
	require.NoError(t, err)
	require.Equal(t, 2, files.Count())

	f, err := files.At(0)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/repo", "src", "main.go"), f.SourcePath())
	assert.Equal(t, filepath.Join("src", "main.go"), f.RelativePath())

	f, err = files.At(1)
	require.NoError(t, err)
	prior, ok := f.FilePathBeforeRename()
	assert.True(t, ok)
	assert.Equal(t, "a.go", prior)
}

func TestCacheStaged(t *testing.T) {
	repo := openFixture(t)
	files, err := NewFiles(repo.Root(), []diff.Change{
		{Status: file.StatusModified, Path: "a.txt"},
		{Status: file.StatusDeleted, Path: "gone.txt"},
	})
	require.NoError(t, err)

	store, err := cache.New("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Clear() })

	cached, err := CacheStaged(context.Background(), repo, files, store)
	require.NoError(t, err)
	require.Equal(t, 2, cached.Count())

	a, err := cached.At(0)
	require.NoError(t, err)
	content, err := os.ReadFile(a.FullPath())
	require.NoError(t, err)
	assert.Equal(t, "two\n", string(content))

	gone, err := cached.At(1)
	require.NoError(t, err)
	assert.Empty(t, gone.CachedPath())
}

func TestCacheStagedCancelled(t *testing.T) {
	repo := openFixture(t)
	files, err := NewFiles(repo.Root(), []diff.Change{{Status: file.StatusModified, Path: "a.txt"}})
	require.NoError(t, err)
	store, err := cache.New(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = CacheStaged(ctx, repo, files, store)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStagedFiles(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	repo := openFixture(t)

	files, err := repo.StagedFiles(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, files.Count())

	f, err := files.At(0)
	require.NoError(t, err)
	assert.Equal(t, "a.txt", f.Name())
	assert.Equal(t, file.StatusModified, f.Status())
}
