// Package vcs reads the state of a git working copy: which files are
// staged or changed, and what their staged content is.
package vcs

import (
	"context"
	"io"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"

	"github.com/sprite-ai/staticreview/internal/cache"
	"github.com/sprite-ai/staticreview/internal/diff"
	"github.com/sprite-ai/staticreview/internal/file"
)

// ErrNotStaged is returned when a path has no entry in the index.
var ErrNotStaged = errors.New("path is not staged")

// Repository is an opened git working copy.
type Repository struct {
	repo *git.Repository
	root string
	log  logger.FieldLogger
}

// Open opens the repository containing dir. A nil log uses the standard
// logger.
func Open(dir string, log logger.FieldLogger) (*Repository, error) {
	if log == nil {
		log = logger.StandardLogger()
	}
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.Wrapf(err, "opening repository at %s", dir)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.Wrap(err, "reading worktree")
	}
	root, err := filepath.Abs(wt.Filesystem.Root())
	if err != nil {
		return nil, errors.Wrap(err, "resolving repository root")
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	log.WithField("root", root).Debug("opened repository")
	return &Repository{repo: repo, root: root, log: log}, nil
}

// Root returns the absolute path of the working copy.
func (r *Repository) Root() string {
	return r.root
}

// StagedChanges returns the changes recorded in the index relative to HEAD.
func (r *Repository) StagedChanges(ctx context.Context) ([]diff.Change, error) {
	raw, err := diff.GitDiffCached(ctx, r.root)
	if err != nil {
		return nil, err
	}
	return diff.Parse(raw)
}

// StagedFiles returns the files staged for commit.
func (r *Repository) StagedFiles(ctx context.Context) (*file.Collection, error) {
	changes, err := r.StagedChanges(ctx)
	if err != nil {
		return nil, err
	}
	return NewFiles(r.root, changes)
}

// UnstagedFiles returns untracked files and tracked files with changes in
// the worktree that are not staged, sorted by path.
func (r *Repository) UnstagedFiles() (*file.Collection, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, errors.Wrap(err, "reading worktree")
	}
	status, err := wt.Status()
	if err != nil {
		return nil, errors.Wrap(err, "reading worktree status")
	}

	var paths []string
	for path, s := range status {
		if s.Worktree == git.Untracked || s.Worktree == git.Modified {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	files, err := file.NewCollection()
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		f := file.New(file.StatusUnstaged, filepath.Join(r.root, filepath.FromSlash(path)), r.root, "")
		if err := files.Append(f); err != nil {
			return nil, err
		}
	}
	return files, nil
}

// StagedContent opens the staged blob of rel, a path relative to the root.
func (r *Repository) StagedContent(rel string) (io.ReadCloser, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, errors.Wrap(err, "reading index")
	}
	entry, err := idx.Entry(filepath.ToSlash(rel))
	if err != nil {
		if errors.Is(err, index.ErrEntryNotFound) {
			return nil, errors.Wrap(ErrNotStaged, rel)
		}
		return nil, errors.Wrapf(err, "reading index entry %s", rel)
	}
	blob, err := r.repo.BlobObject(entry.Hash)
	if err != nil {
		return nil, errors.Wrapf(err, "reading staged blob of %s", rel)
	}
	return blob.Reader()
}

// NewFiles builds the file collection for changes under root.
func NewFiles(root string, changes []diff.Change) (*file.Collection, error) {
	files, err := file.NewCollection()
	if err != nil {
		return nil, err
	}
	for _, c := range changes {
		path := filepath.Join(root, filepath.FromSlash(c.Path))
		f := file.New(c.Status, path, root, c.PriorPath)
		if err := files.Append(f); err != nil {
			return nil, err
		}
	}
	return files, nil
}

// CacheStaged writes the staged content of files into store and returns
// the files pointing at their cached copies. Deleted files and files not
// in the index are left as they are.
func CacheStaged(ctx context.Context, repo *Repository, files *file.Collection, store *cache.Store) (*file.Collection, error) {
	for f := range files.Values() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.IsDeleted() || f.Status() == file.StatusUnstaged {
			continue
		}
		if err := cacheOne(repo, f, store); err != nil {
			if errors.Is(err, ErrNotStaged) {
				repo.log.WithField("file", f.Name()).Debug("not in index, reading worktree")
				continue
			}
			return nil, err
		}
	}
	repo.log.WithField("count", store.Len()).Debug("cached staged content")
	return store.Apply(files)
}

func cacheOne(repo *Repository, f *file.File, store *cache.Store) error {
	content, err := repo.StagedContent(f.RelativePath())
	if err != nil {
		return err
	}
	defer content.Close()
	_, err = store.Put(f, content)
	return err
}
