// Package cache stores copies of file content, such as the staged version
// of a file, and remembers which file each copy belongs to.
package cache

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/sprite-ai/staticreview/internal/file"
)

// Store is a directory of cached file content keyed by each file's path
// relative to its project root.
type Store struct {
	dir  string
	temp bool

	mu    sync.Mutex
	paths map[string]string
}

// New returns a Store rooted at dir, creating it if needed. An empty dir
// creates a temporary directory, removed by Clear.
func New(dir string) (*Store, error) {
	s := &Store{dir: dir, paths: make(map[string]string)}
	if dir == "" {
		tmp, err := os.MkdirTemp("", "static-review-")
		if err != nil {
			return nil, errors.Wrap(err, "creating cache directory")
		}
		s.dir, s.temp = tmp, true
		return s, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating cache directory %s", dir)
	}
	return s, nil
}

// Dir returns the directory cached content is written to.
func (s *Store) Dir() string {
	return s.dir
}

// Put writes content as the cached copy of f and returns its path.
func (s *Store) Put(f *file.File, content io.Reader) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	rel := f.RelativePath()
	dest := filepath.Join(s.dir, rel)
	if inside, err := filepath.Rel(s.dir, dest); err != nil || inside == "." || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", errors.Wrapf(file.ErrInvalidPath, "%s leaves the cache directory", rel)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", errors.Wrapf(err, "caching %s", rel)
	}
	out, err := os.Create(dest)
	if err != nil {
		return "", errors.Wrapf(err, "caching %s", rel)
	}
	if _, err := io.Copy(out, content); err != nil {
		out.Close()
		return "", errors.Wrapf(err, "caching %s", rel)
	}
	if err := out.Close(); err != nil {
		return "", errors.Wrapf(err, "caching %s", rel)
	}

	s.mu.Lock()
	s.paths[rel] = dest
	s.mu.Unlock()
	return dest, nil
}

// Lookup returns the cached path for f, if one was stored.
func (s *Store) Lookup(f *file.File) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path, ok := s.paths[f.RelativePath()]
	return path, ok
}

// Len returns the number of cached files.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.paths)
}

// Apply returns a new collection in which every file with cached content
// points at its copy. Files without a copy are carried over unchanged.
func (s *Store) Apply(files *file.Collection) (*file.Collection, error) {
	result, err := file.NewCollection()
	if err != nil {
		return nil, err
	}
	for f := range files.Values() {
		if path, ok := s.Lookup(f); ok {
			f = f.WithCachedPath(path)
		}
		if err := result.Append(f); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Clear forgets every cached copy. A temporary directory is removed, a
// configured one only emptied of the copies this Store wrote.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.temp {
		s.paths = make(map[string]string)
		return errors.Wrap(os.RemoveAll(s.dir), "clearing cache")
	}
	for rel, path := range s.paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "clearing cached %s", rel)
		}
		delete(s.paths, rel)
	}
	return nil
}
