package vcs

import (
	"path/filepath"

	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/pkg/errors"
)

// HooksDir returns the directory git runs hooks from.
func (r *Repository) HooksDir() (string, error) {
	storage, ok := r.repo.Storer.(*filesystem.Storage)
	if !ok {
		return "", errors.New("repository has no git directory on disk")
	}
	return filepath.Join(storage.Filesystem().Root(), "hooks"), nil
}
