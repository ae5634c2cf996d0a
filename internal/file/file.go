// Package file models a single changed file under review.
package file

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-enry/go-enry/v2"
	"github.com/pkg/errors"
)

// ErrInvalidPath is returned by Validate when the file's path does not live
// under its project root.
var ErrInvalidPath = errors.New("path is outside the project root")

const separator = string(filepath.Separator)

// File is one tracked file taken from a version-control status line.
//
// A File is immutable. The cache relationship is expressed by building a
// new value with WithCachedPath.
type File struct {
	status      Status
	path        string
	projectRoot string
	priorPath   string
	cachedPath  string
}

// New creates a File. priorPath is only meaningful for renames and may be
// empty. The status code is not checked here; see FormattedStatus.
func New(status Status, path, projectRoot, priorPath string) *File {
	return &File{
		status:      status,
		path:        path,
		projectRoot: strings.TrimRight(projectRoot, separator),
		priorPath:   priorPath,
	}
}

// FileName returns the base name of the file including its extension.
func (f *File) FileName() string {
	return filepath.Base(f.path)
}

// SourcePath returns the absolute path the file was created with.
func (f *File) SourcePath() string {
	return f.path
}

// ProjectRoot returns the project directory the file is relative to.
func (f *File) ProjectRoot() string {
	return f.projectRoot
}

// RelativePath returns the path of the file from the project root. If the
// file is not under the root the source path is returned as is.
func (f *File) RelativePath() string {
	prefix := f.projectRoot + separator
	if !strings.HasPrefix(f.path, prefix) {
		return f.path
	}
	return strings.TrimLeft(f.path[len(prefix):], separator)
}

// FullPath returns the path to read the file's content from: the cached
// copy when one is set and exists, otherwise the source path. The cache is
// checked on every call.
func (f *File) FullPath() string {
	if f.cachedPath != "" {
		if _, err := os.Stat(f.cachedPath); err == nil {
			return f.cachedPath
		}
	}
	return f.path
}

// CachedPath returns the path of the cached copy, or "" if none was set.
func (f *File) CachedPath() string {
	return f.cachedPath
}

// WithCachedPath returns a copy of f whose content lives at path.
func (f *File) WithCachedPath(path string) *File {
	c := *f
	c.cachedPath = path
	return &c
}

// Extension returns the file extension without the leading dot.
func (f *File) Extension() string {
	return strings.TrimPrefix(filepath.Ext(f.path), ".")
}

// Status returns the raw status code.
func (f *File) Status() Status {
	return f.status
}

// FormattedStatus returns the status as a word, e.g. "added".
func (f *File) FormattedStatus() (string, error) {
	return f.status.Word()
}

// IsDeleted reports whether the file was removed.
func (f *File) IsDeleted() bool {
	return f.status == StatusDeleted
}

// MimeType detects the mime type and charset of the content at FullPath,
// e.g. "text/plain; charset=utf-8" or "image/png; charset=binary".
func (f *File) MimeType() (string, error) {
	mtype, err := mimetype.DetectFile(f.FullPath())
	if err != nil {
		return "", err
	}
	mime := mtype.String()
	if strings.Contains(mime, "charset=") {
		return mime, nil
	}
	if textual(mtype) {
		return mime + "; charset=utf-8", nil
	}
	return mime + "; charset=binary", nil
}

// IsText reports whether the content at FullPath is textual. JSON, XML,
// source code and the like count as text.
func (f *File) IsText() (bool, error) {
	mtype, err := mimetype.DetectFile(f.FullPath())
	if err != nil {
		return false, err
	}
	return textual(mtype), nil
}

func textual(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// Name identifies the file in review output. It is the relative path.
func (f *File) Name() string {
	return f.RelativePath()
}

// FilePathBeforeRename returns the path the file had before a rename.
func (f *File) FilePathBeforeRename() (string, bool) {
	return f.priorPath, f.priorPath != ""
}

// Language guesses the programming language from the file name.
func (f *File) Language() string {
	return enry.GetLanguage(f.FileName(), nil)
}

// IsVendored reports whether the file lives in a vendored or third-party
// directory.
func (f *File) IsVendored() bool {
	return enry.IsVendor(f.RelativePath())
}

// Validate checks that the file is usable by the review engine.
func (f *File) Validate() error {
	if f.path == "" {
		return errors.Wrap(ErrInvalidPath, "empty path")
	}
	if !strings.HasPrefix(f.path, f.projectRoot+separator) {
		return errors.Wrapf(ErrInvalidPath, "%s not under %s", f.path, f.projectRoot)
	}
	if escapes(f.RelativePath()) {
		return errors.Wrapf(ErrInvalidPath, "%s leaves %s", f.path, f.projectRoot)
	}
	return nil
}

// escapes reports whether rel, once cleaned, points outside the directory
// it is relative to.
func escapes(rel string) bool {
	clean := filepath.Clean(rel)
	return clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+separator) || filepath.IsAbs(clean)
}

func (f *File) String() string {
	return string(f.status) + " " + f.Name()
}
