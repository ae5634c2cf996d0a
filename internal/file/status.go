package file

import "github.com/pkg/errors"

// ErrUnknownStatus is returned when a status code has no known meaning.
var ErrUnknownStatus = errors.New("unknown file status")

// Status is the short version-control code describing how a file changed.
type Status string

const (
	StatusAdded    Status = "A"
	StatusCopied   Status = "C"
	StatusModified Status = "M"
	StatusRenamed  Status = "R"
	StatusDeleted  Status = "D"
	StatusUnstaged Status = "??"
)

// Statuses lists every recognized code.
var Statuses = []Status{
	StatusAdded,
	StatusCopied,
	StatusModified,
	StatusRenamed,
	StatusDeleted,
	StatusUnstaged,
}

// Word returns the status as a human-readable word.
func (s Status) Word() (string, error) {
	switch s {
	case StatusAdded:
		return "added", nil
	case StatusCopied:
		return "copied", nil
	case StatusModified:
		return "modified", nil
	case StatusRenamed:
		return "renamed", nil
	case StatusDeleted:
		return "deleted", nil
	case StatusUnstaged:
		return "modified changes but not yet staged", nil
	default:
		return "", errors.Wrapf(ErrUnknownStatus, "%q", string(s))
	}
}

// Known reports whether s is one of the recognized codes.
func (s Status) Known() bool {
	_, err := s.Word()
	return err == nil
}
