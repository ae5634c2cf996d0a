package file

import (
	"github.com/pkg/errors"

	"github.com/sprite-ai/staticreview/internal/collection"
)

// Collection is an ordered set of files awaiting review.
type Collection = collection.Collection[*File]

// NewCollection returns a Collection holding files. It fails if any file
// is nil or not under its project root.
func NewCollection(files ...*File) (*Collection, error) {
	return collection.New("FileCollection", validate, files...)
}

func validate(f *File) error {
	if f == nil {
		return errors.New("nil file")
	}
	return f.Validate()
}

// Filter returns a new Collection with the files keep accepts.
func Filter(files *Collection, keep func(*File) bool) (*Collection, error) {
	result, err := NewCollection()
	if err != nil {
		return nil, err
	}
	for f := range files.Values() {
		if !keep(f) {
			continue
		}
		if err := result.Append(f); err != nil {
			return nil, err
		}
	}
	return result, nil
}
