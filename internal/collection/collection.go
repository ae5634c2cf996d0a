// Package collection provides an ordered container that validates every
// item on insertion.
package collection

import (
	"fmt"
	"iter"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidElement is returned when an item fails the collection's
	// validity predicate.
	ErrInvalidElement = errors.New("invalid element")

	// ErrIndexOutOfRange is returned by At for positions outside [0, Count()).
	ErrIndexOutOfRange = errors.New("index out of range")
)

// ValidateFunc reports why item cannot be stored, or nil if it can.
// It must not mutate item.
type ValidateFunc[T any] func(item T) error

// Collection is an ordered, homogeneous container. Items are kept in
// insertion order and each one passed validate when it was added.
//
// A Collection is not safe for concurrent use.
type Collection[T any] struct {
	name     string
	validate ValidateFunc[T]
	items    []T
}

// New creates a collection holding items. Every item is validated in order;
// the first failure aborts construction and no collection is returned.
func New[T any](name string, validate ValidateFunc[T], items ...T) (*Collection[T], error) {
	c := &Collection[T]{
		name:     name,
		validate: validate,
		items:    make([]T, 0, len(items)),
	}

	for i, item := range items {
		if err := c.check(item); err != nil {
			return nil, errors.WithMessagef(err, "%s: item %d", name, i)
		}
		c.items = append(c.items, item)
	}

	return c, nil
}

func (c *Collection[T]) check(item T) error {
	if c.validate == nil {
		return nil
	}
	err := c.validate(item)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidElement) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidElement, err)
}

// Append validates item and adds it to the end of the collection.
// On failure the collection is left untouched.
func (c *Collection[T]) Append(item T) error {
	if err := c.check(item); err != nil {
		return errors.WithMessage(err, c.name)
	}
	c.items = append(c.items, item)
	return nil
}

// Count returns the number of items.
func (c *Collection[T]) Count() int {
	return len(c.items)
}

// At returns the item at position i.
func (c *Collection[T]) At(i int) (T, error) {
	if i < 0 || i >= len(c.items) {
		var zero T
		return zero, errors.Wrapf(ErrIndexOutOfRange, "%s: position %d of %d", c.name, i, len(c.items))
	}
	return c.items[i], nil
}

// All yields position and item pairs in insertion order.
func (c *Collection[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range c.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Values yields the items in insertion order.
func (c *Collection[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range c.items {
			if !yield(item) {
				return
			}
		}
	}
}

// Slice returns a copy of the items.
func (c *Collection[T]) Slice() []T {
	result := make([]T, len(c.items))
	copy(result, c.items)
	return result
}

// Name returns the type name used by String.
func (c *Collection[T]) Name() string {
	return c.name
}

func (c *Collection[T]) String() string {
	return fmt.Sprintf("%s(%d)", c.name, len(c.items))
}

// Cursor returns a cursor positioned on the first item.
func (c *Collection[T]) Cursor() *Cursor[T] {
	return &Cursor[T]{c: c}
}
