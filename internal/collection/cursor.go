package collection

// Cursor steps through a collection one item at a time. It reads the
// collection live, so items appended after the cursor was created are
// reachable.
type Cursor[T any] struct {
	c   *Collection[T]
	pos int
}

// Current returns the item under the cursor. ok is false when the cursor
// is past the end.
func (cur *Cursor[T]) Current() (item T, ok bool) {
	if !cur.Valid() {
		return item, false
	}
	return cur.c.items[cur.pos], true
}

// Next advances the cursor and returns the item it lands on.
func (cur *Cursor[T]) Next() (T, bool) {
	if cur.pos < len(cur.c.items) {
		cur.pos++
	}
	return cur.Current()
}

// Prev moves the cursor back one item, stopping at the first.
func (cur *Cursor[T]) Prev() (T, bool) {
	if cur.pos > 0 {
		cur.pos--
	}
	return cur.Current()
}

// Key returns the cursor position.
func (cur *Cursor[T]) Key() int {
	return cur.pos
}

// Rewind moves the cursor back to the first item.
func (cur *Cursor[T]) Rewind() {
	cur.pos = 0
}

// Valid reports whether the cursor points at an item.
func (cur *Cursor[T]) Valid() bool {
	return cur.pos >= 0 && cur.pos < len(cur.c.items)
}
