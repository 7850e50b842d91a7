package container

import (
	"errors"
	"fmt"
	"iter"
	"reflect"

	"github.com/RoaringBitmap/roaring/v2"
)

var (
	// ErrColumnExists is returned when a column of the same name and type exists.
	ErrColumnExists = errors.New("container: column already exists")

	// ErrTypeMismatch is returned when a column of the same name exists with another type.
	ErrTypeMismatch = errors.New("container: column type mismatch")
)

// TypeMismatchError describes a name collision between columns of different types.
type TypeMismatchError struct {
	Name      string
	Existing  reflect.Type
	Requested reflect.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("container: column %q holds %s, requested %s", e.Name, e.Existing, e.Requested)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// Store is a collection of reference-counted lines holding named typed columns.
//
// Freed lines go to a free set and are handed out again lowest-first by
// InsertLine; every column is reset to its fill value when a line is
// (re)inserted.
//
// Thread safety: concurrent reads are safe; writes require external synchronization.
type Store struct {
	refs *SegmentedArray[uint32]
	live *roaring.Bitmap
	free *roaring.Bitmap
	size uint32 // high-water mark

	columns []Column
	byName  map[string]Column
	nextID  uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		refs:   NewSegmentedArray[uint32](0),
		live:   roaring.New(),
		free:   roaring.New(),
		byName: make(map[string]Column),
	}
}

// InsertLine allocates a line with refcount zero.
func (s *Store) InsertLine() uint32 {
	var line uint32
	if !s.free.IsEmpty() {
		line = s.free.Minimum()
		s.free.Remove(line)
	} else {
		line = s.size
		s.size++
	}

	s.live.Add(line)
	s.refs.Set(line, 0)
	for _, c := range s.columns {
		c.initLine(line)
	}
	return line
}

// RemoveLine frees line regardless of its refcount.
func (s *Store) RemoveLine(line uint32) {
	if !s.live.Contains(line) {
		panic(fmt.Sprintf("container: remove of dead line %d", line))
	}
	s.live.Remove(line)
	s.free.Add(line)
	s.refs.Set(line, 0)
}

// RefLine increments the refcount of line.
func (s *Store) RefLine(line uint32) {
	if !s.live.Contains(line) {
		panic(fmt.Sprintf("container: ref of dead line %d", line))
	}
	*s.refs.Ptr(line)++
}

// UnrefLine decrements the refcount of line and frees it when the count
// reaches zero. It reports whether the line was freed.
func (s *Store) UnrefLine(line uint32) bool {
	if !s.live.Contains(line) {
		panic(fmt.Sprintf("container: unref of dead line %d", line))
	}
	r := s.refs.Ptr(line)
	if *r == 0 {
		panic(fmt.Sprintf("container: unref of unreferenced line %d", line))
	}
	*r--
	if *r > 0 {
		return false
	}
	s.live.Remove(line)
	s.free.Add(line)
	return true
}

// Refs returns the refcount of line.
func (s *Store) Refs(line uint32) uint32 {
	return s.refs.Get(line)
}

// LiveSet returns a copy of the set of allocated lines.
func (s *Store) LiveSet() *roaring.Bitmap {
	return s.live.Clone()
}

// IsLive reports whether line is allocated.
func (s *Store) IsLive(line uint32) bool {
	return s.live.Contains(line)
}

// Len returns the number of live lines.
func (s *Store) Len() int {
	return int(s.live.GetCardinality())
}

// Capacity returns the high-water mark of allocated lines.
func (s *Store) Capacity() uint32 {
	return s.size
}

// Lines iterates over live lines in ascending order.
// The store must not be mutated during iteration.
func (s *Store) Lines() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		it := s.live.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// CopyLine copies every non-internal column value from src to dst.
func (s *Store) CopyLine(dst, src uint32) {
	if dst == src {
		return
	}
	for _, c := range s.columns {
		if !c.Internal() {
			c.copyLine(dst, src)
		}
	}
}

// AddColumn creates a column named name whose unset values read as fill.
func AddColumn[T any](s *Store, name string, fill T, internal bool) (*TypedColumn[T], error) {
	if existing, ok := s.byName[name]; ok {
		requested := reflect.TypeFor[T]()
		if existing.Type() != requested {
			return nil, &TypeMismatchError{Name: name, Existing: existing.Type(), Requested: requested}
		}
		return nil, fmt.Errorf("%w: %q", ErrColumnExists, name)
	}

	s.nextID++
	c := newTypedColumn(s.nextID, name, fill, internal)
	s.columns = append(s.columns, c)
	s.byName[name] = c
	return c, nil
}

// GetColumn returns the column named name if it holds values of type T.
func GetColumn[T any](s *Store, name string) (*TypedColumn[T], bool) {
	c, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	tc, ok := c.(*TypedColumn[T])
	return tc, ok
}

// Column returns the column named name.
func (s *Store) Column(name string) (Column, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// Columns returns the columns in creation order.
func (s *Store) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// RemoveColumn removes c from the store. It reports whether c belonged to it.
func (s *Store) RemoveColumn(c Column) bool {
	for i, col := range s.columns {
		if col == c {
			s.columns = append(s.columns[:i], s.columns[i+1:]...)
			delete(s.byName, c.Name())
			return true
		}
	}
	return false
}

// SwapColumns exchanges the data of two columns of the same type.
func (s *Store) SwapColumns(a, b Column) bool {
	if a == b || !s.owns(a) || !s.owns(b) {
		return false
	}
	return a.swapData(b)
}

// CopyColumn copies the value of every live line from src to dst.
func (s *Store) CopyColumn(dst, src Column) bool {
	if dst == src || !s.owns(dst) || !s.owns(src) {
		return false
	}
	return dst.copyData(src, s.Lines())
}

func (s *Store) owns(c Column) bool {
	cur, ok := s.byName[c.Name()]
	return ok && cur == c
}
