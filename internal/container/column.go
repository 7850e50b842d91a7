package container

import "reflect"

// Column is the type-erased view of a named column of a Store.
type Column interface {
	// ID is unique within the owning store and never reused.
	ID() uint64
	Name() string
	Type() reflect.Type
	// Internal columns are owned by the map itself: they are hidden from
	// attribute lookups and skipped by CopyLine.
	Internal() bool

	initLine(line uint32)
	copyLine(dst, src uint32)
	swapData(other Column) bool
	copyData(other Column, lines func(func(uint32) bool)) bool
}

// TypedColumn stores one value of type T per line.
type TypedColumn[T any] struct {
	id       uint64
	name     string
	typ      reflect.Type
	internal bool
	data     *SegmentedArray[T]
}

func newTypedColumn[T any](id uint64, name string, fill T, internal bool) *TypedColumn[T] {
	return &TypedColumn[T]{
		id:       id,
		name:     name,
		typ:      reflect.TypeFor[T](),
		internal: internal,
		data:     NewSegmentedArray(fill),
	}
}

func (c *TypedColumn[T]) ID() uint64         { return c.id }
func (c *TypedColumn[T]) Name() string       { return c.name }
func (c *TypedColumn[T]) Type() reflect.Type { return c.typ }
func (c *TypedColumn[T]) Internal() bool     { return c.internal }

// Fill returns the value unset lines read as.
func (c *TypedColumn[T]) Fill() T {
	return c.data.Fill()
}

// Get returns the value stored at line.
func (c *TypedColumn[T]) Get(line uint32) T {
	return c.data.Get(line)
}

// Set stores v at line.
func (c *TypedColumn[T]) Set(line uint32, v T) {
	c.data.Set(line, v)
}

// Ptr returns a pointer to the value stored at line.
// The pointer stays valid until the column is swapped or removed.
func (c *TypedColumn[T]) Ptr(line uint32) *T {
	return c.data.Ptr(line)
}

func (c *TypedColumn[T]) initLine(line uint32) {
	segments := c.data.segments.Load()
	if int(line>>segmentBits) >= len(*segments) {
		// Unallocated segments already read as fill.
		return
	}
	c.data.Set(line, c.data.fill)
}

func (c *TypedColumn[T]) copyLine(dst, src uint32) {
	c.data.Set(dst, c.data.Get(src))
}

func (c *TypedColumn[T]) swapData(other Column) bool {
	o, ok := other.(*TypedColumn[T])
	if !ok {
		return false
	}
	c.data.swap(o.data)
	return true
}

func (c *TypedColumn[T]) copyData(other Column, lines func(func(uint32) bool)) bool {
	src, ok := other.(*TypedColumn[T])
	if !ok {
		return false
	}
	for line := range lines {
		c.data.Set(line, src.data.Get(line))
	}
	return true
}
