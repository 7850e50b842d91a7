// Package container implements the per-orbit record store.
package container

import (
	"sync"
	"sync/atomic"
)

const (
	// segmentBits determines the size of each segment.
	// 12 bits = 4096 items per segment.
	segmentBits = 12
	segmentSize = 1 << segmentBits
	segmentMask = segmentSize - 1
)

// SegmentedArray is a segmented array indexed by line.
// Growth is serialized by a mutex and published atomically, so readers
// never observe a torn segment table.
type SegmentedArray[T any] struct {
	segments atomic.Pointer[[]*Segment[T]]
	mu       sync.Mutex // Protects growth
	fill     T
}

// Segment is a fixed-size array of items.
type Segment[T any] struct {
	items [segmentSize]T
}

// NewSegmentedArray creates a new SegmentedArray whose unset items read as fill.
func NewSegmentedArray[T any](fill T) *SegmentedArray[T] {
	sa := &SegmentedArray[T]{fill: fill}
	segments := make([]*Segment[T], 0)
	sa.segments.Store(&segments)
	return sa
}

// Fill returns the value unset items read as.
func (sa *SegmentedArray[T]) Fill() T {
	return sa.fill
}

// Get returns the item at the given index.
// Returns the fill value if the segment is not allocated.
func (sa *SegmentedArray[T]) Get(index uint32) T {
	segments := sa.segments.Load()
	segIdx := int(index >> segmentBits)
	if segIdx >= len(*segments) {
		return sa.fill
	}
	seg := (*segments)[segIdx]
	if seg == nil {
		return sa.fill
	}
	return seg.items[index&segmentMask]
}

// Set sets the item at the given index.
// It grows the array if necessary.
func (sa *SegmentedArray[T]) Set(index uint32, value T) {
	*sa.Ptr(index) = value
}

// Ptr returns a pointer to the item at the given index, allocating its segment.
func (sa *SegmentedArray[T]) Ptr(index uint32) *T {
	segIdx := int(index >> segmentBits)

	// Fast path: check if segment exists
	segments := sa.segments.Load()
	if segIdx < len(*segments) && (*segments)[segIdx] != nil {
		return &(*segments)[segIdx].items[index&segmentMask]
	}

	// Slow path: grow
	sa.mu.Lock()
	defer sa.mu.Unlock()

	// Reload under lock
	current := *sa.segments.Load()
	if segIdx < len(current) && current[segIdx] != nil {
		return &current[segIdx].items[index&segmentMask]
	}

	grown := current
	if segIdx >= len(grown) {
		grown = make([]*Segment[T], segIdx+1)
		copy(grown, current)
	} else {
		grown = append([]*Segment[T](nil), current...)
	}

	seg := &Segment[T]{}
	for i := range seg.items {
		seg.items[i] = sa.fill
	}
	grown[segIdx] = seg

	// Publish new segments
	sa.segments.Store(&grown)
	return &seg.items[index&segmentMask]
}

// swap exchanges the contents of two arrays.
func (sa *SegmentedArray[T]) swap(other *SegmentedArray[T]) {
	sa.mu.Lock()
	defer sa.mu.Unlock()
	other.mu.Lock()
	defer other.mu.Unlock()

	a, b := sa.segments.Load(), other.segments.Load()
	sa.segments.Store(b)
	other.segments.Store(a)
	sa.fill, other.fill = other.fill, sa.fill
}
