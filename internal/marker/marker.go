package marker

import (
	"math/bits"

	"github.com/hupe1980/cellmap/model"
)

// Table is a per-line mark word column.
type Table interface {
	Get(line uint32) model.Mark
	Ptr(line uint32) *model.Mark
}

// Set allocates the bits of one mark word.
// The zero value has every bit free.
type Set struct {
	used model.Mark
}

// Acquire returns a free single-bit mark, or false if all bits are in use.
func (s *Set) Acquire() (model.Mark, bool) {
	free := ^uint32(s.used)
	if free == 0 {
		return 0, false
	}
	m := model.Mark(1) << bits.TrailingZeros32(free)
	s.used |= m
	return m, true
}

// Release returns m to the set.
func (s *Set) Release(m model.Mark) {
	s.used &^= m
}

// InUse returns the number of allocated bits.
func (s *Set) InUse() int {
	return bits.OnesCount32(uint32(s.used))
}

// Used returns the allocated bits.
func (s *Set) Used() model.Mark {
	return s.used
}

// Tracker marks lines of a table with one mark and remembers them for reset.
type Tracker struct {
	table Table
	mark  model.Mark
	dirty []uint32
}

// NewTracker creates a tracker for mark on table.
func NewTracker(table Table, mark model.Mark) *Tracker {
	return &Tracker{
		table: table,
		mark:  mark,
		dirty: make([]uint32, 0, 128), // Initial capacity for dirty list
	}
}

// Mark returns the tracked mark.
func (t *Tracker) Mark() model.Mark {
	return t.mark
}

// Set marks line. It reports whether the line was previously unmarked.
func (t *Tracker) Set(line uint32) bool {
	w := t.table.Ptr(line)
	if *w&t.mark != 0 {
		return false
	}
	*w |= t.mark
	t.dirty = append(t.dirty, line)
	return true
}

// Unset clears the mark on line.
func (t *Tracker) Unset(line uint32) {
	if t.table.Get(line)&t.mark == 0 {
		return
	}
	*t.table.Ptr(line) &^= t.mark
}

// IsSet reports whether line is marked.
func (t *Tracker) IsSet(line uint32) bool {
	return t.table.Get(line)&t.mark != 0
}

// Reset clears the mark on every line marked since the last reset.
func (t *Tracker) Reset() {
	for _, line := range t.dirty {
		t.Unset(line)
	}
	t.dirty = t.dirty[:0]
}
