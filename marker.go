package cellmap

import (
	"fmt"

	"github.com/hupe1980/cellmap/internal/marker"
	"github.com/hupe1980/cellmap/model"
)

// DartMarker marks individual darts with a mark bit of one thread's DART row.
// Release must be called when done; it clears every dart the marker touched
// and frees the bit.
type DartMarker struct {
	m       *Map
	thread  int
	tracker *marker.Tracker
}

// NewDartMarker allocates a dart marker on thread.
func (m *Map) NewDartMarker(thread int) *DartMarker {
	mk := m.acquireMark("NewDartMarker", model.OrbitDart, thread)
	tm := m.marks[model.OrbitDart][thread]
	return &DartMarker{m: m, thread: thread, tracker: marker.NewTracker(tm.table, mk)}
}

// Mark marks d.
func (dm *DartMarker) Mark(d model.Dart) {
	dm.tracker.Set(d.Index())
}

// Unmark clears the mark on d.
func (dm *DartMarker) Unmark(d model.Dart) {
	dm.tracker.Unset(d.Index())
}

// IsMarked reports whether d is marked.
func (dm *DartMarker) IsMarked(d model.Dart) bool {
	return dm.tracker.IsSet(d.Index())
}

// MarkOrbit marks every dart of the cell of orbit containing d.
func (dm *DartMarker) MarkOrbit(orbit model.Orbit, d model.Dart) {
	dm.m.topo.ForEachDartOfOrbit(orbit, d, dm.thread, func(e model.Dart) bool {
		dm.tracker.Set(e.Index())
		return true
	})
}

// UnmarkOrbit clears the mark on every dart of the cell of orbit containing d.
func (dm *DartMarker) UnmarkOrbit(orbit model.Orbit, d model.Dart) {
	dm.m.topo.ForEachDartOfOrbit(orbit, d, dm.thread, func(e model.Dart) bool {
		dm.tracker.Unset(e.Index())
		return true
	})
}

// UnmarkAll clears every mark set by this marker.
func (dm *DartMarker) UnmarkAll() {
	dm.tracker.Reset()
}

// Release clears every mark and returns the bit to the thread.
// The marker must not be used afterwards.
func (dm *DartMarker) Release() {
	if dm.tracker == nil {
		return
	}
	dm.tracker.Reset()
	dm.m.releaseMark(model.OrbitDart, dm.thread, dm.tracker.Mark())
	dm.tracker = nil
}

// CellMarker marks cells of one orbit through their records, so marking
// any dart of a cell marks the whole cell in O(1).
type CellMarker struct {
	m       *Map
	orbit   model.Orbit
	thread  int
	tracker *marker.Tracker
}

// NewCellMarker allocates a cell marker for orbit on thread.
// The orbit must be embedded.
func (m *Map) NewCellMarker(orbit model.Orbit, thread int) *CellMarker {
	precondition(m.IsOrbitEmbedded(orbit), "NewCellMarker", "orbit "+orbit.String()+" not embedded")
	mk := m.acquireMark("NewCellMarker", orbit, thread)
	tm := m.marks[orbit][thread]
	return &CellMarker{m: m, orbit: orbit, thread: thread, tracker: marker.NewTracker(tm.table, mk)}
}

// Mark marks the cell containing d.
func (cm *CellMarker) Mark(d model.Dart) {
	cm.tracker.Set(cm.record("Mark", d))
}

// Unmark clears the mark on the cell containing d.
func (cm *CellMarker) Unmark(d model.Dart) {
	cm.tracker.Unset(cm.record("Unmark", d))
}

// IsMarked reports whether the cell containing d is marked.
// Cells without a record are never marked.
func (cm *CellMarker) IsMarked(d model.Dart) bool {
	rec := cm.m.Embedding(cm.orbit, d)
	if rec == model.NullRecord {
		return false
	}
	return cm.tracker.IsSet(rec)
}

// UnmarkAll clears every mark set by this marker.
func (cm *CellMarker) UnmarkAll() {
	cm.tracker.Reset()
}

// Release clears every mark and returns the bit to the thread.
// The marker must not be used afterwards.
func (cm *CellMarker) Release() {
	if cm.tracker == nil {
		return
	}
	cm.tracker.Reset()
	cm.m.releaseMark(cm.orbit, cm.thread, cm.tracker.Mark())
	cm.tracker = nil
}

func (cm *CellMarker) record(op string, d model.Dart) uint32 {
	rec := cm.m.Embedding(cm.orbit, d)
	precondition(rec != model.NullRecord, op, d.String()+" has no "+cm.orbit.String()+" record")
	return rec
}

// SetMark sets mk on record line of orbit in thread's row.
func (m *Map) SetMark(orbit model.Orbit, thread int, line uint32, mk model.Mark) {
	m.checkMarkRow("SetMark", orbit, thread)
	*m.marks[orbit][thread].table.Ptr(line) |= mk
}

// UnsetMark clears mk on record line of orbit in thread's row.
func (m *Map) UnsetMark(orbit model.Orbit, thread int, line uint32, mk model.Mark) {
	m.checkMarkRow("UnsetMark", orbit, thread)
	table := m.marks[orbit][thread].table
	if table.Get(line)&mk != 0 {
		*table.Ptr(line) &^= mk
	}
}

// IsMarked reports whether any bit of mk is set on record line of orbit in
// thread's row.
func (m *Map) IsMarked(orbit model.Orbit, thread int, line uint32, mk model.Mark) bool {
	m.checkMarkRow("IsMarked", orbit, thread)
	return m.marks[orbit][thread].table.Get(line)&mk != 0
}

// MarkWord returns the whole mark word of record line of orbit in thread's row.
func (m *Map) MarkWord(orbit model.Orbit, thread int, line uint32) model.Mark {
	m.checkMarkRow("MarkWord", orbit, thread)
	return m.marks[orbit][thread].table.Get(line)
}

// AcquireMark allocates a free mark bit of orbit's row on thread.
// Marks obtained this way are cleared and returned with ReleaseMark.
func (m *Map) AcquireMark(orbit model.Orbit, thread int) model.Mark {
	return m.acquireMark("AcquireMark", orbit, thread)
}

// ReleaseMark clears mk on every record of orbit and returns it to thread.
func (m *Map) ReleaseMark(orbit model.Orbit, thread int, mk model.Mark) {
	m.checkMarkRow("ReleaseMark", orbit, thread)
	table := m.marks[orbit][thread].table
	for line := range m.attribs[orbit].Lines() {
		if table.Get(line)&mk != 0 {
			*table.Ptr(line) &^= mk
		}
	}
	m.releaseMark(orbit, thread, mk)
}

func (m *Map) acquireMark(op string, orbit model.Orbit, thread int) model.Mark {
	m.checkMarkRow(op, orbit, thread)
	mk, ok := m.marks[orbit][thread].set.Acquire()
	precondition(ok, op, fmt.Sprintf("no free mark on %s thread %d", orbit, thread))
	return mk
}

func (m *Map) releaseMark(orbit model.Orbit, thread int, mk model.Mark) {
	m.marks[orbit][thread].set.Release(mk)
}

func (m *Map) checkMarkRow(op string, orbit model.Orbit, thread int) {
	precondition(m.IsOrbitEmbedded(orbit), op, "orbit "+orbit.String()+" not embedded")
	m.checkThread(op, thread)
}
