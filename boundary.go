package cellmap

import (
	"fmt"

	"github.com/hupe1980/cellmap/model"
)

// Boundary marks flag darts of the boundary skeleton of a dimension level.
// They live in thread 0's DART row and are structural: they persist across
// traversals and are shared by every thread.

func (m *Map) boundaryMark(op string, dim int) model.Mark {
	precondition(dim >= 2 && dim <= min(m.Dimension(), maxBoundaryDim), op, fmt.Sprintf("no boundary level %d", dim))
	return m.boundary[dim-2]
}

// BoundaryMark flags d as a boundary dart of dimension level dim.
func (m *Map) BoundaryMark(dim int, d model.Dart) {
	mk := m.boundaryMark("BoundaryMark", dim)
	*m.marks[model.OrbitDart][0].table.Ptr(d.Index()) |= mk
}

// BoundaryUnmark clears the boundary flag of d at level dim.
func (m *Map) BoundaryUnmark(dim int, d model.Dart) {
	mk := m.boundaryMark("BoundaryUnmark", dim)
	m.UnsetMark(model.OrbitDart, 0, d.Index(), mk)
}

// BoundaryMarkOrbit flags every dart of the cell of orbit containing d.
func (m *Map) BoundaryMarkOrbit(orbit model.Orbit, dim int, d model.Dart) {
	mk := m.boundaryMark("BoundaryMarkOrbit", dim)
	table := m.marks[model.OrbitDart][0].table
	m.topo.ForEachDartOfOrbit(orbit, d, 0, func(e model.Dart) bool {
		*table.Ptr(e.Index()) |= mk
		return true
	})
}

// BoundaryUnmarkOrbit clears the boundary flag on every dart of the cell of
// orbit containing d.
func (m *Map) BoundaryUnmarkOrbit(orbit model.Orbit, dim int, d model.Dart) {
	mk := m.boundaryMark("BoundaryUnmarkOrbit", dim)
	m.topo.ForEachDartOfOrbit(orbit, d, 0, func(e model.Dart) bool {
		m.UnsetMark(model.OrbitDart, 0, e.Index(), mk)
		return true
	})
}

// IsBoundaryMarked reports whether d is a boundary dart of level dim.
// Levels without a boundary mark report false.
func (m *Map) IsBoundaryMarked(dim int, d model.Dart) bool {
	if dim < 2 || dim > min(m.Dimension(), maxBoundaryDim) {
		return false
	}
	return m.marks[model.OrbitDart][0].table.Get(d.Index())&m.boundary[dim-2] != 0
}

// IsBoundaryMarkedCurrent reports whether d is a boundary dart at the map's
// own dimension.
func (m *Map) IsBoundaryMarkedCurrent(d model.Dart) bool {
	return m.IsBoundaryMarked(m.Dimension(), d)
}

// BoundaryUnmarkAll clears the boundary flag of level dim on every dart.
func (m *Map) BoundaryUnmarkAll(dim int) {
	mk := m.boundaryMark("BoundaryUnmarkAll", dim)
	table := m.marks[model.OrbitDart][0].table
	for line := range m.attribs[model.OrbitDart].Lines() {
		if table.Get(line)&mk != 0 {
			*table.Ptr(line) &^= mk
		}
	}
}
