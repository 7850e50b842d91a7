package cellmap

import (
	"fmt"
	"iter"

	"github.com/hupe1980/cellmap/internal/container"
	"github.com/hupe1980/cellmap/model"
)

// cellSweep calls fn with the first dart, in ascending dart order, of every
// cell of orbit. It stops when fn returns false.
func (m *Map) cellSweep(orbit model.Orbit, thread int, fn func(model.Dart) bool) {
	if orbit == model.OrbitDart {
		for d := range m.Darts() {
			if !fn(d) {
				return
			}
		}
		return
	}

	dm := m.NewDartMarker(thread)
	defer dm.Release()
	for d := range m.Darts() {
		if dm.IsMarked(d) {
			continue
		}
		dm.MarkOrbit(orbit, d)
		if !fn(d) {
			return
		}
	}
}

// Cells iterates over one dart per cell of orbit.
//
// When the representative cache of orbit is enabled, it yields the cached
// darts in record order and cells without a record are skipped. Otherwise it
// sweeps the darts with a marker on thread.
func (m *Map) Cells(orbit model.Orbit, thread int) iter.Seq[model.Dart] {
	precondition(orbit.Valid(), "Cells", "unknown orbit")
	m.checkThread("Cells", thread)

	return func(yield func(model.Dart) bool) {
		if col := m.quick[orbit]; col != nil {
			for line := range m.attribs[orbit].Lines() {
				if d := col.Get(line); !d.IsNil() && !yield(d) {
					return
				}
			}
			return
		}
		m.cellSweep(orbit, thread, yield)
	}
}

// ForeachOrbit calls fn for one dart of every cell of orbit until fn reports
// true. It reports whether fn stopped the iteration.
func (m *Map) ForeachOrbit(orbit model.Orbit, thread int, fn func(model.Dart) bool) bool {
	for d := range m.Cells(orbit, thread) {
		if fn(d) {
			return true
		}
	}
	return false
}

// NbOrbits counts the cells of orbit with a full dart sweep.
func (m *Map) NbOrbits(orbit model.Orbit) int {
	precondition(orbit.Valid(), "NbOrbits", "unknown orbit")
	n := 0
	m.cellSweep(orbit, 0, func(model.Dart) bool {
		n++
		return true
	})
	return n
}

// Degree counts the cells of kind incident around the cell of orbit
// containing d.
func (m *Map) Degree(orbit, incident model.Orbit, d model.Dart) int {
	precondition(orbit != incident, "Degree", "orbit and incident orbit are both "+orbit.String())
	precondition(m.trav != nil, "Degree", "no traversor")
	n := 0
	for range m.trav.Incident(d, m.Dimension(), orbit, incident) {
		n++
	}
	return n
}

// Incident iterates over one dart per cell of kind related incident to the
// cell of orbit containing d, from the quick incident cache when it is
// enabled and holds an entry for the cell.
func (m *Map) Incident(orbit, related model.Orbit, d model.Dart) iter.Seq[model.Dart] {
	if list, ok := m.cachedNeighborhood(&m.quickIncident, orbit, related, d); ok {
		return NilTerminated(list)
	}
	precondition(m.trav != nil, "Incident", "no traversor")
	return m.trav.Incident(d, m.Dimension(), orbit, related)
}

// Adjacent iterates over one dart per cell of orbit adjacent through a cell
// of kind related to the cell of orbit containing d, from the quick adjacent
// cache when it is enabled and holds an entry for the cell.
func (m *Map) Adjacent(orbit, related model.Orbit, d model.Dart) iter.Seq[model.Dart] {
	if list, ok := m.cachedNeighborhood(&m.quickAdjacent, orbit, related, d); ok {
		return NilTerminated(list)
	}
	precondition(m.trav != nil, "Adjacent", "no traversor")
	return m.trav.Adjacent(d, m.Dimension(), orbit, related)
}

func (m *Map) cachedNeighborhood(caches *neighborhoodCaches, orbit, related model.Orbit, d model.Dart) ([]model.Dart, bool) {
	precondition(orbit.Valid() && related.Valid(), "neighborhood", "unknown orbit")
	col := caches[orbit][related]
	if col == nil {
		return nil, false
	}
	rec := m.Embedding(orbit, d)
	if rec == model.NullRecord {
		return nil, false
	}
	list := col.Get(rec)
	return list, list != nil
}

// InitAllOrbitsEmbedding gives a record to every cell of orbit, enabling
// embedding of orbit if needed. With realloc every cell gets a fresh record;
// otherwise only cells without one do.
func (m *Map) InitAllOrbitsEmbedding(orbit model.Orbit, realloc bool) {
	precondition(orbit.Valid() && orbit != model.OrbitDart, "InitAllOrbitsEmbedding", "orbit "+orbit.String()+" cannot be embedded")
	m.AddEmbedding(orbit)

	m.cellSweep(orbit, 0, func(d model.Dart) bool {
		if realloc || m.Embedding(orbit, d) == model.NullRecord {
			m.SetOrbitEmbeddingOnNewCell(orbit, d)
		}
		return true
	})
}

// BijectiveOrbitEmbedding makes every cell of orbit own its record: cells
// sharing a record with a cell found earlier in the sweep get a copy of it.
// It returns the number of cells moved to a new record.
func (m *Map) BijectiveOrbitEmbedding(orbit model.Orbit) int {
	precondition(m.IsOrbitEmbedded(orbit) && orbit != model.OrbitDart, "BijectiveOrbitEmbedding", "orbit "+orbit.String()+" not embedded")

	store := m.attribs[orbit]
	counter, err := container.AddColumn[uint32](store, internalPrefix+"bijective", 0, true)
	if err != nil {
		panic(fmt.Sprintf("cellmap: bijective counter for %s: %v", orbit, err))
	}
	defer store.RemoveColumn(counter)

	split := 0
	m.cellSweep(orbit, 0, func(d model.Dart) bool {
		rec := m.Embedding(orbit, d)
		if rec == model.NullRecord {
			return true
		}
		if counter.Get(rec) > 0 {
			fresh := m.SetOrbitEmbeddingOnNewCell(orbit, d)
			store.CopyLine(fresh, rec)
			split++
		}
		*counter.Ptr(rec)++
		return true
	})

	m.logger.LogBijective(orbit, split)
	return split
}

// ComputeIndexCells numbers the live records of idx's orbit 0, 1, 2, ... in
// store order and stores the numbers in idx. It returns the record count.
func (m *Map) ComputeIndexCells(idx Attribute[uint32]) uint32 {
	precondition(idx.Valid(), "ComputeIndexCells", "invalid attribute handle")
	var n uint32
	for line := range m.attribs[idx.orbit].Lines() {
		idx.SetAt(line, n)
		n++
	}
	return n
}
