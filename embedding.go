package cellmap

import (
	"github.com/hupe1980/cellmap/model"
)

// Embedding returns the record of orbit attached to d, or model.NullRecord.
// A dart is its own DART embedding.
func (m *Map) Embedding(orbit model.Orbit, d model.Dart) uint32 {
	precondition(m.IsOrbitEmbedded(orbit), "Embedding", "orbit "+orbit.String()+" not embedded")
	if orbit == model.OrbitDart {
		return d.Index()
	}
	return m.embeddings[orbit].Get(d.Index())
}

// SetDartEmbedding points d at record rec of orbit (or detaches it when rec
// is model.NullRecord). It is the single path through which embeddings
// change: the previous record is unreferenced, and if that frees it, its mark
// word is cleared on every thread before the line can be reused.
func (m *Map) SetDartEmbedding(orbit model.Orbit, d model.Dart, rec uint32) {
	precondition(m.IsOrbitEmbedded(orbit) && orbit != model.OrbitDart, "SetDartEmbedding", "orbit "+orbit.String()+" not embedded")

	table := m.embeddings[orbit]
	old := table.Get(d.Index())
	if old == rec {
		return
	}

	store := m.attribs[orbit]
	if old != model.NullRecord {
		if store.UnrefLine(old) {
			m.clearMarks(orbit, old)
			m.metrics.RecordCellReleased(orbit)
		}
	}
	if rec != model.NullRecord {
		store.RefLine(rec)
	}
	table.Set(d.Index(), rec)
}

// InitDartEmbedding attaches rec to an unembedded dart d.
func (m *Map) InitDartEmbedding(orbit model.Orbit, d model.Dart, rec uint32) {
	precondition(m.IsOrbitEmbedded(orbit) && orbit != model.OrbitDart, "InitDartEmbedding", "orbit "+orbit.String()+" not embedded")

	table := m.embeddings[orbit]
	precondition(table.Get(d.Index()) == model.NullRecord, "InitDartEmbedding", d.String()+" already embedded")

	if rec != model.NullRecord {
		m.attribs[orbit].RefLine(rec)
	}
	table.Set(d.Index(), rec)
}

// CopyDartEmbedding makes dest share src's record of orbit.
func (m *Map) CopyDartEmbedding(orbit model.Orbit, dest, src model.Dart) {
	m.SetDartEmbedding(orbit, dest, m.Embedding(orbit, src))
}

// NewCell allocates an unreferenced record of orbit.
func (m *Map) NewCell(orbit model.Orbit) uint32 {
	precondition(m.IsOrbitEmbedded(orbit) && orbit != model.OrbitDart, "NewCell", "orbit "+orbit.String()+" not embedded")
	rec := m.attribs[orbit].InsertLine()
	m.metrics.RecordCellCreated(orbit)
	return rec
}

// SetOrbitEmbedding points every dart of the cell of orbit containing d at rec.
func (m *Map) SetOrbitEmbedding(orbit model.Orbit, d model.Dart, rec uint32) {
	precondition(m.IsOrbitEmbedded(orbit), "SetOrbitEmbedding", "orbit "+orbit.String()+" not embedded")
	m.topo.ForEachDartOfOrbit(orbit, d, 0, func(e model.Dart) bool {
		m.SetDartEmbedding(orbit, e, rec)
		return true
	})
}

// InitOrbitEmbedding attaches rec to every dart of an unembedded cell.
func (m *Map) InitOrbitEmbedding(orbit model.Orbit, d model.Dart, rec uint32) {
	precondition(m.IsOrbitEmbedded(orbit), "InitOrbitEmbedding", "orbit "+orbit.String()+" not embedded")
	m.topo.ForEachDartOfOrbit(orbit, d, 0, func(e model.Dart) bool {
		m.InitDartEmbedding(orbit, e, rec)
		return true
	})
}

// SetOrbitEmbeddingOnNewCell allocates a record and points the whole cell of
// orbit containing d at it.
func (m *Map) SetOrbitEmbeddingOnNewCell(orbit model.Orbit, d model.Dart) uint32 {
	rec := m.NewCell(orbit)
	m.SetOrbitEmbedding(orbit, d, rec)
	return rec
}

// InitOrbitEmbeddingOnNewCell allocates a record and attaches it to every
// dart of the unembedded cell of orbit containing d.
func (m *Map) InitOrbitEmbeddingOnNewCell(orbit model.Orbit, d model.Dart) uint32 {
	rec := m.NewCell(orbit)
	m.InitOrbitEmbedding(orbit, d, rec)
	return rec
}

// CopyCell copies the attribute values of e's cell into d's cell.
//
// Nothing happens if e's cell has no record. d's cell gets a record of its
// own first if it has none, or if it shares e's record without being the
// same cell; afterwards the two cells never alias.
func (m *Map) CopyCell(orbit model.Orbit, d, e model.Dart) {
	precondition(m.IsOrbitEmbedded(orbit), "CopyCell", "orbit "+orbit.String()+" not embedded")

	dE := m.Embedding(orbit, d)
	eE := m.Embedding(orbit, e)
	if eE == model.NullRecord {
		return
	}

	switch {
	case dE == model.NullRecord:
		dE = m.SetOrbitEmbeddingOnNewCell(orbit, d)
	case dE == eE:
		if m.sameCell(orbit, d, e) {
			return
		}
		dE = m.SetOrbitEmbeddingOnNewCell(orbit, d)
	}
	m.attribs[orbit].CopyLine(dE, eE)
}

// CopyCellRecord copies the attribute values of record src into record dst.
func (m *Map) CopyCellRecord(orbit model.Orbit, dst, src uint32) {
	store := m.store(orbit)
	precondition(store.IsLive(dst) && store.IsLive(src), "CopyCellRecord", "dead record")
	store.CopyLine(dst, src)
}

func (m *Map) sameCell(orbit model.Orbit, d, e model.Dart) bool {
	found := false
	m.topo.ForEachDartOfOrbit(orbit, d, 0, func(x model.Dart) bool {
		found = x == e
		return !found
	})
	return found
}
