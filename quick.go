package cellmap

import (
	"fmt"
	"iter"
	"time"

	"github.com/hupe1980/cellmap/internal/container"
	"github.com/hupe1980/cellmap/model"
)

// CacheView is a read-only view of a quick traversal cache. A view does not
// outlive a disable of its cache: once disabled, Valid reports false and
// At and Of panic.
type CacheView[T any] struct {
	m     *Map
	orbit model.Orbit
	col   *container.TypedColumn[T]
	held  func() *container.TypedColumn[T]
}

// Valid reports whether the map still holds the cache behind v.
func (v CacheView[T]) Valid() bool {
	return v.col != nil && v.held() == v.col
}

// Orbit returns the orbit whose records index the cache.
func (v CacheView[T]) Orbit() model.Orbit {
	return v.orbit
}

// At returns the cached value of record rec.
func (v CacheView[T]) At(rec uint32) T {
	precondition(v.Valid(), "CacheView.At", "quick traversal cache disabled")
	return v.col.Get(rec)
}

// Of returns the cached value of the cell containing d. Cells without a
// record read as the empty entry.
func (v CacheView[T]) Of(d model.Dart) T {
	precondition(v.Valid(), "CacheView.Of", "quick traversal cache disabled")
	rec := v.m.Embedding(v.orbit, d)
	if rec == model.NullRecord {
		return v.col.Fill()
	}
	return v.col.Get(rec)
}

// NilTerminated iterates a cached dart list up to its model.NilDart terminator.
func NilTerminated(list []model.Dart) iter.Seq[model.Dart] {
	return func(yield func(model.Dart) bool) {
		for _, d := range list {
			if d.IsNil() || !yield(d) {
				return
			}
		}
	}
}

// EnableQuickTraversal builds the representative dart cache of orbit,
// enabling embedding of orbit if needed.
func (m *Map) EnableQuickTraversal(orbit model.Orbit) {
	precondition(orbit.Valid(), "EnableQuickTraversal", "unknown orbit")
	m.AddEmbedding(orbit)
	if m.quick[orbit] == nil {
		col, err := container.AddColumn(m.attribs[orbit], internalPrefix+"quick."+orbit.String(), model.NilDart, true)
		if err != nil {
			panic(fmt.Sprintf("cellmap: quick traversal column for %s: %v", orbit, err))
		}
		m.quick[orbit] = col
	}
	m.UpdateQuickTraversal(orbit)
}

// UpdateQuickTraversal rebuilds the representative dart cache of orbit.
// Each record gets the first dart of the first cell found using it.
func (m *Map) UpdateQuickTraversal(orbit model.Orbit) {
	precondition(orbit.Valid() && m.quick[orbit] != nil, "UpdateQuickTraversal", "quick traversal of "+orbit.String()+" not enabled")

	start := time.Now()
	col := m.quick[orbit]
	for line := range m.attribs[orbit].Lines() {
		col.Set(line, model.NilDart)
	}

	cells := 0
	m.cellSweep(orbit, 0, func(d model.Dart) bool {
		rec := m.Embedding(orbit, d)
		if rec != model.NullRecord && col.Get(rec).IsNil() {
			col.Set(rec, d)
			cells++
		}
		return true
	})
	m.cacheRebuilt(CacheRepresentative, orbit, cells, time.Since(start))
}

// DisableQuickTraversal drops the representative dart cache of orbit.
func (m *Map) DisableQuickTraversal(orbit model.Orbit) {
	precondition(orbit.Valid(), "DisableQuickTraversal", "unknown orbit")
	if col := m.quick[orbit]; col != nil {
		m.attribs[orbit].RemoveColumn(col)
		m.quick[orbit] = nil
	}
}

// QuickTraversal returns the representative dart cache of orbit, if enabled.
func (m *Map) QuickTraversal(orbit model.Orbit) (CacheView[model.Dart], bool) {
	if !orbit.Valid() || m.quick[orbit] == nil {
		return CacheView[model.Dart]{}, false
	}
	return CacheView[model.Dart]{
		m:     m,
		orbit: orbit,
		col:   m.quick[orbit],
		held:  func() *container.TypedColumn[model.Dart] { return m.quick[orbit] },
	}, true
}

// EnableQuickIncidentTraversal builds, for every cell of orbit, the list of
// darts of the incident cells of kind inci.
func (m *Map) EnableQuickIncidentTraversal(orbit, inci model.Orbit) {
	m.enableNeighborhood("EnableQuickIncidentTraversal", CacheIncident, &m.quickIncident, orbit, inci)
}

// UpdateQuickIncidentTraversal rebuilds the incident cache of (orbit, inci).
func (m *Map) UpdateQuickIncidentTraversal(orbit, inci model.Orbit) {
	m.updateNeighborhood("UpdateQuickIncidentTraversal", CacheIncident, &m.quickIncident, orbit, inci)
}

// DisableQuickIncidentTraversal drops the incident cache of (orbit, inci).
func (m *Map) DisableQuickIncidentTraversal(orbit, inci model.Orbit) {
	m.disableNeighborhood("DisableQuickIncidentTraversal", &m.quickIncident, orbit, inci)
}

// QuickIncidentTraversal returns the incident cache of (orbit, inci), if enabled.
func (m *Map) QuickIncidentTraversal(orbit, inci model.Orbit) (CacheView[[]model.Dart], bool) {
	return m.neighborhood(&m.quickIncident, orbit, inci)
}

// EnableQuickAdjacentTraversal builds, for every cell of orbit, the list of
// darts of the cells of orbit adjacent through a cell of kind adj.
func (m *Map) EnableQuickAdjacentTraversal(orbit, adj model.Orbit) {
	m.enableNeighborhood("EnableQuickAdjacentTraversal", CacheAdjacent, &m.quickAdjacent, orbit, adj)
}

// UpdateQuickAdjacentTraversal rebuilds the adjacent cache of (orbit, adj).
func (m *Map) UpdateQuickAdjacentTraversal(orbit, adj model.Orbit) {
	m.updateNeighborhood("UpdateQuickAdjacentTraversal", CacheAdjacent, &m.quickAdjacent, orbit, adj)
}

// DisableQuickAdjacentTraversal drops the adjacent cache of (orbit, adj).
func (m *Map) DisableQuickAdjacentTraversal(orbit, adj model.Orbit) {
	m.disableNeighborhood("DisableQuickAdjacentTraversal", &m.quickAdjacent, orbit, adj)
}

// QuickAdjacentTraversal returns the adjacent cache of (orbit, adj), if enabled.
func (m *Map) QuickAdjacentTraversal(orbit, adj model.Orbit) (CacheView[[]model.Dart], bool) {
	return m.neighborhood(&m.quickAdjacent, orbit, adj)
}

type neighborhoodCaches = [model.NumOrbits][model.NumOrbits]*container.TypedColumn[[]model.Dart]

func (m *Map) enableNeighborhood(op, kind string, caches *neighborhoodCaches, orbit, related model.Orbit) {
	precondition(orbit.Valid() && related.Valid(), op, "unknown orbit")
	precondition(m.trav != nil, op, "no traversor")
	m.AddEmbedding(orbit)
	if caches[orbit][related] == nil {
		name := fmt.Sprintf("%squick.%s.%s.%s", internalPrefix, orbit, kind, related)
		col, err := container.AddColumn[[]model.Dart](m.attribs[orbit], name, nil, true)
		if err != nil {
			panic(fmt.Sprintf("cellmap: %s cache for %s/%s: %v", kind, orbit, related, err))
		}
		caches[orbit][related] = col
	}
	m.updateNeighborhood(op, kind, caches, orbit, related)
}

func (m *Map) updateNeighborhood(op, kind string, caches *neighborhoodCaches, orbit, related model.Orbit) {
	precondition(orbit.Valid() && related.Valid(), op, "unknown orbit")
	col := caches[orbit][related]
	precondition(col != nil, op, kind+" cache of "+orbit.String()+"/"+related.String()+" not enabled")

	start := time.Now()
	// Detached while rebuilding so neighborhood queries use the traversor.
	caches[orbit][related] = nil
	defer func() { caches[orbit][related] = col }()

	for line := range m.attribs[orbit].Lines() {
		col.Set(line, nil)
	}

	dim := m.Dimension()
	cells := 0
	m.cellSweep(orbit, 0, func(d model.Dart) bool {
		rec := m.Embedding(orbit, d)
		if rec == model.NullRecord || col.Get(rec) != nil {
			return true
		}
		var seq iter.Seq[model.Dart]
		if kind == CacheIncident {
			seq = m.trav.Incident(d, dim, orbit, related)
		} else {
			seq = m.trav.Adjacent(d, dim, orbit, related)
		}
		var list []model.Dart
		for x := range seq {
			list = append(list, x)
		}
		col.Set(rec, append(list, model.NilDart))
		cells++
		return true
	})
	m.cacheRebuilt(kind, orbit, cells, time.Since(start))
}

func (m *Map) disableNeighborhood(op string, caches *neighborhoodCaches, orbit, related model.Orbit) {
	precondition(orbit.Valid() && related.Valid(), op, "unknown orbit")
	if col := caches[orbit][related]; col != nil {
		m.attribs[orbit].RemoveColumn(col)
		caches[orbit][related] = nil
	}
}

func (m *Map) neighborhood(caches *neighborhoodCaches, orbit, related model.Orbit) (CacheView[[]model.Dart], bool) {
	if !orbit.Valid() || !related.Valid() || caches[orbit][related] == nil {
		return CacheView[[]model.Dart]{}, false
	}
	return CacheView[[]model.Dart]{
		m:     m,
		orbit: orbit,
		col:   caches[orbit][related],
		held:  func() *container.TypedColumn[[]model.Dart] { return caches[orbit][related] },
	}, true
}

func (m *Map) cacheRebuilt(kind string, orbit model.Orbit, cells int, elapsed time.Duration) {
	m.logger.WithOrbit(orbit).LogCacheRebuild(kind, cells, elapsed)
	m.metrics.RecordCacheRebuild(kind, orbit, cells, elapsed)
}
