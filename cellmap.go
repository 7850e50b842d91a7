package cellmap

import (
	"context"
	"fmt"
	"iter"

	"github.com/google/uuid"
	"golang.org/x/sys/cpu"

	"github.com/hupe1980/cellmap/internal/container"
	"github.com/hupe1980/cellmap/internal/marker"
	"github.com/hupe1980/cellmap/internal/resource"
	"github.com/hupe1980/cellmap/model"
)

// maxBoundaryDim is the highest dimension level with a reserved boundary mark.
const maxBoundaryDim = 3

// Topology is the permutation/involution layer a Map is embedded on.
type Topology interface {
	// Dimension returns the dimension of the map (2 for a 2-map).
	Dimension() int

	// ForEachDartOfOrbit calls fn for every dart of the cell of kind orbit
	// containing d, stopping early when fn returns false. thread selects the
	// marker row the enumeration may use.
	ForEachDartOfOrbit(orbit model.Orbit, d model.Dart, thread int, fn func(model.Dart) bool)
}

// Traversor produces incidence and adjacency dart sequences.
type Traversor interface {
	// Incident yields one dart per cell of kind incident around the cell of
	// kind orbit containing d.
	Incident(d model.Dart, dim int, orbit, incident model.Orbit) iter.Seq[model.Dart]

	// Adjacent yields one dart per cell of kind orbit that shares a cell of
	// kind adjacent with the cell of kind orbit containing d.
	Adjacent(d model.Dart, dim int, orbit, adjacent model.Orbit) iter.Seq[model.Dart]
}

// threadMarks is one thread's marker row for one orbit.
type threadMarks struct {
	_     cpu.CacheLinePad
	set   marker.Set
	table *container.TypedColumn[model.Mark]
	_     cpu.CacheLinePad
}

// Map is the embedding, attribute and traversal-cache core of a
// combinatorial map.
//
// Every orbit kind owns a record store. Darts are the lines of the DART
// store; the embedding of a dart for an orbit is an internal column of the
// DART store holding a line index of that orbit's store.
//
// Thread safety: reads (embeddings, attributes, caches, traversals with
// distinct thread ids) may run concurrently. Mutations must be serialized
// by the caller and must not overlap with reads of the same orbit.
type Map struct {
	id      uuid.UUID
	topo    Topology
	trav    Traversor
	logger  *Logger
	metrics MetricsCollector

	attribs    [model.NumOrbits]*container.Store
	embeddings [model.NumOrbits]*container.TypedColumn[uint32]
	marks      [model.NumOrbits][]*threadMarks
	boundary   [maxBoundaryDim - 1]model.Mark // indexed by dim-2

	quick         [model.NumOrbits]*container.TypedColumn[model.Dart]
	quickIncident [model.NumOrbits][model.NumOrbits]*container.TypedColumn[[]model.Dart]
	quickAdjacent [model.NumOrbits][model.NumOrbits]*container.TypedColumn[[]model.Dart]

	// handles maps each user column to every binding issued for it.
	handles map[container.Column][]invalidator

	threads *resource.Controller
}

// New creates an empty map on top of topo.
func New(topo Topology, optFns ...Option) *Map {
	o := applyOptions(optFns)

	m := &Map{
		id:      o.id,
		topo:    topo,
		trav:    o.traversor,
		metrics: o.metricsCollector,
		handles: make(map[container.Column][]invalidator),
	}
	if m.trav == nil {
		if t, ok := topo.(Traversor); ok {
			m.trav = t
		}
	}
	m.logger = o.logger.WithMapID(m.id.String())

	for i := range m.attribs {
		m.attribs[i] = container.NewStore()
	}
	for t := range o.threads {
		m.marks[model.OrbitDart] = append(m.marks[model.OrbitDart], m.newThreadMarks(model.OrbitDart, t))
	}

	// Boundary marks live in thread 0's DART row for the lifetime of the map.
	for dim := 2; dim <= min(topo.Dimension(), maxBoundaryDim); dim++ {
		mk, _ := m.marks[model.OrbitDart][0].set.Acquire()
		m.boundary[dim-2] = mk
	}

	m.threads = resource.NewController(resource.Config{FirstThread: 1, Threads: o.threads - 1})
	return m
}

// ID returns the map identity.
func (m *Map) ID() uuid.UUID {
	return m.id
}

// Dimension returns the dimension of the underlying topology.
func (m *Map) Dimension() int {
	return m.topo.Dimension()
}

// Logger returns the map's logger.
func (m *Map) Logger() *Logger {
	return m.logger
}

func (m *Map) newThreadMarks(orbit model.Orbit, thread int) *threadMarks {
	name := fmt.Sprintf("cellmap.mark.%d", thread)
	col, err := container.AddColumn[model.Mark](m.attribs[orbit], name, 0, true)
	if err != nil {
		panic(fmt.Sprintf("cellmap: marker table %s/%d: %v", orbit, thread, err))
	}
	return &threadMarks{table: col}
}

// NbThreads returns the number of marker rows per orbit.
func (m *Map) NbThreads() int {
	return len(m.marks[model.OrbitDart])
}

// AddThreadMarkers adds n marker rows to every embedded orbit.
// No thread acquired through AcquireThread may be held.
func (m *Map) AddThreadMarkers(n int) {
	precondition(m.threads.InUse() == 0, "AddThreadMarkers", "threads are in use")
	if n <= 0 {
		return
	}
	first := m.NbThreads()
	for _, orbit := range model.Orbits {
		if len(m.marks[orbit]) == 0 {
			continue
		}
		for t := first; t < first+n; t++ {
			m.marks[orbit] = append(m.marks[orbit], m.newThreadMarks(orbit, t))
		}
	}
	m.threads = resource.NewController(resource.Config{FirstThread: 1, Threads: m.NbThreads() - 1})
}

// AcquireThread reserves a thread id other than 0 for a concurrent reader,
// blocking until one is free.
func (m *Map) AcquireThread(ctx context.Context) (int, error) {
	return m.threads.AcquireThread(ctx)
}

// TryAcquireThread reserves a thread id other than 0 without blocking.
func (m *Map) TryAcquireThread() (int, bool) {
	return m.threads.TryAcquireThread()
}

// ReleaseThread returns a thread id obtained from AcquireThread.
func (m *Map) ReleaseThread(thread int) {
	m.threads.ReleaseThread(thread)
}

func (m *Map) checkThread(op string, thread int) {
	precondition(thread >= 0 && thread < m.NbThreads(), op, fmt.Sprintf("thread %d out of range", thread))
}

// IsOrbitEmbedded reports whether darts carry an embedding for orbit.
// DART is always embedded.
func (m *Map) IsOrbitEmbedded(orbit model.Orbit) bool {
	return orbit == model.OrbitDart || (orbit.Valid() && m.embeddings[orbit] != nil)
}

// AddEmbedding enables embedding for orbit. Every dart starts unembedded.
func (m *Map) AddEmbedding(orbit model.Orbit) {
	precondition(orbit.Valid(), "AddEmbedding", "unknown orbit")
	if m.IsOrbitEmbedded(orbit) {
		return
	}

	col, err := container.AddColumn[uint32](m.attribs[model.OrbitDart], "cellmap.emb."+orbit.String(), model.NullRecord, true)
	if err != nil {
		panic(fmt.Sprintf("cellmap: embedding column for %s: %v", orbit, err))
	}
	for t := range m.NbThreads() {
		m.marks[orbit] = append(m.marks[orbit], m.newThreadMarks(orbit, t))
	}
	m.embeddings[orbit] = col
	m.logger.Debug("embedding enabled", "orbit", orbit.String())
}

// NewDart allocates a dart. It starts unembedded for every orbit.
func (m *Map) NewDart() model.Dart {
	darts := m.attribs[model.OrbitDart]
	line := darts.InsertLine()
	darts.RefLine(line)
	return model.Dart(line)
}

// DeleteDart releases d's embeddings and frees it.
func (m *Map) DeleteDart(d model.Dart) {
	precondition(m.IsDart(d), "DeleteDart", d.String()+" is not a live dart")

	for _, orbit := range model.Orbits[1:] {
		if m.embeddings[orbit] != nil {
			m.SetDartEmbedding(orbit, d, model.NullRecord)
		}
	}
	m.clearMarks(model.OrbitDart, d.Index())
	m.attribs[model.OrbitDart].RemoveLine(d.Index())
	m.logger.Debug("dart deleted", "dart", d.String())
}

// IsDart reports whether d is a live dart.
func (m *Map) IsDart(d model.Dart) bool {
	return m.attribs[model.OrbitDart].IsLive(d.Index())
}

// NbDarts returns the number of live darts.
func (m *Map) NbDarts() int {
	return m.attribs[model.OrbitDart].Len()
}

// Darts iterates over live darts in ascending order.
// Darts must not be created or deleted during iteration.
func (m *Map) Darts() iter.Seq[model.Dart] {
	return func(yield func(model.Dart) bool) {
		for line := range m.attribs[model.OrbitDart].Lines() {
			if !yield(model.Dart(line)) {
				return
			}
		}
	}
}

// NbCells returns the number of live records of orbit.
// For DART this is the number of darts.
func (m *Map) NbCells(orbit model.Orbit) int {
	return m.store(orbit).Len()
}

// RefCount returns the number of darts embedded on record rec of orbit.
func (m *Map) RefCount(orbit model.Orbit, rec uint32) uint32 {
	return m.store(orbit).Refs(rec)
}

// IsLiveRecord reports whether rec is an allocated record of orbit.
func (m *Map) IsLiveRecord(orbit model.Orbit, rec uint32) bool {
	return m.store(orbit).IsLive(rec)
}

// Records iterates over the live records of orbit in store order.
func (m *Map) Records(orbit model.Orbit) iter.Seq[uint32] {
	return m.store(orbit).Lines()
}

func (m *Map) store(orbit model.Orbit) *container.Store {
	precondition(orbit.Valid(), "store", "unknown orbit")
	return m.attribs[orbit]
}

// clearMarks resets line's mark word on every thread.
func (m *Map) clearMarks(orbit model.Orbit, line uint32) {
	for _, tm := range m.marks[orbit] {
		if tm.table.Get(line) != 0 {
			tm.table.Set(line, 0)
		}
	}
}
