// Package cellmap provides the embedding, attribute and traversal-cache core
// of a combinatorial map.
//
// A combinatorial map describes an N-dimensional cell complex with darts and
// permutations over them. The permutations themselves live in a separate
// topology layer (see Topology); cellmap attaches data to the cells they
// define and keeps that data consistent while the topology is edited.
//
// # Quick Start
//
//	topo := testutil.NewMap2()            // any Topology implementation
//	m := cellmap.New(topo, cellmap.WithThreads(4))
//
//	pos, _ := cellmap.AddAttribute[[2]float64](m, model.OrbitVertex, "position")
//	m.InitAllOrbitsEmbedding(model.OrbitVertex, false)
//	for d := range m.Cells(model.OrbitVertex, 0) {
//	    pos.Set(d, [2]float64{0, 0})
//	}
//
// # Embeddings and Records
//
// Every orbit kind (model.OrbitVertex, model.OrbitEdge, ...) owns a store of
// reference-counted records. A dart is embedded on at most one record per
// orbit kind, and all darts of a cell normally share the same record. The
// reference count of a record always equals the number of darts embedded on
// it; a record is freed the moment its last dart lets go, and its marks are
// cleared on every thread before the line can be handed out again.
//
//	rec := m.SetOrbitEmbeddingOnNewCell(model.OrbitFace, d) // new record for d's face
//	m.CopyCell(model.OrbitFace, e, d)                       // e's face gets a copy
//	m.BijectiveOrbitEmbedding(model.OrbitFace)              // split shared records
//
// # Attributes
//
// Attributes are typed columns of an orbit's store. Handles share a binding,
// so RemoveAttribute invalidates every copy at once:
//
//	h, err := cellmap.AddAttribute[float64](m, model.OrbitEdge, "length")
//	if errors.Is(err, cellmap.ErrTypeMismatch) { ... }
//	g := cellmap.GetAttribute[float64](m, model.OrbitEdge, "length")
//	cellmap.RemoveAttribute(m, h) // g.Valid() == false
//
// # Markers and Threads
//
// Traversals use mark bits from per-(orbit, thread) mark words. Concurrent
// read-only traversals must run on distinct thread ids: thread 0 belongs to
// the goroutine owning the map, further ids come from AcquireThread or are
// assigned by ParallelForEachCell. Boundary marks are structural and shared
// by all threads.
//
// # Quick Traversal Caches
//
// EnableQuickTraversal stores one representative dart per record;
// EnableQuickIncidentTraversal and EnableQuickAdjacentTraversal store the
// neighborhood of every cell as a model.NilDart terminated list. Caches are
// never invalidated automatically: after editing the topology, call the
// matching Update method.
//
// # Observability
//
// Logging goes through *Logger (log/slog); metrics through MetricsCollector,
// with BasicMetricsCollector and PrometheusCollector as bundled
// implementations. Check verifies reference counts and mark hygiene.
package cellmap
