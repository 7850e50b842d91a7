package testutil

import (
	"iter"

	"github.com/hupe1980/cellmap"
	"github.com/hupe1980/cellmap/model"
)

// Map2 is a minimal oriented 2-map: phi1 links the darts of a face in a
// cycle and phi2 pairs the two darts of an edge. Unsewn darts are phi2 fixed
// points.
type Map2 struct {
	M *cellmap.Map

	phi1  []model.Dart
	phi_1 []model.Dart
	phi2  []model.Dart
}

// NewMap2 creates an empty 2-map and the cellmap.Map embedded on it.
func NewMap2(optFns ...cellmap.Option) *Map2 {
	t := &Map2{}
	t.M = cellmap.New(t, optFns...)
	return t
}

// Dimension implements cellmap.Topology.
func (t *Map2) Dimension() int { return 2 }

// NewDart allocates a dart that is a fixed point of phi1 and phi2.
func (t *Map2) NewDart() model.Dart {
	d := t.M.NewDart()
	for int(d.Index()) >= len(t.phi1) {
		t.phi1 = append(t.phi1, model.NilDart)
		t.phi_1 = append(t.phi_1, model.NilDart)
		t.phi2 = append(t.phi2, model.NilDart)
	}
	t.phi1[d], t.phi_1[d], t.phi2[d] = d, d, d
	return d
}

// NewFace creates a face of n darts and returns its first dart.
func (t *Map2) NewFace(n int) model.Dart {
	darts := make([]model.Dart, n)
	for i := range darts {
		darts[i] = t.NewDart()
	}
	t.link(darts)
	return darts[0]
}

// DeleteFace removes the face containing d. Its edges are unsewn first.
func (t *Map2) DeleteFace(d model.Dart) {
	darts := t.faceDarts(d)
	for _, x := range darts {
		t.Unsew2(x)
	}
	for _, x := range darts {
		t.M.DeleteDart(x)
	}
}

// Phi1 returns the next dart of d's face.
func (t *Map2) Phi1(d model.Dart) model.Dart { return t.phi1[d] }

// PhiMinus1 returns the previous dart of d's face.
func (t *Map2) PhiMinus1(d model.Dart) model.Dart { return t.phi_1[d] }

// Phi2 returns the opposite dart of d's edge, or d itself when unsewn.
func (t *Map2) Phi2(d model.Dart) model.Dart { return t.phi2[d] }

// IsSewn reports whether d has an opposite dart.
func (t *Map2) IsSewn(d model.Dart) bool { return t.phi2[d] != d }

// Sew2 pairs d and e into one edge. Both must be unsewn.
func (t *Map2) Sew2(d, e model.Dart) {
	if t.IsSewn(d) || t.IsSewn(e) {
		panic("testutil: Sew2 on sewn dart")
	}
	t.phi2[d], t.phi2[e] = e, d
}

// Unsew2 splits the edge of d.
func (t *Map2) Unsew2(d model.Dart) {
	e := t.phi2[d]
	t.phi2[d], t.phi2[e] = d, e
}

func (t *Map2) link(darts []model.Dart) {
	for i, d := range darts {
		next := darts[(i+1)%len(darts)]
		t.phi1[d] = next
		t.phi_1[next] = d
	}
}

func (t *Map2) faceDarts(d model.Dart) []model.Dart {
	darts := []model.Dart{d}
	for x := t.phi1[d]; x != d; x = t.phi1[x] {
		darts = append(darts, x)
	}
	return darts
}

// step calls fn with the darts one generator away from d within orbit.
func (t *Map2) step(orbit model.Orbit, d model.Dart, fn func(model.Dart)) {
	switch orbit {
	case model.OrbitFace, model.OrbitFace2:
		fn(t.phi1[d])
	case model.OrbitEdge, model.OrbitEdge2:
		fn(t.phi2[d])
	case model.OrbitVertex, model.OrbitVertex2:
		// phi2∘phi-1 and its inverse phi1∘phi2 turn around the vertex.
		if p := t.phi_1[d]; t.IsSewn(p) {
			fn(t.phi2[p])
		}
		if t.IsSewn(d) {
			fn(t.phi1[t.phi2[d]])
		}
	case model.OrbitVolume:
		fn(t.phi1[d])
		fn(t.phi_1[d])
		fn(t.phi2[d])
	}
}

func singleDart(orbit model.Orbit) bool {
	switch orbit {
	case model.OrbitDart, model.OrbitVertex1, model.OrbitEdge1:
		return true
	}
	return false
}

// ForEachDartOfOrbit implements cellmap.Topology. It marks visited darts with
// a dart marker on thread.
func (t *Map2) ForEachDartOfOrbit(orbit model.Orbit, d model.Dart, thread int, fn func(model.Dart) bool) {
	if singleDart(orbit) {
		fn(d)
		return
	}

	dm := t.M.NewDartMarker(thread)
	defer dm.Release()

	dm.Mark(d)
	queue := []model.Dart{d}
	for len(queue) > 0 {
		x := queue[0]
		queue = queue[1:]
		if !fn(x) {
			return
		}
		t.step(orbit, x, func(y model.Dart) {
			if !dm.IsMarked(y) {
				dm.Mark(y)
				queue = append(queue, y)
			}
		})
	}
}

// OrbitDarts returns the darts of the cell of orbit containing d in
// traversal order. It uses no markers and is safe for concurrent readers.
func (t *Map2) OrbitDarts(orbit model.Orbit, d model.Dart) []model.Dart {
	if singleDart(orbit) {
		return []model.Dart{d}
	}
	seen := map[model.Dart]bool{d: true}
	darts := []model.Dart{d}
	for i := 0; i < len(darts); i++ {
		t.step(orbit, darts[i], func(y model.Dart) {
			if !seen[y] {
				seen[y] = true
				darts = append(darts, y)
			}
		})
	}
	return darts
}

// Incident implements cellmap.Traversor.
func (t *Map2) Incident(d model.Dart, _ int, orbit, incident model.Orbit) iter.Seq[model.Dart] {
	return func(yield func(model.Dart) bool) {
		seen := make(map[model.Dart]bool)
		for _, x := range t.OrbitDarts(orbit, d) {
			if seen[x] {
				continue
			}
			for _, y := range t.OrbitDarts(incident, x) {
				seen[y] = true
			}
			if !yield(x) {
				return
			}
		}
	}
}

// Adjacent implements cellmap.Traversor.
func (t *Map2) Adjacent(d model.Dart, _ int, orbit, adjacent model.Orbit) iter.Seq[model.Dart] {
	return func(yield func(model.Dart) bool) {
		seen := make(map[model.Dart]bool)
		for _, x := range t.OrbitDarts(orbit, d) {
			seen[x] = true
		}
		for _, x := range t.OrbitDarts(orbit, d) {
			for _, y := range t.OrbitDarts(adjacent, x) {
				if seen[y] {
					continue
				}
				for _, z := range t.OrbitDarts(orbit, y) {
					seen[z] = true
				}
				if !yield(y) {
					return
				}
			}
		}
	}
}

// Close fills every hole with a boundary face whose darts are boundary
// marked at level 2. It returns the number of faces added.
func (t *Map2) Close() int {
	holes := 0
	for i := range t.phi2 {
		d := model.Dart(i)
		if !t.M.IsDart(d) || t.IsSewn(d) {
			continue
		}
		first := t.closeHole(d)
		t.M.BoundaryMarkOrbit(model.OrbitFace, 2, first)
		holes++
	}
	return holes
}

func (t *Map2) closeHole(d model.Dart) model.Dart {
	first := t.NewDart()
	t.Sew2(d, first)
	boundary := []model.Dart{first}

	for cur := d; ; {
		// Find the unsewn dart ending where cur starts.
		x := t.phi_1[cur]
		for x != d && t.IsSewn(x) {
			x = t.phi_1[t.phi2[x]]
		}
		if x == d {
			break
		}
		b := t.NewDart()
		t.Sew2(x, b)
		boundary = append(boundary, b)
		cur = x
	}

	t.link(boundary)
	return first
}
