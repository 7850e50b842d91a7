package testutil

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cellmap/model"
)

func TestPolygonClose(t *testing.T) {
	m2 := NewMap2()
	d := m2.NewFace(5)

	assert.Equal(t, 1, m2.Close())
	assert.Equal(t, 10, m2.M.NbDarts())
	assert.Equal(t, 5, m2.M.NbOrbits(model.OrbitVertex))
	assert.Equal(t, 5, m2.M.NbOrbits(model.OrbitEdge))
	assert.Equal(t, 2, m2.M.NbOrbits(model.OrbitFace))
	assert.Equal(t, 1, m2.M.NbOrbits(model.OrbitVolume))

	for x := range m2.M.Darts() {
		assert.True(t, m2.IsSewn(x))
		assert.Equal(t, x, m2.PhiMinus1(m2.Phi1(x)))
	}
	assert.False(t, m2.M.IsBoundaryMarked(2, d))
	assert.True(t, m2.M.IsBoundaryMarked(2, m2.Phi2(d)))
}

func TestTwoTrianglesCounts(t *testing.T) {
	m2 := NewMap2()
	a, b := m2.TwoTriangles()
	require.Equal(t, 1, m2.Close())

	assert.Equal(t, 10, m2.M.NbDarts())
	assert.Equal(t, 4, m2.M.NbOrbits(model.OrbitVertex))
	assert.Equal(t, 5, m2.M.NbOrbits(model.OrbitEdge))
	assert.Equal(t, 3, m2.M.NbOrbits(model.OrbitFace))
	assert.Equal(t, b, m2.Phi2(a))
}

func TestGridCounts(t *testing.T) {
	tests := []struct {
		rows, cols int
	}{
		{1, 1},
		{2, 3},
		{4, 4},
	}

	for _, tt := range tests {
		m2 := NewMap2()
		m2.Grid(tt.rows, tt.cols)
		require.Equal(t, 1, m2.Close())

		v, e, f := GridCounts(tt.rows, tt.cols)
		assert.Equal(t, v, m2.M.NbOrbits(model.OrbitVertex), "%dx%d vertices", tt.rows, tt.cols)
		assert.Equal(t, e, m2.M.NbOrbits(model.OrbitEdge), "%dx%d edges", tt.rows, tt.cols)
		assert.Equal(t, f, m2.M.NbOrbits(model.OrbitFace), "%dx%d faces", tt.rows, tt.cols)
	}
}

func TestOrbitDartsMatchesMarkerEnumeration(t *testing.T) {
	m2 := NewMap2()
	m2.Grid(2, 2)
	m2.Close()

	for _, orbit := range model.Orbits {
		for d := range m2.M.Darts() {
			var viaMarker []model.Dart
			m2.ForEachDartOfOrbit(orbit, d, 0, func(x model.Dart) bool {
				viaMarker = append(viaMarker, x)
				return true
			})
			plain := m2.OrbitDarts(orbit, d)
			slices.Sort(viaMarker)
			slices.Sort(plain)
			assert.Equal(t, plain, viaMarker, "%s of %s", orbit, d)
		}
	}
}

func TestIncidentAndAdjacent(t *testing.T) {
	m2 := NewMap2()
	quads := m2.Grid(3, 3)
	m2.Close()

	center := quads[1][1]
	assert.Equal(t, 4, count(m2.Incident(center, 2, model.OrbitFace, model.OrbitVertex)))
	assert.Equal(t, 4, count(m2.Incident(center, 2, model.OrbitFace, model.OrbitEdge)))
	assert.Equal(t, 4, count(m2.Adjacent(center, 2, model.OrbitFace, model.OrbitEdge)))
	// Through vertices the center quad touches its 8 neighbors.
	assert.Equal(t, 8, count(m2.Adjacent(center, 2, model.OrbitFace, model.OrbitVertex)))

	// An inner vertex has four edges.
	assert.Equal(t, 4, count(m2.Incident(m2.Phi1(m2.Phi1(center)), 2, model.OrbitVertex, model.OrbitEdge)))
}

func TestDeleteFaceReusesDarts(t *testing.T) {
	m2 := NewMap2()
	a, _ := m2.TwoTriangles()
	m2.DeleteFace(a)

	assert.Equal(t, 3, m2.M.NbDarts())
	d := m2.NewDart()
	assert.Equal(t, model.Dart(0), d)
	assert.False(t, m2.IsSewn(d))
}

func TestRNGDeterministic(t *testing.T) {
	r1 := NewRNG(4711)
	r2 := NewRNG(4711)
	assert.Equal(t, r1.Records(16, 8, 0.25), r2.Records(16, 8, 0.25))

	for _, rec := range r1.Records(64, 8, 0) {
		assert.Less(t, rec, uint32(8))
	}

	darts := []model.Dart{0, 1, 2, 3, 4}
	r1.Shuffle(darts)
	assert.ElementsMatch(t, []model.Dart{0, 1, 2, 3, 4}, darts)
}

func count(seq func(func(model.Dart) bool)) int {
	n := 0
	for range seq {
		n++
	}
	return n
}
