package cellmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cellmap"
	"github.com/hupe1980/cellmap/model"
	"github.com/hupe1980/cellmap/testutil"
)

// requirePrecondition asserts that fn panics with a *cellmap.PreconditionError.
func requirePrecondition(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		err, ok := r.(error)
		require.True(t, ok, "expected a precondition panic, got %v", r)
		assert.ErrorIs(t, err, cellmap.ErrPrecondition)
	}()
	fn()
}

// assertRefCounts checks that every live record of orbit is referenced by
// exactly as many darts as its reference count says.
func assertRefCounts(t *testing.T, m *cellmap.Map, orbit model.Orbit) {
	t.Helper()
	counts := make(map[uint32]uint32)
	for d := range m.Darts() {
		if rec := m.Embedding(orbit, d); rec != model.NullRecord {
			require.True(t, m.IsLiveRecord(orbit, rec), "%s points at dead record %d", d, rec)
			counts[rec]++
		}
	}
	for rec := range m.Records(orbit) {
		assert.Equal(t, counts[rec], m.RefCount(orbit, rec), "%s record %d", orbit, rec)
	}
}

func closedTwoTriangles(t *testing.T, optFns ...cellmap.Option) (*testutil.Map2, model.Dart, model.Dart) {
	t.Helper()
	m2 := testutil.NewMap2(optFns...)
	a, b := m2.TwoTriangles()
	require.Equal(t, 1, m2.Close())
	return m2, a, b
}

func closedGrid(t *testing.T, rows, cols int, optFns ...cellmap.Option) (*testutil.Map2, [][]model.Dart) {
	t.Helper()
	m2 := testutil.NewMap2(optFns...)
	quads := m2.Grid(rows, cols)
	require.Equal(t, 1, m2.Close())
	return m2, quads
}

func collect(seq func(func(model.Dart) bool)) []model.Dart {
	var out []model.Dart
	for d := range seq {
		out = append(out, d)
	}
	return out
}
