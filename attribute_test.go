package cellmap_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cellmap"
	"github.com/hupe1980/cellmap/model"
	"github.com/hupe1980/cellmap/testutil"
)

func TestAddAttributeEnablesEmbedding(t *testing.T) {
	m := testutil.NewMap2().M
	require.False(t, m.IsOrbitEmbedded(model.OrbitVolume))

	h, err := cellmap.AddAttribute[float64](m, model.OrbitVolume, "mass")
	require.NoError(t, err)
	assert.True(t, h.Valid())
	assert.Equal(t, "mass", h.Name())
	assert.Equal(t, model.OrbitVolume, h.Orbit())
	assert.True(t, m.IsOrbitEmbedded(model.OrbitVolume))
	assert.Equal(t, []string{"mass"}, m.AttributeNames(model.OrbitVolume))
}

func TestAddAttributeConflicts(t *testing.T) {
	m := testutil.NewMap2().M
	_, err := cellmap.AddAttribute[float64](m, model.OrbitEdge, "length")
	require.NoError(t, err)

	_, err = cellmap.AddAttribute[float64](m, model.OrbitEdge, "length")
	assert.ErrorIs(t, err, cellmap.ErrAttributeExists)

	_, err = cellmap.AddAttribute[int](m, model.OrbitEdge, "length")
	require.ErrorIs(t, err, cellmap.ErrTypeMismatch)
	var tm *cellmap.TypeMismatchError
	require.True(t, errors.As(err, &tm))
	assert.Equal(t, "length", tm.Name)
	assert.Equal(t, "float64", tm.Existing)
	assert.Equal(t, "int", tm.Requested)

	// Nothing was created by the failed calls.
	assert.Equal(t, []string{"length"}, m.AttributeNames(model.OrbitEdge))

	// The same name on another orbit is a different column.
	_, err = cellmap.AddAttribute[int](m, model.OrbitFace, "length")
	assert.NoError(t, err)

	requirePrecondition(t, func() { _, _ = cellmap.AddAttribute[int](m, model.OrbitFace, "cellmap.mark.0") })
}

func TestGetAttribute(t *testing.T) {
	m2, a, _ := closedTwoTriangles(t)
	m := m2.M

	assert.False(t, cellmap.GetAttribute[float64](m, model.OrbitVertex, "x").Valid())

	h, err := cellmap.AddAttribute[float64](m, model.OrbitVertex, "x")
	require.NoError(t, err)
	m.InitAllOrbitsEmbedding(model.OrbitVertex, false)
	h.Set(a, 1.5)

	g := cellmap.GetAttribute[float64](m, model.OrbitVertex, "x")
	require.True(t, g.Valid())
	assert.Equal(t, 1.5, g.Get(a))

	assert.False(t, cellmap.GetAttribute[int](m, model.OrbitVertex, "x").Valid())
	assert.False(t, cellmap.GetAttribute[model.Mark](m, model.OrbitVertex, "cellmap.mark.0").Valid())
	assert.False(t, cellmap.GetAttribute[float64](m, model.Orbit(42), "x").Valid())

	var zero cellmap.Attribute[float64]
	assert.False(t, zero.Valid())
	assert.Equal(t, "", zero.Name())
	requirePrecondition(t, func() { zero.Get(a) })
}

func TestCheckAttribute(t *testing.T) {
	m := testutil.NewMap2().M

	h1, err := cellmap.CheckAttribute[int](m, model.OrbitFace, "id")
	require.NoError(t, err)
	h2, err := cellmap.CheckAttribute[int](m, model.OrbitFace, "id")
	require.NoError(t, err)
	assert.Equal(t, h1.Name(), h2.Name())
	assert.Equal(t, []string{"id"}, m.AttributeNames(model.OrbitFace))

	_, err = cellmap.CheckAttribute[string](m, model.OrbitFace, "id")
	assert.ErrorIs(t, err, cellmap.ErrTypeMismatch)
}

func TestAttributeValues(t *testing.T) {
	m2, a, b := closedTwoTriangles(t)
	m := m2.M
	h, err := cellmap.AddAttribute[int](m, model.OrbitFace, "color")
	require.NoError(t, err)

	f := m2.NewFace(3)
	assert.Equal(t, 0, h.Get(f), "unembedded cells read as zero")
	requirePrecondition(t, func() { h.Set(f, 1) })
	m2.DeleteFace(f)

	m.InitAllOrbitsEmbedding(model.OrbitFace, false)
	h.SetAllValues(7)
	for d := range m.Darts() {
		assert.Equal(t, 7, h.Get(d))
	}

	h.Set(a, 1)
	*h.Ptr(b) += 10
	assert.Equal(t, 1, h.Get(m2.Phi1(a)))
	assert.Equal(t, 17, h.At(m.Embedding(model.OrbitFace, b)))

	h.SetAt(m.Embedding(model.OrbitFace, b), 3)
	assert.Equal(t, 3, h.Get(b))
}

func TestRemoveAttributeInvalidatesEveryHandle(t *testing.T) {
	m := testutil.NewMap2().M

	h1, err := cellmap.AddAttribute[float32](m, model.OrbitVertex, "x")
	require.NoError(t, err)
	h2 := cellmap.GetAttribute[float32](m, model.OrbitVertex, "x")
	h3 := h1
	other, err := cellmap.AddAttribute[float32](m, model.OrbitVertex, "y")
	require.NoError(t, err)

	require.True(t, cellmap.RemoveAttribute(m, h2))

	assert.False(t, h1.Valid())
	assert.False(t, h2.Valid())
	assert.False(t, h3.Valid())
	assert.True(t, other.Valid())
	assert.Equal(t, []string{"y"}, m.AttributeNames(model.OrbitVertex))

	assert.False(t, cellmap.RemoveAttribute(m, h1))

	// The name can be reused; old handles stay invalid.
	h4, err := cellmap.AddAttribute[int](m, model.OrbitVertex, "x")
	require.NoError(t, err)
	assert.True(t, h4.Valid())
	assert.False(t, h1.Valid())
}

func TestSwapAndCopyAttributes(t *testing.T) {
	m2, a, b := closedTwoTriangles(t)
	m := m2.M
	x, err := cellmap.AddAttribute[float64](m, model.OrbitFace, "x")
	require.NoError(t, err)
	y, err := cellmap.AddAttribute[float64](m, model.OrbitFace, "y")
	require.NoError(t, err)
	m.InitAllOrbitsEmbedding(model.OrbitFace, false)

	x.Set(a, 1)
	x.Set(b, 2)
	y.Set(a, 10)
	y.Set(b, 20)

	require.True(t, cellmap.SwapAttributes(m, x, y))
	assert.Equal(t, 10.0, x.Get(a))
	assert.Equal(t, 2.0, y.Get(b))

	require.True(t, cellmap.CopyAttribute(m, x, y))
	assert.Equal(t, 1.0, x.Get(a))
	assert.Equal(t, 2.0, x.Get(b))

	assert.False(t, cellmap.SwapAttributes(m, x, x))
	assert.False(t, cellmap.CopyAttribute(m, y, cellmap.GetAttribute[float64](m, model.OrbitFace, "y")))

	z, err := cellmap.AddAttribute[float64](m, model.OrbitEdge, "z")
	require.NoError(t, err)
	requirePrecondition(t, func() { cellmap.SwapAttributes(m, x, z) })
	requirePrecondition(t, func() { cellmap.CopyAttribute(m, x, cellmap.Attribute[float64]{}) })
}

func TestComputeIndexCells(t *testing.T) {
	m2, _, _ := closedTwoTriangles(t)
	m := m2.M

	_, err := cellmap.AddAttribute[float32](m, model.OrbitVertex, "x")
	require.NoError(t, err)
	m.InitAllOrbitsEmbedding(model.OrbitVertex, false)
	require.Equal(t, 4, m.NbCells(model.OrbitVertex))

	idx, err := cellmap.AddAttribute[uint32](m, model.OrbitVertex, "idx")
	require.NoError(t, err)

	n := m.ComputeIndexCells(idx)
	assert.Equal(t, uint32(4), n)

	var got []uint32
	for rec := range m.Records(model.OrbitVertex) {
		got = append(got, idx.At(rec))
	}
	assert.ElementsMatch(t, []uint32{0, 1, 2, 3}, got)
}
