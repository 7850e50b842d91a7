package cellmap_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cellmap"
	"github.com/hupe1980/cellmap/model"
	"github.com/hupe1980/cellmap/testutil"
)

func TestBasicMetricsCollector(t *testing.T) {
	metrics := &cellmap.BasicMetricsCollector{}
	m2, _ := closedGrid(t, 2, 2, cellmap.WithMetricsCollector(metrics))
	m := m2.M

	m.InitAllOrbitsEmbedding(model.OrbitVertex, false)
	m.EnableQuickTraversal(model.OrbitVertex)
	require.NoError(t, m.Check())

	stats := metrics.GetStats()
	assert.Equal(t, int64(9), stats.CellsCreated)
	assert.Equal(t, int64(0), stats.CellsReleased)
	assert.Equal(t, int64(1), stats.CacheRebuilds)
	assert.Equal(t, int64(9), stats.CacheCells)
	assert.Equal(t, int64(1), stats.Checks)
	assert.Equal(t, int64(0), stats.CheckViolations)
	assert.Equal(t, int64(9), metrics.LiveRecords(model.OrbitVertex))
	assert.Equal(t, int64(0), metrics.LiveRecords(model.OrbitFace))
}

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	pc, err := cellmap.NewPrometheusCollector(reg, "cellmap")
	require.NoError(t, err)

	m2, a, _ := closedTwoTriangles(t, cellmap.WithMetricsCollector(pc))
	m := m2.M
	m.InitAllOrbitsEmbedding(model.OrbitFace, false)
	m.SetOrbitEmbedding(model.OrbitFace, a, model.NullRecord)
	m.EnableQuickIncidentTraversal(model.OrbitFace, model.OrbitEdge)
	require.NoError(t, m.Check())

	created, err := pc.CellsCreated(model.OrbitFace)
	require.NoError(t, err)
	assert.Equal(t, 3.0, promtest.ToFloat64(created))

	released, err := pc.CellsReleased(model.OrbitFace)
	require.NoError(t, err)
	assert.Equal(t, 1.0, promtest.ToFloat64(released))

	expected := `
# HELP cellmap_checks_total Consistency checks run.
# TYPE cellmap_checks_total counter
cellmap_checks_total 1
# HELP cellmap_quick_traversal_rebuilds_total Quick traversal cache rebuilds, by kind and orbit.
# TYPE cellmap_quick_traversal_rebuilds_total counter
cellmap_quick_traversal_rebuilds_total{kind="incident",orbit="face"} 1
`
	assert.NoError(t, promtest.GatherAndCompare(reg, strings.NewReader(expected),
		"cellmap_checks_total", "cellmap_quick_traversal_rebuilds_total"))

	// A second collector cannot register the same metrics.
	_, err = cellmap.NewPrometheusCollector(reg, "cellmap")
	assert.Error(t, err)
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := cellmap.NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	id := uuid.MustParse("6f1c2a4e-8d1b-4c55-9e0a-3b7f2d9c1e44")

	m2 := testutil.NewMap2(cellmap.WithLogger(logger), cellmap.WithID(id))
	m := m2.M
	assert.Equal(t, id, m.ID())

	_, err := cellmap.AddAttribute[int](m, model.OrbitFace, "w")
	require.NoError(t, err)
	_, err = cellmap.AddAttribute[string](m, model.OrbitFace, "w")
	require.Error(t, err)

	m2.NewFace(3)
	m.EnableQuickTraversal(model.OrbitVertex)

	out := buf.String()
	rebuilt := false
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, `"msg":"quick traversal rebuilt"`) {
			rebuilt = true
			assert.Contains(t, line, `"orbit":"vertex"`)
			assert.Contains(t, line, `"kind":"representative"`)
			assert.Contains(t, line, `"map_id":"6f1c2a4e-8d1b-4c55-9e0a-3b7f2d9c1e44"`)
		}
	}
	assert.True(t, rebuilt)
	assert.Contains(t, out, `"map_id":"6f1c2a4e-8d1b-4c55-9e0a-3b7f2d9c1e44"`)
	assert.Contains(t, out, `"msg":"attribute add"`)
	assert.Contains(t, out, `"msg":"attribute add failed"`)
	assert.Contains(t, out, `"name":"w"`)
	assert.Contains(t, out, `"orbit":"face"`)
}

func TestDefaultOptions(t *testing.T) {
	m := testutil.NewMap2().M
	assert.NotEqual(t, uuid.Nil, m.ID())
	assert.Equal(t, 1, m.NbThreads())
	assert.Equal(t, 2, m.Dimension())
	assert.NotNil(t, m.Logger())

	m = testutil.NewMap2(cellmap.WithThreads(0), cellmap.WithLogger(nil), cellmap.WithMetricsCollector(nil), nil).M
	assert.Equal(t, 1, m.NbThreads())
	require.NoError(t, m.Check())
}
