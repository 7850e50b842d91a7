package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/cellmap/testutil"
)

func gridConfig(rows, cols int, quick bool, output string) config {
	return config{
		fixture: "grid",
		build:   func(t *testutil.Map2) { t.Grid(rows, cols) },
		threads: 3,
		quick:   quick,
		output:  output,
	}
}

func TestGridReportYAML(t *testing.T) {
	for _, quick := range []bool{false, true} {
		var buf bytes.Buffer
		require.NoError(t, run(&buf, gridConfig(2, 3, quick, "yaml")))

		var r Report
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &r))

		v, e, f := testutil.GridCounts(2, 3)
		assert.True(t, r.Consistent)
		assert.Equal(t, 10, r.BoundaryDarts)
		require.Len(t, r.Orbits, 4)
		assert.Equal(t, OrbitReport{Orbit: "vertex", Cells: v, Records: v, MinDegree: 2, MaxDegree: 4}, r.Orbits[0])
		assert.Equal(t, OrbitReport{Orbit: "edge", Cells: e, Records: e, MinDegree: 2, MaxDegree: 2}, r.Orbits[1])
		assert.Equal(t, OrbitReport{Orbit: "face", Cells: f, Records: f, MinDegree: 4, MaxDegree: 10}, r.Orbits[2])
		assert.Equal(t, OrbitReport{Orbit: "volume", Cells: 1, Records: 1, MinDegree: f, MaxDegree: f}, r.Orbits[3])
		assert.Equal(t, int64(v+e+f+1), r.Metrics.CellsCreated)
		assert.Equal(t, int64(1), r.Metrics.Checks)
	}
}

func TestPolygonReportTable(t *testing.T) {
	var buf bytes.Buffer
	cfg := config{
		fixture: "polygon 5",
		build:   func(t *testutil.Map2) { t.NewFace(5) },
		threads: 1,
		output:  "table",
	}
	require.NoError(t, run(&buf, cfg))

	out := buf.String()
	assert.Contains(t, out, "polygon 5 (10 darts, 5 on the boundary)")
	assert.Contains(t, out, "ORBIT")
	assert.Regexp(t, `\| vertex +\| +5 +\| +5 +\|`, out)
	assert.Contains(t, out, "consistent")
}

func TestUnknownOutput(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, run(&buf, gridConfig(1, 1, false, "json")))
}

func TestGridCommandRejectsEmptyGrid(t *testing.T) {
	rootCmd.SetArgs([]string{"grid", "--rows", "0"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	assert.Error(t, rootCmd.Execute())
}
