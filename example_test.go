package cellmap_test

import (
	"fmt"
	"log"

	"github.com/hupe1980/cellmap"
	"github.com/hupe1980/cellmap/model"
	"github.com/hupe1980/cellmap/testutil"
)

// Example_vertexAttribute attaches a value to every vertex of a closed triangle.
func Example_vertexAttribute() {
	t := testutil.NewMap2()
	d := t.NewFace(3)
	t.Close()
	m := t.M

	height, err := cellmap.AddAttribute[float64](m, model.OrbitVertex, "height")
	if err != nil {
		log.Fatal(err)
	}
	m.InitAllOrbitsEmbedding(model.OrbitVertex, false)
	height.SetAllValues(1)
	height.Set(d, 2.5)

	fmt.Println(m.NbDarts(), m.NbCells(model.OrbitVertex), height.Get(d), height.Get(t.Phi1(d)))
	// Output: 6 3 2.5 1
}

// Example_quickIncidentTraversal caches the vertices of every face of a grid.
func Example_quickIncidentTraversal() {
	t := testutil.NewMap2()
	quads := t.Grid(2, 2)
	t.Close()
	m := t.M

	m.InitAllOrbitsEmbedding(model.OrbitFace, false)
	m.EnableQuickIncidentTraversal(model.OrbitFace, model.OrbitVertex)

	n := 0
	for range m.Incident(model.OrbitFace, model.OrbitVertex, quads[0][0]) {
		n++
	}
	fmt.Println(m.NbCells(model.OrbitFace), n)
	// Output: 5 4
}

// Example_check reports a record nobody references.
func Example_check() {
	t := testutil.NewMap2()
	t.TwoTriangles()
	t.Close()
	m := t.M

	m.InitAllOrbitsEmbedding(model.OrbitFace, false)
	fmt.Println(m.Check() == nil)

	m.NewCell(model.OrbitFace)
	fmt.Println(m.Check() == nil)
	// Output:
	// true
	// false
}
