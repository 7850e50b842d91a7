package testutil

import "github.com/hupe1980/cellmap/model"

// TwoTriangles builds two triangles sewn along one edge and returns the two
// darts of that edge. The outer hole is left open; call Close to fill it.
//
// Closed, the map has 4 vertices, 5 edges and 3 faces.
func (t *Map2) TwoTriangles() (a, b model.Dart) {
	a = t.NewFace(3)
	b = t.NewFace(3)
	t.Sew2(a, b)
	return a, b
}

// Grid builds rows x cols quads sewn into a rectangular patch and returns the
// bottom dart of every quad, indexed [row][col]. Each quad's darts are
// bottom, right, top, left in phi1 order.
//
// Closed, the grid has (rows+1)(cols+1) vertices, rows(cols+1)+cols(rows+1)
// edges and rows*cols+1 faces.
func (t *Map2) Grid(rows, cols int) [][]model.Dart {
	quads := make([][]model.Dart, rows)
	for i := range rows {
		quads[i] = make([]model.Dart, cols)
		for j := range cols {
			quads[i][j] = t.NewFace(4)
		}
	}

	for i := range rows {
		for j := range cols {
			bottom := quads[i][j]
			right := t.Phi1(bottom)
			top := t.Phi1(right)
			if j+1 < cols {
				t.Sew2(right, t.PhiMinus1(quads[i][j+1]))
			}
			if i+1 < rows {
				t.Sew2(top, quads[i+1][j])
			}
		}
	}
	return quads
}

// GridCounts returns the vertex, edge and face counts of a closed grid.
func GridCounts(rows, cols int) (vertices, edges, faces int) {
	return (rows + 1) * (cols + 1), rows*(cols+1) + cols*(rows+1), rows*cols + 1
}
