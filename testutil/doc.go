// Package testutil provides testing utilities for cellmap.
//
// This package is intended for use in tests, examples and the cmapstat tool.
// It provides a small oriented 2-map topology and builders for common
// fixtures.
//
// # Topology
//
//	t := testutil.NewMap2()
//	a, b := t.TwoTriangles()   // two triangles sharing the edge (a, b)
//	t.Close()                  // close holes with boundary faces
//	m := t.M                   // the cellmap.Map embedded on t
//
// Map2 implements cellmap.Topology and cellmap.Traversor.
//
// # Random Edits
//
//	rng := testutil.NewRNG(seed)
//	rng.Shuffle(darts)
package testutil
