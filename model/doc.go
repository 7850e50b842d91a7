// Package model defines the identity types shared by every cellmap package.
//
// # Identity Types
//
//   - Dart: dense index of an atomic oriented topological element (uint32)
//   - Orbit: closed tag set naming a cell kind (vertex, edge, face, ...)
//   - Mark: one bit of a per-line mark word
//
// # Sentinels
//
//   - NilDart terminates cached dart lists and marks "no dart"
//   - NullRecord is the embedding of a dart whose cell has no data yet
package model
