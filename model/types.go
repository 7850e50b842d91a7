package model

import (
	"fmt"
	"math"
)

// Dart is the dense index of a dart.
// It doubles as the line index of the dart in the DART record store.
type Dart uint32

// NilDart is the "no dart" sentinel.
const NilDart Dart = math.MaxUint32

// NullRecord is the embedding of a dart that has no cell data attached.
const NullRecord uint32 = math.MaxUint32

// Index returns the dart as a line index.
func (d Dart) Index() uint32 { return uint32(d) }

// IsNil reports whether d is the NilDart sentinel.
func (d Dart) IsNil() bool { return d == NilDart }

// String returns a string representation of the dart.
func (d Dart) String() string {
	if d == NilDart {
		return "Dart(nil)"
	}
	return fmt.Sprintf("Dart(%d)", uint32(d))
}

// Orbit identifies a cell kind together with its dimensionality context.
type Orbit uint8

const (
	OrbitDart    Orbit = iota // the dart itself
	OrbitVertex               // vertex of the whole map
	OrbitEdge                 // edge of the whole map
	OrbitFace                 // face of the whole map
	OrbitVolume               // volume (connected component in a 2-map)
	OrbitVertex1              // vertex of the 1-map (one dart)
	OrbitEdge1                // edge of the 1-map (one dart)
	OrbitVertex2              // vertex of the 2-map
	OrbitEdge2                // edge of the 2-map
	OrbitFace2                // face of the 2-map

	// NumOrbits is the size of the closed orbit set.
	NumOrbits = 10
)

// Orbits lists every orbit kind in tag order.
var Orbits = [NumOrbits]Orbit{
	OrbitDart, OrbitVertex, OrbitEdge, OrbitFace, OrbitVolume,
	OrbitVertex1, OrbitEdge1, OrbitVertex2, OrbitEdge2, OrbitFace2,
}

// Valid reports whether o belongs to the closed orbit set.
func (o Orbit) Valid() bool { return o < NumOrbits }

func (o Orbit) String() string {
	switch o {
	case OrbitDart:
		return "dart"
	case OrbitVertex:
		return "vertex"
	case OrbitEdge:
		return "edge"
	case OrbitFace:
		return "face"
	case OrbitVolume:
		return "volume"
	case OrbitVertex1:
		return "vertex1"
	case OrbitEdge1:
		return "edge1"
	case OrbitVertex2:
		return "vertex2"
	case OrbitEdge2:
		return "edge2"
	case OrbitFace2:
		return "face2"
	default:
		return fmt.Sprintf("orbit(%d)", uint8(o))
	}
}

// ParseOrbit returns the orbit named s.
func ParseOrbit(s string) (Orbit, error) {
	for _, o := range Orbits {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown orbit %q", s)
}

// Mark is a set of bits of a per-line mark word.
// Allocated marks carry exactly one bit.
type Mark uint32

// MarkBits is the number of distinct marks per mark word.
const MarkBits = 32

// IsZero reports whether no bit is set.
func (m Mark) IsZero() bool { return m == 0 }
