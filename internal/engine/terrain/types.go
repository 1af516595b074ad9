// Package terrain derives a quantized height field from a triangle mesh and
// answers "ground height and normal at (x, z)" queries against it.
package terrain

import (
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// DefaultMaxDenseCells is the largest grid rectangle stored as a dense slice.
// Larger rectangles fall back to a sparse map.
const DefaultMaxDenseCells = 2048 * 2048

// HeightSample is the surface data of one cell.
type HeightSample struct {
	Height float32
	Normal math.Vec3 // not renormalized after interpolation
	Exact  bool      // taken from a mesh vertex rather than interpolated
}

// Cell is an integer grid coordinate on the horizontal plane.
type Cell struct {
	X, Z int
}

// CellAt quantizes a local (x, z) position.
func CellAt(x, z float32, factor int) Cell {
	return Cell{X: math.Quantize(x, factor), Z: math.Quantize(z, factor)}
}

func lerpSample(a, b HeightSample, t float32) HeightSample {
	return HeightSample{
		Height: a.Height + (b.Height-a.Height)*t,
		Normal: a.Normal.Lerp(b.Normal, t),
	}
}
