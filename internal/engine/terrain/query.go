package terrain

import (
	"sync/atomic"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// ScaleEpsilon replaces zero scale components used as divisors.
const ScaleEpsilon float32 = 1e-6

// Height returns the ground height at world (x, z) for an object placed with
// t, or 0 where the field has no data.
func (f *HeightField) Height(x, z float32, t math.Transform) float32 {
	s, _ := f.Sample(x, z, t)
	return s.Height
}

// Normal returns the world-space surface normal at (x, z), or the zero vector
// where the field has no data.
func (f *HeightField) Normal(x, z float32, t math.Transform) math.Vec3 {
	s, _ := f.Sample(x, z, t)
	return s.Normal
}

// Sample looks up the cell under world (x, z). The position of t is not
// applied; its scale maps (x, z) into local space and scales the result, and
// its rotation turns the normal into world space.
func (f *HeightField) Sample(x, z float32, t math.Transform) (HeightSample, bool) {
	div := math.Vec3{
		X: f.guard(t.Scale.X, &f.warnedX, "x"),
		Y: f.guard(t.Scale.Y, &f.warnedY, "y"),
		Z: f.guard(t.Scale.Z, &f.warnedZ, "z"),
	}

	c, ok := f.cellAt(x/div.X, z/div.Z)
	if !ok {
		return HeightSample{}, false
	}
	s, ok := f.cells.get(c)
	if !ok {
		return HeightSample{}, false
	}

	s.Height *= t.Scale.Y
	s.Normal = math.RotateXYZ(t.Rotation).TransformDirection(s.Normal.Div(div))
	return s, true
}

// cellAt quantizes a local position, rejecting NaN and anything outside the
// field rectangle before it is converted to an integer.
func (f *HeightField) cellAt(x, z float32) (Cell, bool) {
	cx := math32.Floor(x * float32(f.factor))
	cz := math32.Floor(z * float32(f.factor))
	if !(float64(cx) >= float64(f.minCell.X) && float64(cx) <= float64(f.maxCell.X)) ||
		!(float64(cz) >= float64(f.minCell.Z) && float64(cz) <= float64(f.maxCell.Z)) {
		return Cell{}, false
	}
	return Cell{X: int(cx), Z: int(cz)}, true
}

// guard substitutes ScaleEpsilon for a zero scale component and warns once
// per field and axis.
func (f *HeightField) guard(v float32, warned *atomic.Bool, axis string) float32 {
	if v != 0 {
		return v
	}
	if warned.CompareAndSwap(false, true) {
		logger.Warn("degenerate terrain scale, substituting epsilon",
			zap.String("axis", axis),
			zap.Float32("epsilon", ScaleEpsilon))
	}
	return ScaleEpsilon
}
