package picking

import (
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Ground answers height queries. A zero normal means no data at (x, z).
type Ground interface {
	HeightAt(x, z float32) float32
	NormalAt(x, z float32) math.Vec3
}

const refineSteps = 12

// PickGround marches r through box in increments of step and returns the
// first point where the ray passes below the ground surface. The crossing is
// refined by bisection; the returned Y is the ground height there.
func PickGround(r Ray, g Ground, box AABB, step float32) (math.Vec3, bool) {
	if step <= 0 {
		return math.Vec3{}, false
	}
	tEnter, tExit, hit := r.Span(box)
	if !hit {
		return math.Vec3{}, false
	}

	prev := tEnter
	for t := tEnter; ; t += step {
		if t > tExit {
			t = tExit
		}
		if below(r.At(t), g) {
			hitT := refine(r, g, prev, t)
			p := r.At(hitT)
			p.Y = g.HeightAt(p.X, p.Z)
			return p, true
		}
		if t == tExit {
			return math.Vec3{}, false
		}
		prev = t
	}
}

func below(p math.Vec3, g Ground) bool {
	if g.NormalAt(p.X, p.Z) == (math.Vec3{}) {
		return false
	}
	return p.Y <= g.HeightAt(p.X, p.Z)
}

// refine narrows [lo, hi], lo above ground and hi below, to the crossing.
func refine(r Ray, g Ground, lo, hi float32) float32 {
	for range refineSteps {
		mid := (lo + hi) / 2
		if below(r.At(mid), g) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi
}
