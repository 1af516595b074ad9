package picking

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

func TestScreenToRayCenter(t *testing.T) {
	eye := math.Vec3{X: 0, Y: 10, Z: 0}
	view := math.LookAt(eye, math.Vec3{}, math.Vec3{Z: -1})
	proj := math.Perspective(math32.Pi/4, 1, 0.1, 100)
	inv, ok := proj.Mul(view).Inverse()
	if !ok {
		t.Fatal("singular view-projection")
	}

	r := ScreenToRay(50, 50, 100, 100, inv)
	if !r.Direction.ApproxEqual(math.Vec3{Y: -1}, 1e-4) {
		t.Errorf("Direction = %v, want straight down", r.Direction)
	}
	x, z, ok := r.IntersectPlaneY(0)
	if !ok || math32.Abs(x) > 1e-3 || math32.Abs(z) > 1e-3 {
		t.Errorf("IntersectPlaneY(0) = %v, %v, %v; want origin", x, z, ok)
	}
}

func TestIntersectPlaneY(t *testing.T) {
	up := Ray{Origin: math.Vec3{Y: 1}, Direction: math.Vec3{Y: 1}}
	if _, _, ok := up.IntersectPlaneY(0); ok {
		t.Error("plane behind the ray should not intersect")
	}
	flat := Ray{Origin: math.Vec3{Y: 1}, Direction: math.Vec3{X: 1}}
	if _, _, ok := flat.IntersectPlaneY(0); ok {
		t.Error("parallel ray should not intersect")
	}
}

func TestIntersectAABB(t *testing.T) {
	box := NewAABB(math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: -1, Y: -1, Z: -1})

	tests := []struct {
		name  string
		ray   Ray
		wantT float32
		hit   bool
	}{
		{"outside", Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: -1}}, 4, true},
		{"inside", Ray{Origin: math.Vec3{}, Direction: math.Vec3{X: 1}}, 1, true},
		{"miss", Ray{Origin: math.Vec3{Y: 5, Z: 5}, Direction: math.Vec3{Z: -1}}, 0, false},
		{"away", Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: 1}}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectAABB(box)
			if hit != tt.hit || math32.Abs(got-tt.wantT) > 1e-5 {
				t.Errorf("IntersectAABB() = %v, %v; want %v, %v", got, hit, tt.wantT, tt.hit)
			}
		})
	}
}

// slope rises one unit per unit of x over [0, 10] and has no data elsewhere.
type slope struct{}

func (slope) HeightAt(x, z float32) float32 {
	if x < 0 || x > 10 || z < 0 || z > 10 {
		return 0
	}
	return x
}

func (slope) NormalAt(x, z float32) math.Vec3 {
	if x < 0 || x > 10 || z < 0 || z > 10 {
		return math.Vec3{}
	}
	return math.Vec3{X: -1, Y: 1}.Normalize()
}

func TestPickGround(t *testing.T) {
	box := NewAABB(math.Vec3{}, math.Vec3{X: 10, Y: 10, Z: 10})

	// Straight down onto x = 4: the surface is at y = 4.
	r := Ray{Origin: math.Vec3{X: 4, Y: 20, Z: 5}, Direction: math.Vec3{Y: -1}}
	p, ok := PickGround(r, slope{}, box, 0.5)
	if !ok {
		t.Fatal("PickGround() missed")
	}
	if !p.ApproxEqual(math.Vec3{X: 4, Y: 4, Z: 5}, 1e-3) {
		t.Errorf("PickGround() = %v, want (4, 4, 5)", p)
	}

	// A level ray above the slope's top never crosses it.
	r = Ray{Origin: math.Vec3{X: -5, Y: 10.5, Z: 5}, Direction: math.Vec3{X: 1}}
	if _, ok := PickGround(r, slope{}, box, 0.5); ok {
		t.Error("ray above the surface should miss")
	}

	// Falling outside the ground's data never hits.
	r = Ray{Origin: math.Vec3{X: 20, Y: 20, Z: 20}, Direction: math.Vec3{Y: -1}}
	if _, ok := PickGround(r, slope{}, box, 0.5); ok {
		t.Error("ray outside the box should miss")
	}

	if _, ok := PickGround(r, slope{}, box, 0); ok {
		t.Error("zero step should miss")
	}
}

func TestPickGroundShallowRay(t *testing.T) {
	box := NewAABB(math.Vec3{}, math.Vec3{X: 10, Y: 10, Z: 10})
	dir := math.Vec3{X: 1, Y: -0.25}.Normalize()
	r := Ray{Origin: math.Vec3{X: 0, Y: 5, Z: 2}, Direction: dir}

	// y = 5 - x/4 meets y = x at x = 4.
	p, ok := PickGround(r, slope{}, box, 1)
	if !ok {
		t.Fatal("PickGround() missed")
	}
	if math32.Abs(p.X-4) > 0.01 || math32.Abs(p.Y-p.X) > 1e-5 {
		t.Errorf("PickGround() = %v, want x = y = 4", p)
	}
}
