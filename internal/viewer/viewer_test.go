package viewer

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-terrain/internal/engine/camera"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

func TestControlsApply(t *testing.T) {
	tests := []struct {
		name     string
		controls Controls
		yaw      float32
		want     math.Vec3
	}{
		{"idle", Controls{}, 0, math.Vec3{}},
		{"forward", Controls{Forward: 1}, 0, math.Vec3{Z: -2}},
		{"back", Controls{Forward: -1}, 0, math.Vec3{Z: 2}},
		{"right", Controls{Right: 1}, 0, math.Vec3{X: 2}},
		{"forward after quarter turn", Controls{Forward: 1}, math32.Pi / 2, math.Vec3{X: -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := camera.NewOrbitCamera()
			cam.RotationY = tt.yaw
			tr := math.NewTransform()
			tr.Position.Y = 7

			tt.controls.Apply(&tr, cam, 2)

			want := tt.want
			want.Y = 7
			if !tr.Position.ApproxEqual(want, 1e-5) {
				t.Errorf("Position = %v, want %v", tr.Position, want)
			}
		})
	}
}

func TestControlsDiagonalNormalized(t *testing.T) {
	cam := camera.NewOrbitCamera()
	cam.RotationY = 0
	tr := math.NewTransform()

	Controls{Forward: 1, Right: 1}.Apply(&tr, cam, 1)

	if d := tr.Position.XZ().Length(); math32.Abs(d-1) > 1e-5 {
		t.Errorf("diagonal distance = %v, want 1", d)
	}
}

func TestStatusTitle(t *testing.T) {
	tests := []struct {
		name     string
		fps      int
		height   float32
		onGround bool
		want     string
	}{
		{"startup", 0, 0, false, "Midgard Terrain - hill.obj"},
		{"grounded", 60, 1.5, true, "Midgard Terrain - hill.obj | 60 fps | y=1.50 grounded"},
		{"airborne", 30, -2, false, "Midgard Terrain - hill.obj | 30 fps | y=-2.00 airborne"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusTitle("hill.obj", tt.fps, tt.height, tt.onGround); got != tt.want {
				t.Errorf("statusTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
