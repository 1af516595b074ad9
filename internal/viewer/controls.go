package viewer

import (
	"fmt"

	"github.com/Faultbox/midgard-terrain/internal/engine/camera"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Controls is the follower's movement intent for one frame, each axis in
// [-1, 1].
type Controls struct {
	Forward float32
	Right   float32
}

// Apply moves t horizontally by up to dist along the camera's ground-plane
// axes. Diagonal input is normalized so it is no faster than straight input.
// Height is left to the scene.
func (c Controls) Apply(t *math.Transform, cam *camera.OrbitCamera, dist float32) {
	if c.Forward == 0 && c.Right == 0 {
		return
	}
	fx, fz := cam.Forward()
	rx, rz := cam.Right()
	dir := math.Vec2{X: fx, Y: fz}.Scale(c.Forward).
		Add(math.Vec2{X: rx, Y: rz}.Scale(c.Right))
	if l := dir.Length(); l > 1 {
		dir = dir.Scale(1 / l)
	}
	pos := t.Position.XZ().Add(dir.Scale(dist))
	t.Position.X, t.Position.Z = pos.X, pos.Y
}

// statusTitle formats the window title shown while the viewer runs.
func statusTitle(model string, fps int, height float32, onGround bool) string {
	if fps == 0 {
		return "Midgard Terrain - " + model
	}
	state := "airborne"
	if onGround {
		state = "grounded"
	}
	return fmt.Sprintf("Midgard Terrain - %s | %d fps | y=%.2f %s", model, fps, height, state)
}
