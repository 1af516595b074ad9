package viewer

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/picking"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

// pickStep is the ray march increment in world units.
const pickStep = 0.25

// placeAt moves the follower to the ground point under the cursor.
func (v *Viewer) placeAt(mouseX, mouseY int) {
	w, h := v.window.GetSize()
	if w <= 0 || h <= 0 {
		return
	}
	proj := v.camera.ProjectionMatrix(w, h)
	inv, ok := proj.Mul(v.camera.ViewMatrix()).Inverse()
	if !ok {
		return
	}
	ray := picking.ScreenToRay(float32(mouseX), float32(mouseY), float32(w), float32(h), inv)

	lo, hi := v.ground.Bounds()
	m := v.ground.Transform().Matrix()
	box := picking.NewAABB(m.TransformPoint(lo), m.TransformPoint(hi))

	p, ok := picking.PickGround(ray, v.ground, box, pickStep)
	if !ok {
		logger.Debug("pick missed", zap.Int("x", mouseX), zap.Int("y", mouseY))
		return
	}
	t := v.cube.Transform()
	from := t.Position
	t.Position.X, t.Position.Z = p.X, p.Z
	logger.Debug("placed follower",
		zap.Float32("x", p.X),
		zap.Float32("z", p.Z),
		zap.Float32("ground", p.Y),
		zap.Float32("moved", from.Distance(t.Position)),
	)
}
