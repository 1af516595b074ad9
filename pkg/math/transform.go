package math

// Transform places an object in the world. Rotation holds Euler angles in
// radians, applied about X, then Y, then Z.
type Transform struct {
	Position Vec3
	Rotation Vec3
	Scale    Vec3
}

// NewTransform returns a transform at the origin with unit scale.
func NewTransform() Transform {
	return Transform{Scale: Vec3{X: 1, Y: 1, Z: 1}}
}

// Matrix returns the model matrix T * R * S.
func (t Transform) Matrix() Mat4 {
	return TRS(t.Position, t.Rotation, t.Scale)
}
