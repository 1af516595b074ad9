package model

import (
	"fmt"

	"github.com/Faultbox/midgard-terrain/internal/engine/renderer"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// FlatShape is an untextured shape with no terrain of its own.
type FlatShape struct {
	transform math.Transform
	backend   renderer.Backend
	mesh      renderer.MeshHandle
	Color     [4]float32
}

// NewCube uploads an axis-aligned cube with edge length size, resting on
// y = 0 and centered on the y axis.
func NewCube(backend renderer.Backend, size float32, color [4]float32) (*FlatShape, error) {
	h := size / 2
	// Per face: normal, then four corners counter-clockwise seen from outside.
	faces := []struct {
		n       math.Vec3
		corners [4]math.Vec3
	}{
		{math.Vec3{Y: 1}, [4]math.Vec3{{X: -h, Y: size, Z: -h}, {X: -h, Y: size, Z: h}, {X: h, Y: size, Z: h}, {X: h, Y: size, Z: -h}}},
		{math.Vec3{Y: -1}, [4]math.Vec3{{X: -h, Z: -h}, {X: h, Z: -h}, {X: h, Z: h}, {X: -h, Z: h}}},
		{math.Vec3{X: 1}, [4]math.Vec3{{X: h, Z: -h}, {X: h, Y: size, Z: -h}, {X: h, Y: size, Z: h}, {X: h, Z: h}}},
		{math.Vec3{X: -1}, [4]math.Vec3{{X: -h, Z: -h}, {X: -h, Z: h}, {X: -h, Y: size, Z: h}, {X: -h, Y: size, Z: -h}}},
		{math.Vec3{Z: 1}, [4]math.Vec3{{X: -h, Z: h}, {X: h, Z: h}, {X: h, Y: size, Z: h}, {X: -h, Y: size, Z: h}}},
		{math.Vec3{Z: -1}, [4]math.Vec3{{X: -h, Z: -h}, {X: -h, Y: size, Z: -h}, {X: h, Y: size, Z: -h}, {X: h, Z: -h}}},
	}

	var pos, nrm []float32
	var idx []uint16
	for _, f := range faces {
		base := uint16(len(pos) / 3)
		for _, c := range f.corners {
			pos = append(pos, c.X, c.Y, c.Z)
			nrm = append(nrm, f.n.X, f.n.Y, f.n.Z)
		}
		idx = append(idx, base, base+1, base+2, base, base+2, base+3)
	}

	handle, err := backend.CreateMesh([]renderer.VertexAttrib{
		{Slot: renderer.SlotPosition, Components: 3, Data: pos},
		{Slot: renderer.SlotNormal, Components: 3, Data: nrm},
	}, idx)
	if err != nil {
		return nil, fmt.Errorf("cube: %w", err)
	}

	return &FlatShape{
		transform: math.NewTransform(),
		backend:   backend,
		mesh:      handle,
		Color:     color,
	}, nil
}

// Draw implements Shape.
func (s *FlatShape) Draw(b renderer.Backend) error {
	if s.mesh == 0 {
		return ErrClosed
	}
	b.DrawMesh(s.mesh, renderer.DrawParams{Model: s.transform.Matrix(), Color: s.Color})
	return nil
}

// HeightAt implements Shape. A flat shape has no ground.
func (s *FlatShape) HeightAt(x, z float32) float32 { return 0 }

// NormalAt implements Shape.
func (s *FlatShape) NormalAt(x, z float32) math.Vec3 { return math.Vec3{} }

// Transform implements Shape.
func (s *FlatShape) Transform() *math.Transform {
	return &s.transform
}

// Close releases the GPU mesh.
func (s *FlatShape) Close() {
	if s.mesh != 0 {
		s.backend.DeleteMesh(s.mesh)
		s.mesh = 0
	}
}
