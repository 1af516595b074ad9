// Package renderer defines the rendering backend the engine draws through and
// provides an OpenGL implementation and an in-memory recorder.
package renderer

import (
	"errors"
	"image"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Vertex attribute slots shared by every mesh.
const (
	SlotPosition uint32 = 0
	SlotTexCoord uint32 = 1
	SlotNormal   uint32 = 2
)

// ErrEmptyMesh is returned when a mesh or line set has no vertices.
var ErrEmptyMesh = errors.New("renderer: empty vertex data")

// MeshHandle identifies an uploaded mesh or line set. Zero is never valid.
type MeshHandle uint32

// TextureHandle identifies an uploaded texture. Zero means "untextured".
type TextureHandle uint32

// VertexAttrib is one tightly packed float attribute stream.
type VertexAttrib struct {
	Slot       uint32
	Components int32
	Data       []float32
}

// DrawParams carries per-draw state.
type DrawParams struct {
	Model   math.Mat4
	Texture TextureHandle
	Color   [4]float32 // multiplies the texture; lines use it directly
}

// Backend uploads geometry and textures and issues draws.
type Backend interface {
	CreateMesh(attribs []VertexAttrib, indices []uint16) (MeshHandle, error)
	// CreateLines uploads xyz line-segment pairs.
	CreateLines(vertices []float32) (MeshHandle, error)
	CreateTexture(img *image.RGBA) (TextureHandle, error)
	DrawMesh(h MeshHandle, p DrawParams)
	DrawLines(h MeshHandle, p DrawParams)
	DeleteMesh(h MeshHandle)
	DeleteTexture(h TextureHandle)
}

// White is the neutral draw color.
var White = [4]float32{1, 1, 1, 1}
