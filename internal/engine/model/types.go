// Package model loads renderable models and exposes the terrain capability
// other objects use to stand on them.
package model

import (
	"errors"

	"github.com/Faultbox/midgard-terrain/internal/engine/renderer"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// ErrClosed is returned when drawing a model after Close.
var ErrClosed = errors.New("model: closed")

// Shape is anything the scene can draw and stand objects on.
type Shape interface {
	Draw(b renderer.Backend) error
	// HeightAt returns the ground height at world (x, z), 0 where there is none.
	HeightAt(x, z float32) float32
	// NormalAt returns the world-space ground normal at (x, z), or the zero
	// vector where there is none.
	NormalAt(x, z float32) math.Vec3
	Transform() *math.Transform
}

// Options describes a model to load.
type Options struct {
	// Mesh is the asset name of an .obj or .glb file.
	Mesh string
	// Texture is an optional image asset name.
	Texture string

	GenerateHeightField bool
	HasTexCoords        bool
	SmoothNormals       bool

	// SampleFactor is the height field resolution in cells per unit.
	SampleFactor int
	// MaxDenseCells caps the dense height field representation.
	MaxDenseCells int

	// ShowBounds draws the bounding box wireframe.
	ShowBounds bool
	Color      [4]float32
}

// DefaultOptions returns options for a textured terrain model.
func DefaultOptions(meshName, textureName string) Options {
	return Options{
		Mesh:                meshName,
		Texture:             textureName,
		GenerateHeightField: true,
		HasTexCoords:        textureName != "",
		SmoothNormals:       true,
		SampleFactor:        10,
		Color:               renderer.White,
	}
}
