// Package mesh parses triangulated surface meshes (OBJ, binary glTF) into
// 1-indexed attribute sequences plus an axis-aligned bounding box.
package mesh

import (
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Corner references one position, texcoord and normal of a triangle corner.
// A zero component means the attribute is absent; index 0 of every sequence is
// a placeholder so that source indices keep their 1-based meaning.
type Corner struct {
	Position int
	TexCoord int
	Normal   int
}

// Triangle is three corners in source winding order.
type Triangle [3]Corner

// Mesh holds parsed geometry. Positions, Normals and TexCoords all start with a
// zero sentinel at index 0.
type Mesh struct {
	Name      string
	Positions []math.Vec3
	Normals   []math.Vec3
	TexCoords []math.Vec2
	Triangles []Triangle

	// Min and Max bound every parsed position componentwise.
	Min math.Vec3
	Max math.Vec3

	// ExplicitNormals is true when the source carried its own normals.
	ExplicitNormals bool
	// GenerateHeightField asks the owning model to derive a height field.
	GenerateHeightField bool

	hasBounds bool
}

// New creates an empty mesh with the sentinel entries in place.
func New(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Positions: []math.Vec3{{}},
		Normals:   []math.Vec3{{}},
		TexCoords: []math.Vec2{{}},
	}
}

// ParseOptions controls how a mesh is ingested.
type ParseOptions struct {
	// GenerateHeightField is carried on the mesh for the model loader.
	GenerateHeightField bool
	// HasTexCoords keeps vt records; otherwise they are skipped and corners
	// record texcoord 0.
	HasTexCoords bool
	// SmoothNormals averages face normals per position when the source has no
	// normals. Without it each triangle gets its own flat normal.
	SmoothNormals bool
}

// AddPosition appends a position and grows the bounding box.
func (m *Mesh) AddPosition(p math.Vec3) {
	m.Positions = append(m.Positions, p)
	if !m.hasBounds {
		m.Min, m.Max = p, p
		m.hasBounds = true
		return
	}
	m.Min = m.Min.Min(p)
	m.Max = m.Max.Max(p)
}

// PositionCount returns the number of real positions (sentinel excluded).
func (m *Mesh) PositionCount() int {
	return len(m.Positions) - 1
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math.Vec3 {
	return m.Max.Sub(m.Min)
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math.Vec3 {
	return m.Min.Add(m.Max).Scale(0.5)
}

// FaceNormal returns the unit normal of triangle i using the right-hand rule.
func (m *Mesh) FaceNormal(i int) math.Vec3 {
	return m.faceCross(m.Triangles[i]).Normalize()
}

// CornerNormal returns the normal referenced by corner c of triangle i, falling
// back to the face normal when the corner carries none.
func (m *Mesh) CornerNormal(i, c int) math.Vec3 {
	if n := m.Triangles[i][c].Normal; n != 0 {
		return m.Normals[n]
	}
	return m.FaceNormal(i)
}

func (m *Mesh) faceCross(tri Triangle) math.Vec3 {
	v0 := m.Positions[tri[0].Position]
	v1 := m.Positions[tri[1].Position]
	v2 := m.Positions[tri[2].Position]
	return v1.Sub(v0).Cross(v2.Sub(v0))
}
