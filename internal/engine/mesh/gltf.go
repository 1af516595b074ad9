package mesh

import (
	"fmt"
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// ImportGLB reads a binary glTF stream into the same layout Parse produces.
// Only triangle primitives are imported; node transforms are not applied, so
// every primitive stays in its mesh-local space.
func ImportGLB(r io.Reader, opts ParseOptions) (*Mesh, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode glb: %w", err)
	}

	m := New("")
	m.GenerateHeightField = opts.GenerateHeightField

	for _, gm := range doc.Meshes {
		if m.Name == "" {
			m.Name = gm.Name
		}
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			if err := m.importPrimitive(doc, prim, opts); err != nil {
				return nil, &MalformedMeshError{
					Reason: fmt.Sprintf("mesh %q primitive %d", gm.Name, pi),
					Err:    err,
				}
			}
		}
	}

	if !m.ExplicitNormals {
		if opts.SmoothNormals {
			m.smoothNormals()
		} else {
			m.flatNormals()
		}
	}
	return m, nil
}

func (m *Mesh) importPrimitive(doc *gltf.Document, prim *gltf.Primitive, opts ParseOptions) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return fmt.Errorf("read normals: %w", err)
		}
		if len(normals) != len(positions) {
			return fmt.Errorf("%d normals for %d positions", len(normals), len(positions))
		}
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok && opts.HasTexCoords {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return fmt.Errorf("read texcoords: %w", err)
		}
		if len(uvs) != len(positions) {
			return fmt.Errorf("%d texcoords for %d positions", len(uvs), len(positions))
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	basePos := len(m.Positions)
	baseNrm := len(m.Normals)
	baseUV := len(m.TexCoords)
	for _, p := range positions {
		m.AddPosition(math.Vec3{X: p[0], Y: p[1], Z: p[2]})
	}
	for _, n := range normals {
		m.Normals = append(m.Normals, math.Vec3{X: n[0], Y: n[1], Z: n[2]})
	}
	for _, uv := range uvs {
		m.TexCoords = append(m.TexCoords, math.Vec2{X: uv[0], Y: uv[1]})
	}
	if len(normals) > 0 {
		m.ExplicitNormals = true
	}

	for i := 0; i+2 < len(indices); i += 3 {
		var tri Triangle
		for c := range 3 {
			v := int(indices[i+c])
			if v >= len(positions) {
				return fmt.Errorf("index %d out of range [0, %d)", v, len(positions))
			}
			tri[c].Position = basePos + v
			if normals != nil {
				tri[c].Normal = baseNrm + v
			}
			if uvs != nil {
				tri[c].TexCoord = baseUV + v
			}
		}
		m.Triangles = append(m.Triangles, tri)
	}
	return nil
}
