package mesh

// Buffers is the flattened, GPU-ready form of a mesh. Every unique corner
// becomes one vertex.
type Buffers struct {
	Positions []float32 // 3 per vertex
	TexCoords []float32 // 2 per vertex
	Normals   []float32 // 3 per vertex
	Indices   []uint16
}

// Reset truncates all slices, keeping their capacity.
func (b *Buffers) Reset() {
	b.Positions = b.Positions[:0]
	b.TexCoords = b.TexCoords[:0]
	b.Normals = b.Normals[:0]
	b.Indices = b.Indices[:0]
}

// VertexCount returns the number of expanded vertices.
func (b *Buffers) VertexCount() int {
	return len(b.Positions) / 3
}

// Buffers expands the mesh into freshly allocated buffers.
func (m *Mesh) Buffers() (*Buffers, error) {
	b := &Buffers{}
	if err := m.FillBuffers(b); err != nil {
		return nil, err
	}
	return b, nil
}

// FillBuffers resets b and writes the expanded mesh into it. Corners that
// reference the same position, texcoord and normal share one vertex. Corners
// without a normal take their face normal and are never shared.
func (m *Mesh) FillBuffers(b *Buffers) error {
	b.Reset()
	seen := make(map[Corner]uint16, len(m.Positions))

	for i, tri := range m.Triangles {
		for c, corner := range tri {
			if corner.Normal != 0 {
				if idx, ok := seen[corner]; ok {
					b.Indices = append(b.Indices, idx)
					continue
				}
			}

			n := b.VertexCount()
			if n > 0xFFFF {
				return ErrTooManyVertices
			}
			idx := uint16(n)

			p := m.Positions[corner.Position]
			b.Positions = append(b.Positions, p.X, p.Y, p.Z)

			uv := m.TexCoords[0]
			if corner.TexCoord != 0 {
				uv = m.TexCoords[corner.TexCoord]
			}
			b.TexCoords = append(b.TexCoords, uv.X, uv.Y)

			nrm := m.CornerNormal(i, c)
			b.Normals = append(b.Normals, nrm.X, nrm.Y, nrm.Z)

			if corner.Normal != 0 {
				seen[corner] = idx
			}
			b.Indices = append(b.Indices, idx)
		}
	}
	return nil
}
