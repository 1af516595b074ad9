package mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Parse reads a Wavefront OBJ stream. Faces with more than three corners are
// fan-triangulated around their first corner. When the stream has no vn
// records, normals are synthesized according to opts.SmoothNormals.
func Parse(r io.Reader, opts ParseOptions) (*Mesh, error) {
	m := New("")
	m.GenerateHeightField = opts.GenerateHeightField

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0

	var corners []Corner
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3, lineNum, "position")
			if err != nil {
				return nil, err
			}
			m.AddPosition(math.Vec3{X: p[0], Y: p[1], Z: p[2]})

		case "vt":
			uv, err := parseFloats(fields[1:], 2, lineNum, "texture coordinate")
			if err != nil {
				return nil, err
			}
			if !opts.HasTexCoords {
				continue
			}
			m.TexCoords = append(m.TexCoords, math.Vec2{X: uv[0], Y: uv[1]})

		case "vn":
			n, err := parseFloats(fields[1:], 3, lineNum, "normal")
			if err != nil {
				return nil, err
			}
			m.Normals = append(m.Normals, math.Vec3{X: n[0], Y: n[1], Z: n[2]})
			m.ExplicitNormals = true

		case "f":
			if len(fields) < 4 {
				return nil, malformed(lineNum, nil, "face needs at least 3 corners, got %d", len(fields)-1)
			}
			corners = corners[:0]
			for _, tok := range fields[1:] {
				c, err := m.parseCorner(tok, opts.HasTexCoords)
				if err != nil {
					return nil, malformed(lineNum, err, "face corner %q", tok)
				}
				corners = append(corners, c)
			}
			for i := 1; i < len(corners)-1; i++ {
				m.Triangles = append(m.Triangles, Triangle{corners[0], corners[i], corners[i+1]})
			}

		case "o", "g":
			if len(fields) > 1 && m.Name == "" {
				m.Name = fields[1]
			}

		default:
			// s, mtllib, usemtl, l, p and unknown directives carry nothing we use.
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
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

// parseFloats parses exactly n finite floats.
func parseFloats(fields []string, n, lineNum int, what string) ([3]float32, error) {
	var out [3]float32
	if len(fields) != n {
		return out, malformed(lineNum, nil, "%s needs %d values, got %d", what, n, len(fields))
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return out, malformed(lineNum, err, "invalid %s component %q", what, f)
		}
		if math32.IsInf(float32(v), 0) || math32.IsNaN(float32(v)) {
			return out, malformed(lineNum, nil, "non-finite %s component %q", what, f)
		}
		out[i] = float32(v)
	}
	return out, nil
}

// parseCorner parses v, v/vt, v//vn or v/vt/vn and validates every reference
// against the sequences read so far.
func (m *Mesh) parseCorner(tok string, keepTexCoords bool) (Corner, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return Corner{}, fmt.Errorf("too many components")
	}

	var refs [3]int
	for i, p := range parts {
		if p == "" {
			if i == 0 {
				return Corner{}, fmt.Errorf("missing position index")
			}
			continue
		}
		idx, err := strconv.Atoi(p)
		if err != nil {
			return Corner{}, fmt.Errorf("invalid index %q", p)
		}
		if idx == 0 {
			return Corner{}, fmt.Errorf("index 0 is not a valid reference")
		}
		refs[i] = idx
	}

	pos, err := resolveIndex(refs[0], len(m.Positions), "position")
	if err != nil {
		return Corner{}, err
	}
	c := Corner{Position: pos}

	if refs[1] != 0 && keepTexCoords {
		if c.TexCoord, err = resolveIndex(refs[1], len(m.TexCoords), "texture coordinate"); err != nil {
			return Corner{}, err
		}
	}
	if refs[2] != 0 {
		if c.Normal, err = resolveIndex(refs[2], len(m.Normals), "normal"); err != nil {
			return Corner{}, err
		}
	}
	return c, nil
}

// resolveIndex maps a 1-based (or negative, relative-to-end) reference onto a
// sequence of length n whose slot 0 is the sentinel.
func resolveIndex(idx, n int, what string) (int, error) {
	if idx < 0 {
		idx = n + idx
	}
	if idx < 1 || idx >= n {
		return 0, fmt.Errorf("%s index %d out of range [1, %d)", what, idx, n)
	}
	return idx, nil
}

// smoothNormals writes, for each position, the average of the unit normals of
// every triangle using it. The result is not renormalized.
func (m *Mesh) smoothNormals() {
	sums := make([]math.Vec3, len(m.Positions))
	counts := make([]int, len(m.Positions))

	for i, tri := range m.Triangles {
		n := m.FaceNormal(i)
		for _, c := range tri {
			sums[c.Position] = sums[c.Position].Add(n)
			counts[c.Position]++
		}
	}

	m.Normals = make([]math.Vec3, len(m.Positions))
	for i := 1; i < len(sums); i++ {
		if counts[i] > 0 {
			m.Normals[i] = sums[i].Scale(1 / float32(counts[i]))
		}
	}
	for i := range m.Triangles {
		for c := range m.Triangles[i] {
			m.Triangles[i][c].Normal = m.Triangles[i][c].Position
		}
	}
}

// flatNormals appends one face normal per triangle and points all three
// corners at it.
func (m *Mesh) flatNormals() {
	m.Normals = m.Normals[:1]
	for i := range m.Triangles {
		m.Normals = append(m.Normals, m.FaceNormal(i))
		idx := len(m.Normals) - 1
		for c := range m.Triangles[i] {
			m.Triangles[i][c].Normal = idx
		}
	}
}
