package terrain

import (
	"bytes"
	"errors"
	stdmath "math"
	"strings"
	"testing"

	"github.com/Faultbox/midgard-terrain/internal/engine/mesh"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// slope rises along x: y = x/2 over a 2x2 square.
const slope = `v 0 0 0
v 2 1 0
v 2 1 2
v 0 0 2
f 1 4 3
f 1 3 2
`

// tent is the unit square with one raised corner.
const tent = `v 0 0 0
v 1 0 0
v 0 0 1
v 1 1 1
f 1 3 2
f 2 3 4
`

func parse(t *testing.T, src string) *mesh.Mesh {
	t.Helper()
	m, err := mesh.Parse(strings.NewReader(src), mesh.ParseOptions{GenerateHeightField: true})
	if err != nil {
		t.Fatalf("mesh.Parse() error: %v", err)
	}
	return m
}

func build(t *testing.T, m *mesh.Mesh, factor int) *HeightField {
	t.Helper()
	f, err := Build(m, BuildOptions{SampleFactor: factor})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return f
}

func TestBuildRejectsFactor(t *testing.T) {
	for _, factor := range []int{0, -3} {
		_, err := Build(parse(t, tent), BuildOptions{SampleFactor: factor})
		if !errors.Is(err, ErrInvalidSampleFactor) {
			t.Errorf("factor %d: error = %v, want ErrInvalidSampleFactor", factor, err)
		}
	}
}

func TestBuildExactSamples(t *testing.T) {
	f := build(t, parse(t, tent), 10)

	min, max := f.Bounds()
	if min != (Cell{0, 0}) || max != (Cell{10, 10}) {
		t.Fatalf("Bounds() = %v, %v", min, max)
	}

	s, ok := f.At(Cell{10, 10})
	if !ok || !s.Exact || s.Height != 1 {
		t.Errorf("corner sample = %+v, %v; want exact height 1", s, ok)
	}
	s, ok = f.At(Cell{5, 0})
	if !ok || s.Exact {
		t.Errorf("edge sample = %+v, %v; want interpolated", s, ok)
	}
}

func TestBuildUnitSquareCenter(t *testing.T) {
	f := build(t, parse(t, tent), 10)

	h := f.Height(0.5, 0.5, math.NewTransform())
	if h <= 0 || h >= 1 {
		t.Fatalf("Height(0.5, 0.5) = %v, want strictly between 0 and 1", h)
	}
	if h != 0.25 {
		t.Errorf("Height(0.5, 0.5) = %v, want 0.25", h)
	}
}

func TestBuildFlatMesh(t *testing.T) {
	src := "v 0 3 0\nv 4 3 0\nv 4 3 4\nv 0 3 4\nf 1 4 3\nf 1 3 2\n"
	f := build(t, parse(t, src), 4)

	id := math.NewTransform()
	for _, p := range [][2]float32{{0, 0}, {1, 1}, {2, 3.5}, {3.75, 0.5}, {4, 4}} {
		if h := f.Height(p[0], p[1], id); h != 3 {
			t.Errorf("Height(%v, %v) = %v, want 3", p[0], p[1], h)
		}
		n := f.Normal(p[0], p[1], id)
		if !n.ApproxEqual(math.Vec3{Y: 1}, 1e-5) {
			t.Errorf("Normal(%v, %v) = %v, want +Y", p[0], p[1], n)
		}
	}
}

func TestBuildHighestVertexWins(t *testing.T) {
	// Two stacked triangles share their footprint.
	src := `v 0 0 0
v 1 0 0
v 0 0 1
v 0 5 0
v 1 5 0
v 0 5 1
f 1 3 2
f 4 6 5
`
	f := build(t, parse(t, src), 1)
	s, ok := f.At(Cell{0, 0})
	if !ok || s.Height != 5 {
		t.Errorf("At(0,0) = %+v, %v; want height 5", s, ok)
	}
}

func TestBuildIdempotent(t *testing.T) {
	m := parse(t, slope)
	a := build(t, m, 8)
	b := build(t, m, 8)

	if a.Len() != b.Len() {
		t.Fatalf("Len() differs: %d vs %d", a.Len(), b.Len())
	}
	a.Each(func(c Cell, sa HeightSample) {
		sb, ok := b.At(c)
		if !ok || sa != sb {
			t.Errorf("cell %v: %+v vs %+v (%v)", c, sa, sb, ok)
		}
	})
}

func TestBuildDoesNotMutateMesh(t *testing.T) {
	m := parse(t, slope)
	before := append([]math.Vec3(nil), m.Positions...)
	tris := len(m.Triangles)

	build(t, m, 4)

	if len(m.Triangles) != tris {
		t.Errorf("triangle count changed: %d -> %d", tris, len(m.Triangles))
	}
	for i := range before {
		if m.Positions[i] != before[i] {
			t.Errorf("position %d changed: %v -> %v", i, before[i], m.Positions[i])
		}
	}
}

func TestBuildSparseMatchesDense(t *testing.T) {
	m := parse(t, slope)
	dense := build(t, m, 4)
	sparse, err := Build(m, BuildOptions{SampleFactor: 4, MaxDenseCells: 1})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if !dense.Dense() || sparse.Dense() {
		t.Fatalf("Dense() = %v, %v; want true, false", dense.Dense(), sparse.Dense())
	}
	if dense.Len() != sparse.Len() {
		t.Fatalf("Len() = %d vs %d", dense.Len(), sparse.Len())
	}
	dense.Each(func(c Cell, s HeightSample) {
		if got, ok := sparse.At(c); !ok || got != s {
			t.Errorf("cell %v: sparse %+v, dense %+v", c, got, s)
		}
	})
}

func TestBuildNegativeCoordinates(t *testing.T) {
	src := "v -2 1 -2\nv 0 1 -2\nv 0 1 0\nv -2 1 0\nf 1 4 3\nf 1 3 2\n"
	f := build(t, parse(t, src), 2)

	min, max := f.Bounds()
	if min != (Cell{-4, -4}) || max != (Cell{0, 0}) {
		t.Errorf("Bounds() = %v, %v", min, max)
	}
	if h := f.Height(-1, -1, math.NewTransform()); h != 1 {
		t.Errorf("Height(-1, -1) = %v, want 1", h)
	}
}

func TestBuildRejectsExtremeExtent(t *testing.T) {
	inf := float32(stdmath.Inf(1))
	tests := []struct {
		name   string
		pos    math.Vec3
		factor int
	}{
		{"huge x", math.Vec3{X: 1e30}, 10},
		{"huge negative z", math.Vec3{Z: -1e30}, 10},
		{"factor overflows int32", math.Vec3{X: 3e8}, 10},
		{"infinite", math.Vec3{X: inf}, 1},
		{"nan", math.Vec3{Z: float32(stdmath.NaN())}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mesh.New(tt.name)
			m.AddPosition(math.Vec3{})
			m.AddPosition(tt.pos)
			m.AddPosition(math.Vec3{Z: 1})
			m.Triangles = append(m.Triangles, mesh.Triangle{{Position: 1}, {Position: 2}, {Position: 3}})

			for _, maxDense := range []int{0, 1} {
				f, err := Build(m, BuildOptions{SampleFactor: tt.factor, MaxDenseCells: maxDense})
				if !errors.Is(err, ErrExtentTooLarge) || f != nil {
					t.Errorf("MaxDenseCells %d: Build() = %v, %v; want ErrExtentTooLarge", maxDense, f, err)
				}
			}
		})
	}
}

func TestBuildLargeParsedExtent(t *testing.T) {
	m := parse(t, "v 0 0 0\nv 1e30 0 0\nv 0 0 1\nf 1 2 3\n")
	if _, err := Build(m, BuildOptions{SampleFactor: 10}); !errors.Is(err, ErrExtentTooLarge) {
		t.Errorf("Build() error = %v, want ErrExtentTooLarge", err)
	}
}

func TestBuildEmptyMesh(t *testing.T) {
	f := build(t, mesh.New("empty"), 4)
	if f.Len() != 0 {
		t.Errorf("Len() = %d, want 0", f.Len())
	}
	if _, ok := f.Sample(0, 0, math.NewTransform()); ok {
		t.Error("empty field should have no samples")
	}
}

func TestGenerateOBJRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultGenerateOptions()
	opts.Size = 8
	if err := GenerateOBJ(&buf, opts); err != nil {
		t.Fatalf("GenerateOBJ() error: %v", err)
	}

	m, err := mesh.Parse(&buf, mesh.ParseOptions{HasTexCoords: true, SmoothNormals: true})
	if err != nil {
		t.Fatalf("mesh.Parse() error: %v", err)
	}
	if m.PositionCount() != 81 {
		t.Errorf("PositionCount() = %d, want 81", m.PositionCount())
	}
	if m.TriangleCount() != 128 {
		t.Errorf("TriangleCount() = %d, want 128", m.TriangleCount())
	}
	if n := m.FaceNormal(0); n.Y <= 0 {
		t.Errorf("first face normal %v should point up", n)
	}

	f := build(t, m, 2)
	if f.Len() != 17*17 {
		t.Errorf("Len() = %d, want every cell of a full grid (%d)", f.Len(), 17*17)
	}
}

func TestGenerateOBJRejectsSize(t *testing.T) {
	if err := GenerateOBJ(&bytes.Buffer{}, GenerateOptions{}); err == nil {
		t.Error("expected error for zero size")
	}
}
