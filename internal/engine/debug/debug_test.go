package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/midgard-terrain/internal/engine/mesh"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

func TestBBoxWireframe(t *testing.T) {
	v := BBoxWireframe(math.Vec3{X: -1, Y: 0, Z: -1}, math.Vec3{X: 1, Y: 2, Z: 1}, 0.5)
	if len(v) != BBoxWireframeVertexCount*3 {
		t.Fatalf("len = %d, want %d", len(v), BBoxWireframeVertexCount*3)
	}
	if v[0] != -1.5 || v[1] != -0.5 || v[2] != -1.5 {
		t.Errorf("first vertex = %v, want padded min", v[:3])
	}
	// Start of the top face is (minX, maxY, minZ).
	if v[24] != -1.5 || v[25] != 2.5 || v[26] != -1.5 {
		t.Errorf("top face start = %v", v[24:27])
	}
}

func TestCaptureFromPixels(t *testing.T) {
	dir := t.TempDir()
	sc := NewScreenshotCapture(filepath.Join(dir, "shots"), "viewer")
	sc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	pixels := make([]byte, 4*3*4)
	for i := range pixels {
		pixels[i] = 255
	}
	name, err := sc.CaptureFromPixels(pixels, 4, 3)
	if err != nil {
		t.Fatalf("CaptureFromPixels() error: %v", err)
	}
	if !strings.HasSuffix(name, "viewer_2024-05-01_12-00-00.000.webp") {
		t.Errorf("filename = %q", name)
	}
	info, err := os.Stat(name)
	if err != nil || info.Size() == 0 {
		t.Errorf("screenshot not written: %v", err)
	}

	if _, err := sc.CaptureFromPixels(pixels[:5], 4, 3); err == nil {
		t.Error("size mismatch should fail")
	}
}

func TestHeightImage(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 0 1\nv 1 1 1\nf 1 3 2\nf 2 3 4\n"
	m, err := mesh.Parse(strings.NewReader(src), mesh.ParseOptions{})
	if err != nil {
		t.Fatal(err)
	}
	f, err := terrain.Build(m, terrain.BuildOptions{SampleFactor: 4})
	if err != nil {
		t.Fatal(err)
	}

	img := HeightImage(f)
	if b := img.Bounds(); b.Dx() != 5 || b.Dy() != 5 {
		t.Fatalf("bounds = %v, want 5x5", b)
	}
	if c := img.NRGBAAt(0, 0); c.R != 0 || c.A != 255 {
		t.Errorf("low corner = %v, want black", c)
	}
	if c := img.NRGBAAt(4, 4); c.R != 255 {
		t.Errorf("high corner = %v, want white", c)
	}
}
