package renderer

import (
	"errors"
	"image"
	"testing"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

func TestRecorderMeshLifecycle(t *testing.T) {
	r := NewRecorder()
	pos := []float32{0, 0, 0, 1, 0, 0, 0, 0, 1}
	idx := []uint16{0, 1, 2}

	h, err := r.CreateMesh([]VertexAttrib{{Slot: SlotPosition, Components: 3, Data: pos}}, idx)
	if err != nil {
		t.Fatalf("CreateMesh() error: %v", err)
	}
	if h == 0 {
		t.Fatal("CreateMesh() returned the zero handle")
	}

	// The recorder copies, so the caller may reuse its slices.
	pos[0] = 42
	m, ok := r.Mesh(h)
	if !ok || m.Attribs[0].Data[0] != 0 {
		t.Errorf("recorded mesh = %+v, %v; want an independent copy", m, ok)
	}

	r.DrawMesh(h, DrawParams{Model: math.Identity(), Color: White})
	draws := r.Draws()
	if len(draws) != 1 || draws[0].Mesh != h || draws[0].Lines {
		t.Errorf("Draws() = %+v", draws)
	}
	if len(r.Draws()) != 0 {
		t.Error("Draws() should clear the log")
	}

	r.DeleteMesh(h)
	if meshes, _ := r.Live(); meshes != 0 {
		t.Errorf("Live() meshes = %d after delete", meshes)
	}
}

func TestRecorderRejectsEmpty(t *testing.T) {
	r := NewRecorder()
	if _, err := r.CreateMesh(nil, nil); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("CreateMesh(nil) error = %v", err)
	}
	if _, err := r.CreateLines(nil); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("CreateLines(nil) error = %v", err)
	}
	if _, err := r.CreateTexture(image.NewRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Error("CreateTexture(empty) should fail")
	}
}

func TestRecorderFailCreate(t *testing.T) {
	r := NewRecorder()
	r.FailCreate = errors.New("out of memory")

	if _, err := r.CreateTexture(image.NewRGBA(image.Rect(0, 0, 1, 1))); !errors.Is(err, r.FailCreate) {
		t.Errorf("CreateTexture() error = %v", err)
	}
	if _, err := r.CreateLines([]float32{0, 0, 0, 1, 1, 1}); !errors.Is(err, r.FailCreate) {
		t.Errorf("CreateLines() error = %v", err)
	}
}

func TestRecorderHandlesAreUnique(t *testing.T) {
	r := NewRecorder()
	tex, _ := r.CreateTexture(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	lines, _ := r.CreateLines([]float32{0, 0, 0, 1, 1, 1})
	if uint32(tex) == uint32(lines) {
		t.Errorf("texture and line handles collide: %d", tex)
	}
	if _, textures := r.Live(); textures != 1 {
		t.Errorf("Live() textures = %d, want 1", textures)
	}
}
