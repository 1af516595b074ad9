package renderer

import (
	"fmt"
	"image"
	"sync"
)

// RecordedMesh is what a Recorder kept for one CreateMesh or CreateLines call.
type RecordedMesh struct {
	Attribs []VertexAttrib
	Indices []uint16
	Lines   []float32
}

// RecordedDraw is one DrawMesh or DrawLines call.
type RecordedDraw struct {
	Mesh   MeshHandle
	Lines  bool
	Params DrawParams
}

// Recorder is a Backend that keeps uploads and draws in memory. Uploaded data
// is copied, so callers may reuse their buffers.
type Recorder struct {
	mu       sync.Mutex
	meshes   map[MeshHandle]RecordedMesh
	textures map[TextureHandle]*image.RGBA
	draws    []RecordedDraw
	next     uint32

	// FailCreate makes every Create call fail when set.
	FailCreate error
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		meshes:   make(map[MeshHandle]RecordedMesh),
		textures: make(map[TextureHandle]*image.RGBA),
	}
}

// CreateMesh implements Backend.
func (r *Recorder) CreateMesh(attribs []VertexAttrib, indices []uint16) (MeshHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailCreate != nil {
		return 0, r.FailCreate
	}
	if len(attribs) == 0 || len(attribs[0].Data) == 0 || len(indices) == 0 {
		return 0, ErrEmptyMesh
	}

	rec := RecordedMesh{Indices: append([]uint16(nil), indices...)}
	for _, a := range attribs {
		a.Data = append([]float32(nil), a.Data...)
		rec.Attribs = append(rec.Attribs, a)
	}
	r.next++
	h := MeshHandle(r.next)
	r.meshes[h] = rec
	return h, nil
}

// CreateLines implements Backend.
func (r *Recorder) CreateLines(vertices []float32) (MeshHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailCreate != nil {
		return 0, r.FailCreate
	}
	if len(vertices) == 0 {
		return 0, ErrEmptyMesh
	}
	r.next++
	h := MeshHandle(r.next)
	r.meshes[h] = RecordedMesh{Lines: append([]float32(nil), vertices...)}
	return h, nil
}

// CreateTexture implements Backend.
func (r *Recorder) CreateTexture(img *image.RGBA) (TextureHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailCreate != nil {
		return 0, r.FailCreate
	}
	if img.Bounds().Empty() {
		return 0, fmt.Errorf("renderer: empty texture")
	}
	r.next++
	h := TextureHandle(r.next)
	r.textures[h] = img
	return h, nil
}

// DrawMesh implements Backend.
func (r *Recorder) DrawMesh(h MeshHandle, p DrawParams) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draws = append(r.draws, RecordedDraw{Mesh: h, Params: p})
}

// DrawLines implements Backend.
func (r *Recorder) DrawLines(h MeshHandle, p DrawParams) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draws = append(r.draws, RecordedDraw{Mesh: h, Lines: true, Params: p})
}

// DeleteMesh implements Backend.
func (r *Recorder) DeleteMesh(h MeshHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.meshes, h)
}

// DeleteTexture implements Backend.
func (r *Recorder) DeleteTexture(h TextureHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.textures, h)
}

// Mesh returns a live mesh.
func (r *Recorder) Mesh(h MeshHandle) (RecordedMesh, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meshes[h]
	return m, ok
}

// Texture returns a live texture.
func (r *Recorder) Texture(h TextureHandle) (*image.RGBA, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.textures[h]
	return t, ok
}

// Live returns the number of meshes and textures not yet deleted.
func (r *Recorder) Live() (meshes, textures int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.meshes), len(r.textures)
}

// Draws returns and clears the recorded draw calls.
func (r *Recorder) Draws() []RecordedDraw {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.draws
	r.draws = nil
	return d
}
