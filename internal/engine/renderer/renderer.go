package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/shader"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [4]float32
}

type glMesh struct {
	vao     uint32
	buffers []uint32
	count   int32
	indexed bool
}

// Uniform names shared by the built-in programs.
const (
	uModel      = "uModel"
	uView       = "uView"
	uProjection = "uProjection"
	uColor      = "uColor"
	uTexture    = "uTexture"
	uLightDir   = "uLightDir"
	uAmbient    = "uAmbient"
	uDiffuse    = "uDiffuse"
)

// GLBackend implements Backend on an OpenGL 4.1 core context.
type GLBackend struct {
	config Config

	meshProgram *shader.Program
	lineProgram *shader.Program
	whiteTex    uint32

	meshes   map[MeshHandle]*glMesh
	nextMesh MeshHandle

	view       math.Mat4
	projection math.Mat4
	lightDir   math.Vec3
	ambient    math.Vec3
	diffuse    math.Vec3
}

// New initializes OpenGL and compiles the built-in programs.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(cfg Config) (*GLBackend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])

	b := &GLBackend{
		config:     cfg,
		meshes:     make(map[MeshHandle]*glMesh),
		view:       math.Identity(),
		projection: math.Identity(),
		lightDir:   math.Vec3{X: 0.3, Y: 1, Z: 0.5},
		ambient:    math.Vec3{X: 0.35, Y: 0.35, Z: 0.35},
		diffuse:    math.Vec3{X: 0.75, Y: 0.75, Z: 0.7},
	}

	var err error
	b.meshProgram, err = shader.Build("mesh", meshVertexShader, meshFragmentShader,
		uModel, uView, uProjection, uColor, uTexture, uLightDir, uAmbient, uDiffuse)
	if err != nil {
		return nil, err
	}
	b.lineProgram, err = shader.Build("line", lineVertexShader, lineFragmentShader,
		uModel, uView, uProjection, uColor)
	if err != nil {
		b.meshProgram.Delete()
		return nil, err
	}
	logger.Debug("shader programs created",
		zap.Uint32("mesh", b.meshProgram.ID),
		zap.Uint32("line", b.lineProgram.ID),
	)

	// Untextured draws sample a single white texel.
	px := image.NewRGBA(image.Rect(0, 0, 1, 1))
	copy(px.Pix, []uint8{255, 255, 255, 255})
	white, err := b.CreateTexture(px)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.whiteTex = uint32(white)

	b.Resize(cfg.Width, cfg.Height)
	return b, nil
}

// Close releases every GL object the backend still owns.
func (b *GLBackend) Close() {
	logger.Info("closing renderer", zap.Int("meshes", len(b.meshes)))
	for h := range b.meshes {
		b.DeleteMesh(h)
	}
	if b.whiteTex != 0 {
		gl.DeleteTextures(1, &b.whiteTex)
		b.whiteTex = 0
	}
	b.meshProgram.Delete()
	b.lineProgram.Delete()
}

// Resize handles window resize.
func (b *GLBackend) Resize(width, height int) {
	b.config.Width = width
	b.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current viewport size.
func (b *GLBackend) Size() (width, height int) {
	return b.config.Width, b.config.Height
}

// SetCamera sets the view and projection used by subsequent draws.
func (b *GLBackend) SetCamera(view, projection math.Mat4) {
	b.view = view
	b.projection = projection
}

// SetLightDirection points the directional light used for meshes. A zero
// vector is ignored.
func (b *GLBackend) SetLightDirection(dir math.Vec3) {
	if dir == (math.Vec3{}) {
		return
	}
	b.lightDir = dir.Normalize()
}

// Begin starts a new frame.
func (b *GLBackend) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ReadPixels returns the back buffer as tightly packed RGBA rows, bottom row
// first.
func (b *GLBackend) ReadPixels() ([]byte, int, int) {
	w, h := b.config.Width, b.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

// CreateMesh implements Backend.
func (b *GLBackend) CreateMesh(attribs []VertexAttrib, indices []uint16) (MeshHandle, error) {
	if len(attribs) == 0 || len(attribs[0].Data) == 0 || len(indices) == 0 {
		return 0, ErrEmptyMesh
	}

	m := &glMesh{count: int32(len(indices)), indexed: true}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	for _, a := range attribs {
		if len(a.Data) == 0 {
			continue
		}
		var vbo uint32
		gl.GenBuffers(1, &vbo)
		gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
		gl.BufferData(gl.ARRAY_BUFFER, len(a.Data)*4, unsafe.Pointer(&a.Data[0]), gl.STATIC_DRAW)
		gl.VertexAttribPointer(a.Slot, a.Components, gl.FLOAT, false, 0, nil)
		gl.EnableVertexAttribArray(a.Slot)
		m.buffers = append(m.buffers, vbo)
	}

	var ebo uint32
	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*2, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)
	m.buffers = append(m.buffers, ebo)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return b.register(m), nil
}

// CreateLines implements Backend.
func (b *GLBackend) CreateLines(vertices []float32) (MeshHandle, error) {
	if len(vertices) == 0 {
		return 0, ErrEmptyMesh
	}

	m := &glMesh{count: int32(len(vertices) / 3)}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointer(SlotPosition, 3, gl.FLOAT, false, 0, nil)
	gl.EnableVertexAttribArray(SlotPosition)
	m.buffers = append(m.buffers, vbo)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return b.register(m), nil
}

func (b *GLBackend) register(m *glMesh) MeshHandle {
	b.nextMesh++
	b.meshes[b.nextMesh] = m
	return b.nextMesh
}

// CreateTexture implements Backend. Rows are uploaded as stored; callers flip
// images for GL's bottom-left origin.
func (b *GLBackend) CreateTexture(img *image.RGBA) (TextureHandle, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return 0, fmt.Errorf("renderer: empty texture %dx%d", w, h)
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return TextureHandle(tex), nil
}

func (b *GLBackend) use(p *shader.Program, params DrawParams) {
	p.Use()
	gl.UniformMatrix4fv(p.Uniform(uModel), 1, false, params.Model.Ptr())
	gl.UniformMatrix4fv(p.Uniform(uView), 1, false, b.view.Ptr())
	gl.UniformMatrix4fv(p.Uniform(uProjection), 1, false, b.projection.Ptr())
	c := params.Color
	gl.Uniform4f(p.Uniform(uColor), c[0], c[1], c[2], c[3])
}

// DrawMesh implements Backend.
func (b *GLBackend) DrawMesh(h MeshHandle, params DrawParams) {
	m, ok := b.meshes[h]
	if !ok || !m.indexed {
		return
	}
	p := b.meshProgram
	b.use(p, params)
	gl.Uniform3f(p.Uniform(uLightDir), b.lightDir.X, b.lightDir.Y, b.lightDir.Z)
	gl.Uniform3f(p.Uniform(uAmbient), b.ambient.X, b.ambient.Y, b.ambient.Z)
	gl.Uniform3f(p.Uniform(uDiffuse), b.diffuse.X, b.diffuse.Y, b.diffuse.Z)

	tex := uint32(params.Texture)
	if tex == 0 {
		tex = b.whiteTex
	}
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.Uniform1i(p.Uniform(uTexture), 0)

	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_SHORT, nil)
	gl.BindVertexArray(0)
}

// DrawLines implements Backend.
func (b *GLBackend) DrawLines(h MeshHandle, params DrawParams) {
	m, ok := b.meshes[h]
	if !ok || m.indexed {
		return
	}
	b.use(b.lineProgram, params)
	gl.BindVertexArray(m.vao)
	gl.DrawArrays(gl.LINES, 0, m.count)
	gl.BindVertexArray(0)
}

// DeleteMesh implements Backend.
func (b *GLBackend) DeleteMesh(h MeshHandle) {
	m, ok := b.meshes[h]
	if !ok {
		return
	}
	gl.DeleteBuffers(int32(len(m.buffers)), &m.buffers[0])
	gl.DeleteVertexArrays(1, &m.vao)
	delete(b.meshes, h)
}

// DeleteTexture implements Backend.
func (b *GLBackend) DeleteTexture(h TextureHandle) {
	if h == 0 {
		return
	}
	tex := uint32(h)
	gl.DeleteTextures(1, &tex)
}
