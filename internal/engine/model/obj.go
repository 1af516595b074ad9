package model

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/assets"
	"github.com/Faultbox/midgard-terrain/internal/engine/debug"
	"github.com/Faultbox/midgard-terrain/internal/engine/mesh"
	"github.com/Faultbox/midgard-terrain/internal/engine/renderer"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/engine/texture"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// ObjModel is a textured mesh with an optional height field.
type ObjModel struct {
	name      string
	transform math.Transform
	min, max  math.Vec3

	backend renderer.Backend
	mesh    renderer.MeshHandle
	bounds  renderer.MeshHandle
	texture texture.Texture
	field   *terrain.HeightField

	ShowBounds bool
	Color      [4]float32
}

// Load reads, parses and uploads a model. On any error every handle created
// so far is released and no model is returned. textures may be nil when
// opts.Texture is empty.
func Load(src assets.Source, textures *texture.Loader, backend renderer.Backend, opts Options) (*ObjModel, error) {
	m, err := parseAsset(src, opts)
	if err != nil {
		return nil, err
	}

	o := &ObjModel{
		name:       opts.Mesh,
		transform:  math.NewTransform(),
		min:        m.Min,
		max:        m.Max,
		backend:    backend,
		ShowBounds: opts.ShowBounds,
		Color:      opts.Color,
	}
	if o.Color == ([4]float32{}) {
		o.Color = renderer.White
	}

	if opts.Texture != "" {
		if textures == nil {
			return nil, fmt.Errorf("model %s: texture %s requested without a loader", opts.Mesh, opts.Texture)
		}
		if o.texture, err = textures.Load(opts.Texture); err != nil {
			return nil, fmt.Errorf("model %s: %w", opts.Mesh, err)
		}
	}

	if err := o.upload(m, opts.HasTexCoords); err != nil {
		o.Close()
		return nil, fmt.Errorf("model %s: %w", opts.Mesh, err)
	}

	minB, maxB := m.Min.Array(), m.Max.Array()
	logger.Info("model loaded",
		zap.String("name", opts.Mesh),
		zap.Int("triangles", m.TriangleCount()),
		zap.Float32s("min", minB[:]),
		zap.Float32s("max", maxB[:]),
	)

	if opts.GenerateHeightField || m.GenerateHeightField {
		o.field, err = terrain.Build(m, terrain.BuildOptions{
			SampleFactor:  opts.SampleFactor,
			MaxDenseCells: opts.MaxDenseCells,
		})
		if err != nil {
			o.Close()
			return nil, fmt.Errorf("model %s: height field: %w", opts.Mesh, err)
		}
		logger.Debug("height field built",
			zap.String("name", opts.Mesh),
			zap.Int("cells", o.field.Len()),
			zap.Bool("dense", o.field.Dense()),
		)
	}

	return o, nil
}

func parseAsset(src assets.Source, opts Options) (*mesh.Mesh, error) {
	rc, err := src.Open(opts.Mesh)
	if err != nil {
		var unavailable *assets.AssetUnavailableError
		if errors.As(err, &unavailable) {
			return nil, err
		}
		return nil, &assets.AssetUnavailableError{Name: opts.Mesh, Err: err}
	}
	defer rc.Close()

	popts := mesh.ParseOptions{
		GenerateHeightField: opts.GenerateHeightField,
		HasTexCoords:        opts.HasTexCoords,
		SmoothNormals:       opts.SmoothNormals,
	}

	m, err := mesh.Decode(opts.Mesh, rc, popts)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", opts.Mesh, err)
	}
	return m, nil
}

// upload expands m into pooled scratch buffers and hands them to the backend.
// The scratch is returned to the pool on every path.
func (o *ObjModel) upload(m *mesh.Mesh, hasTexCoords bool) error {
	scratch := getScratch()
	defer putScratch(scratch)

	if err := m.FillBuffers(scratch); err != nil {
		return err
	}

	attribs := []renderer.VertexAttrib{
		{Slot: renderer.SlotPosition, Components: 3, Data: scratch.Positions},
		{Slot: renderer.SlotNormal, Components: 3, Data: scratch.Normals},
	}
	if hasTexCoords {
		attribs = append(attribs, renderer.VertexAttrib{Slot: renderer.SlotTexCoord, Components: 2, Data: scratch.TexCoords})
	}

	var err error
	if o.mesh, err = o.backend.CreateMesh(attribs, scratch.Indices); err != nil {
		return fmt.Errorf("upload mesh: %w", err)
	}
	if o.ShowBounds {
		lines := debug.BBoxWireframe(o.min, o.max, 0)
		if o.bounds, err = o.backend.CreateLines(lines); err != nil {
			return fmt.Errorf("upload bounds: %w", err)
		}
	}
	return nil
}

// Draw implements Shape.
func (o *ObjModel) Draw(b renderer.Backend) error {
	if o.mesh == 0 {
		return ErrClosed
	}
	params := renderer.DrawParams{
		Model:   o.transform.Matrix(),
		Texture: o.texture.Handle,
		Color:   o.Color,
	}
	b.DrawMesh(o.mesh, params)

	if o.ShowBounds && o.bounds != 0 {
		params.Texture = 0
		params.Color = [4]float32{1, 1, 0, 1}
		b.DrawLines(o.bounds, params)
	}
	return nil
}

// HeightAt implements Shape.
func (o *ObjModel) HeightAt(x, z float32) float32 {
	if o.field == nil {
		return 0
	}
	return o.field.Height(x, z, o.transform)
}

// NormalAt implements Shape.
func (o *ObjModel) NormalAt(x, z float32) math.Vec3 {
	if o.field == nil {
		return math.Vec3{}
	}
	return o.field.Normal(x, z, o.transform)
}

// Transform implements Shape.
func (o *ObjModel) Transform() *math.Transform {
	return &o.transform
}

// Name returns the mesh asset name.
func (o *ObjModel) Name() string {
	return o.name
}

// Bounds returns the local-space bounding box.
func (o *ObjModel) Bounds() (min, max math.Vec3) {
	return o.min, o.max
}

// HeightField returns the derived field, or nil.
func (o *ObjModel) HeightField() *terrain.HeightField {
	return o.field
}

// Close releases GPU handles. It is safe to call more than once.
func (o *ObjModel) Close() {
	if o.mesh != 0 {
		o.backend.DeleteMesh(o.mesh)
		o.mesh = 0
	}
	if o.bounds != 0 {
		o.backend.DeleteMesh(o.bounds)
		o.bounds = 0
	}
	o.texture.Release(o.backend)
}
