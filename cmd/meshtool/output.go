package main

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/Faultbox/midgard-terrain/internal/engine/mesh"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

var json = jsoniter.Config{
	IndentionStep:                 2,
	MarshalFloatWith6Digits:       true,
	EscapeHTML:                    false,
	SortMapKeys:                   true,
	TagKey:                        "json",
	ObjectFieldMustBeSimpleString: true,
	CaseSensitive:                 true,
}.Froze()

// textWriter is implemented by results that have a human-readable form.
type textWriter interface {
	writeText(w io.Writer)
}

func writeOutput(w io.Writer, asJSON bool, v textWriter) error {
	if !asJSON {
		v.writeText(w)
		return nil
	}
	stream := json.BorrowStream(w)
	defer json.ReturnStream(stream)
	stream.WriteVal(v)
	stream.WriteRaw("\n")
	if stream.Error != nil {
		return stream.Error
	}
	return stream.Flush()
}

type meshInfo struct {
	Asset           string     `json:"asset"`
	Name            string     `json:"name,omitempty"`
	Positions       int        `json:"positions"`
	Normals         int        `json:"normals"`
	TexCoords       int        `json:"texcoords"`
	Triangles       int        `json:"triangles"`
	ExplicitNormals bool       `json:"explicit_normals"`
	Min             [3]float32 `json:"min"`
	Max             [3]float32 `json:"max"`
	Size            [3]float32 `json:"size"`
	Field           *fieldInfo `json:"field,omitempty"`
}

type fieldInfo struct {
	SampleFactor int    `json:"sample_factor"`
	Cells        int    `json:"cells"`
	Dense        bool   `json:"dense"`
	MinCell      [2]int `json:"min_cell"`
	MaxCell      [2]int `json:"max_cell"`
}

func newMeshInfo(asset string, m *mesh.Mesh) *meshInfo {
	return &meshInfo{
		Asset:           asset,
		Name:            m.Name,
		Positions:       m.PositionCount(),
		Normals:         len(m.Normals) - 1,
		TexCoords:       len(m.TexCoords) - 1,
		Triangles:       m.TriangleCount(),
		ExplicitNormals: m.ExplicitNormals,
		Min:             m.Min.Array(),
		Max:             m.Max.Array(),
		Size:            m.Size().Array(),
	}
}

func newFieldInfo(f *terrain.HeightField) *fieldInfo {
	lo, hi := f.Bounds()
	return &fieldInfo{
		SampleFactor: f.SampleFactor(),
		Cells:        f.Len(),
		Dense:        f.Dense(),
		MinCell:      [2]int{lo.X, lo.Z},
		MaxCell:      [2]int{hi.X, hi.Z},
	}
}

func (i *meshInfo) writeText(w io.Writer) {
	fmt.Fprintf(w, "Asset:      %s\n", i.Asset)
	if i.Name != "" {
		fmt.Fprintf(w, "Name:       %s\n", i.Name)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Positions:  %d\n", i.Positions)
	fmt.Fprintf(w, "Normals:    %d (explicit: %v)\n", i.Normals, i.ExplicitNormals)
	fmt.Fprintf(w, "TexCoords:  %d\n", i.TexCoords)
	fmt.Fprintf(w, "Triangles:  %d\n", i.Triangles)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Bounds Min: (%.3f, %.3f, %.3f)\n", i.Min[0], i.Min[1], i.Min[2])
	fmt.Fprintf(w, "Bounds Max: (%.3f, %.3f, %.3f)\n", i.Max[0], i.Max[1], i.Max[2])
	fmt.Fprintf(w, "Dimensions: %.3f x %.3f x %.3f\n", i.Size[0], i.Size[1], i.Size[2])

	if f := i.Field; f != nil {
		layout := "sparse"
		if f.Dense {
			layout = "dense"
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Field:      %d cells/unit, %d cells (%s)\n", f.SampleFactor, f.Cells, layout)
		fmt.Fprintf(w, "Cells:      (%d, %d) .. (%d, %d)\n", f.MinCell[0], f.MinCell[1], f.MaxCell[0], f.MaxCell[1])
	}
}

type queryResult struct {
	X      float32    `json:"x"`
	Z      float32    `json:"z"`
	Found  bool       `json:"found"`
	Exact  bool       `json:"exact"`
	Height float32    `json:"height"`
	Normal [3]float32 `json:"normal"`
}

type queryResults []queryResult

func (rs queryResults) writeText(w io.Writer) {
	for _, r := range rs {
		if !r.Found {
			fmt.Fprintf(w, "(%g, %g): no data\n", r.X, r.Z)
			continue
		}
		kind := "interpolated"
		if r.Exact {
			kind = "exact"
		}
		fmt.Fprintf(w, "(%g, %g): height %.4f normal (%.4f, %.4f, %.4f) %s\n",
			r.X, r.Z, r.Height, r.Normal[0], r.Normal[1], r.Normal[2], kind)
	}
}
