package terrain

import (
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-terrain/internal/engine/mesh"
)

// ErrInvalidSampleFactor is returned for sample factors below 1.
var ErrInvalidSampleFactor = errors.New("sample factor must be at least 1")

// ErrExtentTooLarge is returned when the mesh bounds quantize outside the
// int32 cell range.
var ErrExtentTooLarge = errors.New("mesh extent too large for sample factor")

const (
	minCellCoord = -1 << 31
	maxCellCoord = 1<<31 - 1
)

// BuildOptions controls height field construction.
type BuildOptions struct {
	// SampleFactor is the number of cells per local unit.
	SampleFactor int
	// MaxDenseCells caps the dense representation; 0 means DefaultMaxDenseCells.
	MaxDenseCells int
}

// HeightField is a quantized height/normal table over the mesh's horizontal
// footprint. It is read-only once Build returns.
type HeightField struct {
	factor  int
	minCell Cell
	maxCell Cell
	cells   store

	warnedX atomic.Bool
	warnedY atomic.Bool
	warnedZ atomic.Bool
}

// Build samples every triangle corner of m into the grid, then fills the gaps
// along x between exact samples and along z between known samples. The mesh
// is not modified.
func Build(m *mesh.Mesh, opts BuildOptions) (*HeightField, error) {
	if opts.SampleFactor < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSampleFactor, opts.SampleFactor)
	}
	maxDense := opts.MaxDenseCells
	if maxDense <= 0 {
		maxDense = DefaultMaxDenseCells
	}

	for _, v := range []float32{m.Min.X, m.Min.Z, m.Max.X, m.Max.Z} {
		if !cellInRange(v, opts.SampleFactor) {
			return nil, fmt.Errorf("%w: coordinate %g at factor %d", ErrExtentTooLarge, v, opts.SampleFactor)
		}
	}

	f := &HeightField{
		factor:  opts.SampleFactor,
		minCell: CellAt(m.Min.X, m.Min.Z, opts.SampleFactor),
		maxCell: CellAt(m.Max.X, m.Max.Z, opts.SampleFactor),
	}

	width := f.maxCell.X - f.minCell.X + 1
	depth := f.maxCell.Z - f.minCell.Z + 1
	if width <= maxDense/depth {
		f.cells = newDenseStore(f.minCell, width, depth)
	} else {
		f.cells = sparseStore{}
	}

	rows := f.sampleVertices(m)
	f.fillRows(rows)
	f.fillColumns()
	return f, nil
}

// cellInRange reports whether v quantizes to a finite cell within int32.
func cellInRange(v float32, factor int) bool {
	c := float64(math32.Floor(v * float32(factor)))
	return c >= minCellCoord && c <= maxCellCoord
}

// sampleVertices records one exact sample per occupied cell, keeping the
// highest vertex. It returns the x coordinates of exact samples per row.
func (f *HeightField) sampleVertices(m *mesh.Mesh) map[int][]int {
	rows := make(map[int][]int)
	for i, tri := range m.Triangles {
		for c, corner := range tri {
			p := m.Positions[corner.Position]
			cell := CellAt(p.X, p.Z, f.factor)

			prev, ok := f.cells.get(cell)
			if ok && prev.Height >= p.Y {
				continue
			}
			if !ok {
				rows[cell.Z] = append(rows[cell.Z], cell.X)
			}
			f.cells.set(cell, HeightSample{Height: p.Y, Normal: m.CornerNormal(i, c), Exact: true})
		}
	}
	return rows
}

// fillRows interpolates along x between consecutive exact samples of a row.
func (f *HeightField) fillRows(rows map[int][]int) {
	for z, xs := range rows {
		slices.Sort(xs)
		for i := 1; i < len(xs); i++ {
			f.fillSpan(Cell{X: xs[i-1], Z: z}, Cell{X: xs[i], Z: z})
		}
	}
}

// fillColumns interpolates along z between consecutive known samples of a
// column. Only cells absent after the row pass are written, so the column
// endpoints never change while filling.
func (f *HeightField) fillColumns() {
	cols := make(map[int][]int)
	f.cells.each(func(c Cell, _ HeightSample) {
		cols[c.X] = append(cols[c.X], c.Z)
	})
	for x, zs := range cols {
		slices.Sort(zs)
		for i := 1; i < len(zs); i++ {
			f.fillSpan(Cell{X: x, Z: zs[i-1]}, Cell{X: x, Z: zs[i]})
		}
	}
}

// fillSpan writes interpolated samples strictly between a and b, which lie
// on the same row or column.
func (f *HeightField) fillSpan(a, b Cell) {
	sa, _ := f.cells.get(a)
	sb, _ := f.cells.get(b)

	dx, dz := b.X-a.X, b.Z-a.Z
	steps := dx + dz
	if steps < 2 {
		return
	}
	sx, sz := 0, 0
	if dx > 0 {
		sx = 1
	} else {
		sz = 1
	}
	for i := 1; i < steps; i++ {
		c := Cell{X: a.X + i*sx, Z: a.Z + i*sz}
		if _, ok := f.cells.get(c); ok {
			continue
		}
		f.cells.set(c, lerpSample(sa, sb, float32(i)/float32(steps)))
	}
}

// SampleFactor returns the number of cells per local unit.
func (f *HeightField) SampleFactor() int {
	return f.factor
}

// Bounds returns the inclusive cell rectangle the field covers.
func (f *HeightField) Bounds() (minCell, maxCell Cell) {
	return f.minCell, f.maxCell
}

// Len returns the number of cells holding a sample.
func (f *HeightField) Len() int {
	return f.cells.len()
}

// Dense reports whether samples are held in the dense representation.
func (f *HeightField) Dense() bool {
	_, ok := f.cells.(*denseStore)
	return ok
}

// At returns the raw sample stored for a cell. Cells outside Bounds have none.
func (f *HeightField) At(c Cell) (HeightSample, bool) {
	if c.X < f.minCell.X || c.X > f.maxCell.X || c.Z < f.minCell.Z || c.Z > f.maxCell.Z {
		return HeightSample{}, false
	}
	return f.cells.get(c)
}

// Each calls fn for every stored sample in unspecified order.
func (f *HeightField) Each(fn func(Cell, HeightSample)) {
	f.cells.each(fn)
}
