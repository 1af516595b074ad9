package terrain

// store maps cells to samples inside the field rectangle.
type store interface {
	get(c Cell) (HeightSample, bool)
	set(c Cell, s HeightSample)
	each(fn func(Cell, HeightSample))
	len() int
}

// denseStore is a row-major slice over the rectangle with presence flags.
type denseStore struct {
	origin  Cell
	width   int
	depth   int
	samples []HeightSample
	present []bool
	count   int
}

func newDenseStore(minCell Cell, width, depth int) *denseStore {
	return &denseStore{
		origin:  minCell,
		width:   width,
		depth:   depth,
		samples: make([]HeightSample, width*depth),
		present: make([]bool, width*depth),
	}
}

func (d *denseStore) index(c Cell) (int, bool) {
	x, z := c.X-d.origin.X, c.Z-d.origin.Z
	if x < 0 || z < 0 || x >= d.width || z >= d.depth {
		return 0, false
	}
	return z*d.width + x, true
}

func (d *denseStore) get(c Cell) (HeightSample, bool) {
	i, ok := d.index(c)
	if !ok || !d.present[i] {
		return HeightSample{}, false
	}
	return d.samples[i], true
}

func (d *denseStore) set(c Cell, s HeightSample) {
	i, ok := d.index(c)
	if !ok {
		return
	}
	if !d.present[i] {
		d.present[i] = true
		d.count++
	}
	d.samples[i] = s
}

func (d *denseStore) each(fn func(Cell, HeightSample)) {
	for i, ok := range d.present {
		if ok {
			fn(Cell{X: d.origin.X + i%d.width, Z: d.origin.Z + i/d.width}, d.samples[i])
		}
	}
}

func (d *denseStore) len() int {
	return d.count
}

// sparseStore keys samples by the packed cell coordinate. Build keeps every
// cell within int32 so the packing is lossless.
type sparseStore map[uint64]HeightSample

func packCell(c Cell) uint64 {
	return uint64(uint32(int32(c.X)))<<32 | uint64(uint32(int32(c.Z)))
}

func unpackCell(k uint64) Cell {
	return Cell{X: int(int32(uint32(k >> 32))), Z: int(int32(uint32(k)))}
}

func (s sparseStore) get(c Cell) (HeightSample, bool) {
	v, ok := s[packCell(c)]
	return v, ok
}

func (s sparseStore) set(c Cell, v HeightSample) {
	s[packCell(c)] = v
}

func (s sparseStore) each(fn func(Cell, HeightSample)) {
	for k, v := range s {
		fn(unpackCell(k), v)
	}
}

func (s sparseStore) len() int {
	return len(s)
}
