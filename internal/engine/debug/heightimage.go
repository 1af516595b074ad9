package debug

import (
	"image"
	"image/color"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

// HeightImage renders a height field as a grayscale image, low cells dark and
// high cells bright. Cells without data are fully transparent. Image row 0 is
// the field's lowest z row.
func HeightImage(f *terrain.HeightField) *image.NRGBA {
	minCell, maxCell := f.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, maxCell.X-minCell.X+1, maxCell.Z-minCell.Z+1))

	first := true
	var lo, hi float32
	f.Each(func(_ terrain.Cell, s terrain.HeightSample) {
		if first {
			lo, hi, first = s.Height, s.Height, false
			return
		}
		lo = min(lo, s.Height)
		hi = max(hi, s.Height)
	})

	span := hi - lo
	f.Each(func(c terrain.Cell, s terrain.HeightSample) {
		var v uint8 = 128
		if span > 0 {
			v = uint8((s.Height - lo) / span * 255)
		}
		img.SetNRGBA(c.X-minCell.X, c.Z-minCell.Z, color.NRGBA{R: v, G: v, B: v, A: 255})
	})
	return img
}
