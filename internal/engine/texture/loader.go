// Package texture decodes image assets and uploads them through a rendering
// backend.
package texture

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "github.com/ftrvxmtrx/tga"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/Faultbox/midgard-terrain/internal/assets"
	"github.com/Faultbox/midgard-terrain/internal/engine/renderer"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

// Texture is an uploaded image owned by whoever loaded it.
type Texture struct {
	Handle renderer.TextureHandle
	Width  int
	Height int
}

// Loader resolves texture names through an asset source.
type Loader struct {
	assets  assets.Source
	backend renderer.Backend
}

// NewLoader creates a loader.
func NewLoader(src assets.Source, backend renderer.Backend) *Loader {
	return &Loader{assets: src, backend: backend}
}

// Load decodes the named PNG, JPEG, TGA or WebP asset, flips it for GL's
// bottom-left origin and uploads it.
func (l *Loader) Load(name string) (Texture, error) {
	rc, err := l.assets.Open(name)
	if err != nil {
		return Texture{}, err
	}
	defer rc.Close()

	img, err := Decode(rc)
	if err != nil {
		return Texture{}, fmt.Errorf("texture %s: %w", name, err)
	}
	FlipVertical(img)

	h, err := l.backend.CreateTexture(img)
	if err != nil {
		return Texture{}, fmt.Errorf("texture %s: upload: %w", name, err)
	}

	b := img.Bounds()
	logger.Debug("texture loaded",
		zap.String("name", name),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()),
	)
	return Texture{Handle: h, Width: b.Dx(), Height: b.Dy()}, nil
}

// Decode reads any registered image format and converts it to RGBA with its
// origin at (0, 0).
func Decode(r io.Reader) (*image.RGBA, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if rgba, ok := src.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba, nil
	}

	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	logger.Debug("texture converted", zap.String("format", format))
	return dst, nil
}

// FlipVertical reverses the row order of img in place.
func FlipVertical(img *image.RGBA) {
	b := img.Bounds()
	rowLen := b.Dx() * 4
	tmp := make([]byte, rowLen)
	for top, bottom := b.Min.Y, b.Max.Y-1; top < bottom; top, bottom = top+1, bottom-1 {
		t := img.Pix[img.PixOffset(b.Min.X, top):][:rowLen]
		u := img.Pix[img.PixOffset(b.Min.X, bottom):][:rowLen]
		copy(tmp, t)
		copy(t, u)
		copy(u, tmp)
	}
}

// Release deletes the texture's backend handle.
func (t *Texture) Release(backend renderer.Backend) {
	if t.Handle != 0 {
		backend.DeleteTexture(t.Handle)
		t.Handle = 0
	}
}
