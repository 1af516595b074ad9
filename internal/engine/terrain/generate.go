package terrain

import (
	"bufio"
	"fmt"
	"io"

	"github.com/aquilax/go-perlin"
)

// GenerateOptions describes a square noise terrain.
type GenerateOptions struct {
	Size      int     // quads per side
	Spacing   float32 // world units between grid lines
	Amplitude float32 // peak height
	Frequency float64 // noise samples per world unit
	Seed      int64
}

// DefaultGenerateOptions returns a 64x64 patch with gentle hills.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Size:      64,
		Spacing:   1,
		Amplitude: 4,
		Frequency: 0.05,
		Seed:      1,
	}
}

// GenerateOBJ writes a perlin-noise height grid as an OBJ mesh with texture
// coordinates spanning [0, 1] and smooth normals left to the parser.
func GenerateOBJ(w io.Writer, opts GenerateOptions) error {
	if opts.Size < 1 {
		return fmt.Errorf("generate terrain: size must be at least 1, got %d", opts.Size)
	}

	noise := perlin.NewPerlin(2, 2, 3, opts.Seed)
	bw := bufio.NewWriter(w)
	n := opts.Size + 1

	fmt.Fprintf(bw, "# perlin terrain seed=%d size=%d\no terrain\n", opts.Seed, opts.Size)
	for j := range n {
		for i := range n {
			x := float32(i) * opts.Spacing
			z := float32(j) * opts.Spacing
			h := noise.Noise2D(float64(x)*opts.Frequency, float64(z)*opts.Frequency)
			fmt.Fprintf(bw, "v %g %g %g\n", x, float32(h)*opts.Amplitude, z)
		}
	}
	for j := range n {
		for i := range n {
			fmt.Fprintf(bw, "vt %g %g\n", float32(i)/float32(opts.Size), float32(j)/float32(opts.Size))
		}
	}

	// Counter-clockwise seen from +Y so face normals point up.
	for j := range opts.Size {
		for i := range opts.Size {
			a := j*n + i + 1
			b := a + 1
			c := a + n
			d := c + 1
			fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d %d/%d\n", a, a, c, c, d, d, b, b)
		}
	}
	return bw.Flush()
}
