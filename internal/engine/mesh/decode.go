package mesh

import (
	"io"
	"path"
	"strings"
)

// Decode parses r by the extension of name: binary glTF for .glb, the OBJ
// text format otherwise.
func Decode(name string, r io.Reader, opts ParseOptions) (*Mesh, error) {
	if strings.EqualFold(path.Ext(name), ".glb") {
		return ImportGLB(r, opts)
	}
	return Parse(r, opts)
}
