package assets

import (
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FSSource serves assets from a file system.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource wraps fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// NewDirSource serves assets below a directory on disk.
func NewDirSource(root string) *FSSource {
	return NewFSSource(os.DirFS(root))
}

// Open implements Source. Names may use either slash style and may carry a
// leading slash; paths escaping the root are rejected by fs.FS.
func (s *FSSource) Open(name string) (io.ReadCloser, error) {
	clean := path.Clean(strings.TrimLeft(filepath.ToSlash(name), "/"))
	return s.fsys.Open(clean)
}
