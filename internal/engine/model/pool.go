package model

import (
	"sync"

	"github.com/Faultbox/midgard-terrain/internal/engine/mesh"
)

// scratchPool recycles the expansion buffers used while uploading a mesh.
var scratchPool = sync.Pool{
	New: func() any {
		return &mesh.Buffers{
			Positions: make([]float32, 0, 4096),
			TexCoords: make([]float32, 0, 4096),
			Normals:   make([]float32, 0, 4096),
			Indices:   make([]uint16, 0, 4096),
		}
	},
}

func getScratch() *mesh.Buffers {
	return scratchPool.Get().(*mesh.Buffers)
}

func putScratch(b *mesh.Buffers) {
	b.Reset()
	scratchPool.Put(b)
}
