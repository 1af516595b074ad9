package renderer

import _ "embed"

// meshVertexShader transforms lit, textured meshes.
//
//go:embed shaders/mesh.vert
var meshVertexShader string

//go:embed shaders/mesh.frag
var meshFragmentShader string

// lineVertexShader draws unlit colored lines.
//
//go:embed shaders/line.vert
var lineVertexShader string

//go:embed shaders/line.frag
var lineFragmentShader string
