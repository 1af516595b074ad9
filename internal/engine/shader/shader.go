// Package shader compiles and links GLSL programs.
package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Stage names a pipeline stage in compile errors.
type Stage string

const (
	StageVertex   Stage = "vertex"
	StageFragment Stage = "fragment"
	StageLink     Stage = "link"
)

// CompileError reports a failed compile or link with the driver's info log.
type CompileError struct {
	Program string
	Stage   Stage
	Log     string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s program: %s: %s", e.Program, e.Stage, e.Log)
}

// Program is a linked GL program with its uniform locations resolved once.
type Program struct {
	ID   uint32
	Name string

	uniforms map[string]int32
}

// Build compiles the two stages, links them, and looks up the named
// uniforms. A uniform the driver optimized away resolves to -1, which GL
// ignores on upload.
func Build(name, vertexSrc, fragmentSrc string, uniforms ...string) (*Program, error) {
	vert, err := compile(name, vertexSrc, gl.VERTEX_SHADER, StageVertex)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vert)

	frag, err := compile(name, fragmentSrc, gl.FRAGMENT_SHADER, StageFragment)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(frag)

	id := gl.CreateProgram()
	gl.AttachShader(id, vert)
	gl.AttachShader(id, frag)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, max(logLen, 1))
		gl.GetProgramInfoLog(id, logLen, nil, &log[0])
		gl.DeleteProgram(id)
		return nil, &CompileError{Program: name, Stage: StageLink, Log: trimLog(log)}
	}

	p := &Program{ID: id, Name: name, uniforms: make(map[string]int32, len(uniforms))}
	for _, u := range uniforms {
		p.uniforms[u] = gl.GetUniformLocation(id, gl.Str(u+"\x00"))
	}
	return p, nil
}

func compile(program, source string, shaderType uint32, stage Stage) (uint32, error) {
	s := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(s, 1, csource, nil)
	free()
	gl.CompileShader(s)

	var status int32
	gl.GetShaderiv(s, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(s, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, max(logLen, 1))
		gl.GetShaderInfoLog(s, logLen, nil, &log[0])
		gl.DeleteShader(s)
		return 0, &CompileError{Program: program, Stage: stage, Log: trimLog(log)}
	}
	return s, nil
}

// trimLog drops the terminating NUL and trailing whitespace of an info log.
func trimLog(log []byte) string {
	s := string(log)
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Uniform returns the location resolved by Build, or -1 for a name that was
// not requested.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

// Use binds the program.
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

// Delete releases the program. It is safe to call more than once.
func (p *Program) Delete() {
	if p == nil || p.ID == 0 {
		return
	}
	gl.DeleteProgram(p.ID)
	p.ID = 0
}
