// Package opengl builds shaderparts programs with OpenGL 2.1.
//
// The assembled sources use attribute, varying and gl_FragColor, which
// need a compatibility context. Every method must run on the thread that
// owns the current GL context, after gl.Init has succeeded. Release is also
// reached through Registry redefinitions and Cache.Close, so make those
// calls on the context thread as well.
//
//	builder := opengl.NewBuilder()
//	cache := shaderparts.NewCache[*opengl.Program](reg, builder)
//	prog, err := cache.Get([]string{shaderparts.GeometryPart, shaderparts.TexturePart})
//	if err != nil {
//	    return err
//	}
//	prog.Use()
//	gl.UniformMatrix4fv(prog.Uniform("uTransform"), 1, false, &m[0])
package opengl

import (
	"strings"

	"github.com/go-gl/gl/v2.1/gl"

	"github.com/gogpu/shaderparts"
)

// Program is a linked GL program object.
type Program struct {
	ID uint32

	uniforms map[string]int32
	attribs  map[string]int32
}

// Use makes p the current program.
func (p *Program) Use() { gl.UseProgram(p.ID) }

// Uniform returns the location of the named uniform, or -1 if the program
// has no active uniform with that name. Locations are cached.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.ID, gl.Str(name+"\x00"))
	p.uniforms[name] = loc
	return loc
}

// Attrib returns the location of the named attribute, or -1 if the
// program has no active attribute with that name. Locations are cached.
func (p *Program) Attrib(name string) int32 {
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	loc := gl.GetAttribLocation(p.ID, gl.Str(name+"\x00"))
	p.attribs[name] = loc
	return loc
}

// Builder compiles and links programs. It implements
// shaderparts.Builder and shaderparts.Releaser for *Program.
type Builder struct{}

// NewBuilder creates a builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build compiles both stages and links them. On failure every GL object
// created so far is deleted and a *shaderparts.ShaderBuildError carrying
// the driver's info log is returned.
func (b *Builder) Build(vertex, fragment string) (*Program, error) {
	vs, err := compileShader(vertex, gl.VERTEX_SHADER, shaderparts.StageVertex)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(fragment, gl.FRAGMENT_SHADER, shaderparts.StageFragment)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(fs)

	id := gl.CreateProgram()
	gl.AttachShader(id, vs)
	gl.AttachShader(id, fs)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(id, logLen, nil, &log[0])
		gl.DeleteProgram(id)
		return nil, &shaderparts.ShaderBuildError{Link: true, Log: infoLog(log)}
	}
	gl.DetachShader(id, vs)
	gl.DetachShader(id, fs)

	shaderparts.Logger().Debug("opengl: linked program", "program", id)
	return &Program{
		ID:       id,
		uniforms: make(map[string]int32),
		attribs:  make(map[string]int32),
	}, nil
}

// Release deletes the program object.
func (b *Builder) Release(p *Program) {
	if p == nil || p.ID == 0 {
		return
	}
	gl.DeleteProgram(p.ID)
	shaderparts.Logger().Debug("opengl: deleted program", "program", p.ID)
	p.ID = 0
}

func compileShader(source string, shaderType uint32, stage shaderparts.Stage) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, &shaderparts.ShaderBuildError{Stage: stage, Log: infoLog(log)}
	}
	return shader, nil
}

// infoLog converts a NUL-terminated driver log to a string.
func infoLog(b []byte) string {
	return strings.TrimSpace(strings.TrimRight(string(b), "\x00"))
}
