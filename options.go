package shaderparts

import "github.com/gogpu/naga/glsl"

// AssembleOption configures an Assembler.
//
// Example:
//
//	// Prefix every shader with "#version 100"
//	a := shaderparts.NewAssembler(shaderparts.WithVersion(glsl.Version{Major: 1, ES: true}))
type AssembleOption func(*Assembler)

// WithVersion emits a #version directive as the first line of every shader.
//
// GLSL ES before 3.00 and desktop GLSL before 1.50 have no profile suffix,
// so those versions are written as a bare number ("#version 100",
// "#version 120"). Later versions use the "es"/"core" form.
func WithVersion(v glsl.Version) AssembleOption {
	return func(a *Assembler) {
		a.version = &v
	}
}

// WithPrecision sets the default float precision declared in fragment
// shaders ("lowp", "mediump" or "highp").
func WithPrecision(p string) AssembleOption {
	return func(a *Assembler) {
		if p != "" {
			a.precision = p
		}
	}
}

// CacheOption configures a Cache.
type CacheOption func(*cacheOptions)

type cacheOptions struct {
	assembler *Assembler
}

// WithAssembler sets the assembler used to produce program source.
// The default is NewAssembler().
func WithAssembler(a *Assembler) CacheOption {
	return func(o *cacheOptions) {
		if a != nil {
			o.assembler = a
		}
	}
}
