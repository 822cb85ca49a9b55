// Package shaderparts assembles GLSL programs from reusable shader parts and
// caches the compiled results.
//
// # Overview
//
// A shader part is a named fragment of shader code: a block of variable
// declarations plus snippets of code for the vertex and fragment stages,
// each with an integer priority. Parts do not reference each other.
// Priorities alone decide where each snippet lands in the final main
// function, so a part that must run after another simply uses a higher
// priority.
//
// Requesting a program for a list of part names assembles one vertex and
// one fragment shader from those parts and hands them to a Builder. The
// Cache makes sure each distinct set of names is built at most once,
// whatever order the names are requested in.
//
// # Quick Start
//
//	reg := shaderparts.NewRegistry()
//	if err := reg.DefineBuiltins(); err != nil {
//	    log.Fatal(err)
//	}
//	err := reg.Define("tint", "uniform vec4 uTint;", map[string]string{
//	    "fragment_200": "gl_FragColor *= uTint;",
//	})
//
//	cache := shaderparts.NewCache[*opengl.Program](reg, opengl.NewBuilder())
//	program, err := cache.Get([]string{"renpy.geometry", "renpy.texture", "tint"})
//
// # Usage Analysis
//
// A declared variable is emitted for a stage only if its name appears as
// an identifier in that stage's snippets. A part can therefore declare a
// varying once and have it emitted in both stages, and a uniform used
// only by fragment code never appears in the vertex shader.
//
// # Output Layout
//
// Each shader is emitted as: an optional #version line, the precision
// preamble (fragment only), variable declarations sorted by storage, type
// and name, then "void main() {", the snippets by ascending priority and
// "}". Assembly is deterministic.
//
// # Thread Safety
//
// Registry and Cache are safe for concurrent use. Builders backed by a
// graphics context must only be used from the context's thread, so in
// practice Cache.Get is called from the render thread. Redefining a part
// releases the programs that used it before Define returns, on the calling
// goroutine, so redefinitions belong on the render thread too. Close a
// cache that is abandoned so later redefinitions no longer reach it.
//
// # Part Files
//
// Package partfile loads part definitions from HCL files.
package shaderparts
