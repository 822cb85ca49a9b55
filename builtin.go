package shaderparts

// Names of the built-in parts.
const (
	GeometryPart = BuiltinPrefix + "geometry"
	TexturePart  = BuiltinPrefix + "texture"
)

// DefineBuiltins registers the built-in parts:
//
//   - renpy.geometry transforms aPosition by uTransform.
//   - renpy.texture samples uTex0 at the interpolated aTexCoord.
func (r *Registry) DefineBuiltins() error {
	err := r.DefinePart(GeometryPart, `
		uniform mat4 uTransform;
		attribute vec4 aPosition;
	`, Snippet{Stage: StageVertex, Priority: 100, Code: `
    gl_Position = vec4(aPosition.xyz, 1) * uTransform;
`})
	if err != nil {
		return err
	}

	return r.DefinePart(TexturePart, `
		uniform sampler2D uTex0;
		attribute vec2 aTexCoord;
		varying vec2 vTexCoord;
	`,
		Snippet{Stage: StageVertex, Priority: 110, Code: `
    vTexCoord = aTexCoord;
`},
		Snippet{Stage: StageFragment, Priority: 110, Code: `
    gl_FragColor = texture2D(uTex0, vTexCoord.xy);
`},
	)
}
