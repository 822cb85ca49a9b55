package shaderparts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDefine(t *testing.T) {
	reg := NewRegistry()

	err := reg.Define("geometry", "uniform mat4 uTransform;\nattribute vec4 aPosition;", map[string]string{
		"vertex_100": "gl_Position = uTransform * aPosition;",
	})
	require.NoError(t, err)

	p, err := reg.Resolve("geometry")
	require.NoError(t, err)
	assert.Equal(t, "geometry", p.Name())
	assert.Len(t, p.Variables(StageVertex), 2)
	assert.Empty(t, p.Variables(StageFragment))
	assert.Equal(t, []Snippet{{StageVertex, 100, "gl_Position = uTransform * aPosition;"}}, p.Snippets(StageVertex))
}

func TestRegistryDefineOrdersKeyedSnippets(t *testing.T) {
	reg := NewRegistry()

	err := reg.Define("p", "", map[string]string{
		"vertex_20":   "c",
		"vertex_-1":   "a",
		"vertex_010":  "b2",
		"vertex_10":   "b1",
		"fragment_5":  "f",
		"fragment_-5": "e",
	})
	require.NoError(t, err)

	p, err := reg.Resolve("p")
	require.NoError(t, err)
	assert.Equal(t, []Snippet{
		{StageVertex, -1, "a"},
		{StageVertex, 10, "b2"}, // "vertex_010" sorts before "vertex_10"
		{StageVertex, 10, "b1"},
		{StageVertex, 20, "c"},
	}, p.Snippets(StageVertex))
	assert.Equal(t, []Snippet{
		{StageFragment, -5, "e"},
		{StageFragment, 5, "f"},
	}, p.Snippets(StageFragment))
}

func TestRegistryDefineInvalidKey(t *testing.T) {
	for _, key := range []string{"geometry", "vertex_abc"} {
		t.Run(key, func(t *testing.T) {
			reg := NewRegistry()

			err := reg.Define("broken", "", map[string]string{
				"vertex_100": "gl_Position = vec4(0);",
				key:          "x",
			})

			require.ErrorIs(t, err, ErrInvalidPartDefinition)
			var ipe *InvalidPartDefinitionError
			require.ErrorAs(t, err, &ipe)
			assert.Equal(t, "broken", ipe.Part)
			assert.Equal(t, key, ipe.Key)
			assert.Contains(t, err.Error(), key)
			assert.False(t, reg.Has("broken"))
		})
	}
}

func TestRegistryDefineInvalidKeepsPrevious(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Define("p", "", map[string]string{"vertex_1": "old"}))

	err := reg.Define("p", "", map[string]string{"vertex_x": "new"})
	require.Error(t, err)

	p, err := reg.Resolve("p")
	require.NoError(t, err)
	assert.Equal(t, "old", p.Snippets(StageVertex)[0].Code)
}

func TestRegistryDefinePartLastWriteWins(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.DefinePart("p", "", Snippet{StageVertex, 1, "first"}))
	require.NoError(t, reg.DefinePart("p", "", Snippet{StageVertex, 1, "second"}))

	p, err := reg.Resolve("p")
	require.NoError(t, err)
	assert.Equal(t, "second", p.Snippets(StageVertex)[0].Code)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryDefineMalformedVariableContinues(t *testing.T) {
	reg := NewRegistry()

	err := reg.Define("p", "uniform mat4\nuniform mat4 uTransform;", map[string]string{
		"vertex_0": "gl_Position = uTransform[0];",
	})
	require.NoError(t, err)

	p, err := reg.Resolve("p")
	require.NoError(t, err)
	assert.Len(t, p.Diagnostics(), 1)
	assert.Len(t, p.Variables(StageVertex), 1)
}

func TestRegistryResolveUnknown(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Resolve("does.not.exist")

	require.ErrorIs(t, err, ErrUnknownPart)
	var upe *UnknownPartError
	require.ErrorAs(t, err, &upe)
	assert.Equal(t, "does.not.exist", upe.Name)
}

func TestRegistryResolveAll(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.DefineBuiltins())

	parts, err := reg.ResolveAll([]string{TexturePart, GeometryPart})
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, TexturePart, parts[0].Name())
	assert.Equal(t, GeometryPart, parts[1].Name())

	parts, err = reg.ResolveAll([]string{TexturePart, "does.not.exist"})
	assert.True(t, errors.Is(err, ErrUnknownPart))
	assert.Nil(t, parts)
}

func TestRegistryNames(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.DefinePart("b", ""))
	require.NoError(t, reg.DefinePart("a", ""))

	assert.Equal(t, []string{"a", "b"}, reg.Names())
	assert.True(t, reg.Has("a"))
	assert.False(t, reg.Has("c"))
}

func TestRegistryAssembleNames(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.DefineBuiltins())

	src, err := reg.AssembleNames([]string{GeometryPart}, StageVertex)
	require.NoError(t, err)
	assert.Contains(t, src, "uniform mat4 uTransform;")

	src, err = reg.AssembleNames([]string{GeometryPart, "does.not.exist"}, StageVertex)
	require.ErrorIs(t, err, ErrUnknownPart)
	assert.Empty(t, src)
}

func TestRegistryWatchOnlyOnRedefinition(t *testing.T) {
	reg := NewRegistry()
	var seen []string
	reg.watch(func(name string) { seen = append(seen, name) })

	require.NoError(t, reg.DefinePart("a", ""))
	require.NoError(t, reg.DefinePart("b", ""))
	require.NoError(t, reg.DefinePart("a", ""))

	assert.Equal(t, []string{"a"}, seen)
}
