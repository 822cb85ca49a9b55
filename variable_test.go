package shaderparts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariables(t *testing.T) {
	vars, diags := ParseVariables(`
		uniform sampler2D uTex0;
		attribute vec2 aTexCoord
		varying vec2 vTexCoord ;

	`)

	require.Empty(t, diags)
	assert.Equal(t, []Variable{
		{StorageUniform, "sampler2D", "uTex0"},
		{StorageAttribute, "vec2", "aTexCoord"},
		{StorageVarying, "vec2", "vTexCoord"},
	}, vars)
}

func TestParseVariablesDiagnostics(t *testing.T) {
	vars, diags := ParseVariables("uniform mat4;\nuniform mat4 uTransform;\nconst float kPi 3.14;\nin vec4 aPosition;")

	assert.Equal(t, []Variable{{StorageUniform, "mat4", "uTransform"}}, vars)
	require.Len(t, diags, 3)
	assert.Equal(t, 1, diags[0].Line)
	assert.Equal(t, "uniform mat4", diags[0].Text)
	assert.Equal(t, 3, diags[1].Line)
	assert.Equal(t, 4, diags[2].Line)
	assert.Contains(t, diags[2].Reason, `"in"`)
	assert.Contains(t, diags[0].String(), "line 1")
}

func TestParseVariablesEmpty(t *testing.T) {
	vars, diags := ParseVariables("")
	assert.Empty(t, vars)
	assert.Empty(t, diags)
}

func TestVariableString(t *testing.T) {
	v := Variable{StorageUniform, "mat4", "uTransform"}
	assert.Equal(t, "uniform mat4 uTransform;", v.String())
}

func TestVariableCompare(t *testing.T) {
	vs := []Variable{
		{StorageVarying, "vec2", "vTexCoord"},
		{StorageUniform, "sampler2D", "uTex0"},
		{StorageUniform, "mat4", "uTransform"},
		{StorageAttribute, "vec4", "aPosition"},
		{StorageAttribute, "vec2", "aTexCoord"},
		{StorageUniform, "mat4", "uTransform"},
	}

	got := sortVariables(vs)

	assert.Equal(t, []Variable{
		{StorageAttribute, "vec2", "aTexCoord"},
		{StorageAttribute, "vec4", "aPosition"},
		{StorageUniform, "mat4", "uTransform"},
		{StorageUniform, "sampler2D", "uTex0"},
		{StorageVarying, "vec2", "vTexCoord"},
	}, got)
}

func TestStorageOrderMatchesKeywords(t *testing.T) {
	all := []Storage{StorageAttribute, StorageUniform, StorageVarying}
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].String(), all[i].String())
	}
}

func TestParseStorage(t *testing.T) {
	for _, s := range []Storage{StorageAttribute, StorageUniform, StorageVarying} {
		got, ok := ParseStorage(s.String())
		assert.True(t, ok)
		assert.Equal(t, s, got)
	}
	_, ok := ParseStorage("const")
	assert.False(t, ok)
}
