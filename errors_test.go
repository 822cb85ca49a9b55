package shaderparts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&InvalidPartDefinitionError{Part: "p", Key: "vertex_abc", Reason: "priority is not an integer"},
			`shaderparts: invalid part "p": key "vertex_abc": priority is not an integer`},
		{&InvalidPartDefinitionError{Part: "p", Reason: "empty"},
			`shaderparts: invalid part "p": empty`},
		{&UnknownPartError{Name: "x"}, `shaderparts: unknown shader part "x"`},
		{&ShaderBuildError{Stage: StageVertex, Log: "bad"}, "shaderparts: vertex shader compile failed: bad"},
		{&ShaderBuildError{Link: true, Log: "mismatch"}, "shaderparts: link failed: mismatch"},
		{&ShaderBuildError{}, "shaderparts: build failed"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestErrorSentinels(t *testing.T) {
	assert.True(t, errors.Is(&InvalidPartDefinitionError{}, ErrInvalidPartDefinition))
	assert.True(t, errors.Is(&UnknownPartError{}, ErrUnknownPart))
	assert.True(t, errors.Is(&ShaderBuildError{}, ErrShaderBuild))

	assert.False(t, errors.Is(&UnknownPartError{}, ErrShaderBuild))
	assert.False(t, errors.Is(&ShaderBuildError{}, ErrUnknownPart))
}
