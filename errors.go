package shaderparts

import (
	"errors"
	"fmt"
)

// Sentinel errors for shaderparts. Use errors.Is to match the typed errors
// below against these.
var (
	// ErrInvalidPartDefinition is matched by InvalidPartDefinitionError.
	ErrInvalidPartDefinition = errors.New("shaderparts: invalid part definition")

	// ErrUnknownPart is matched by UnknownPartError.
	ErrUnknownPart = errors.New("shaderparts: unknown shader part")

	// ErrShaderBuild is matched by ShaderBuildError.
	ErrShaderBuild = errors.New("shaderparts: shader build failed")

	// ErrCacheClosed is returned by Cache.Get after Cache.Close.
	ErrCacheClosed = errors.New("shaderparts: cache closed")
)

// InvalidPartDefinitionError is returned when a part definition cannot be
// registered. The registry is left unchanged for that name.
type InvalidPartDefinitionError struct {
	Part   string
	Key    string // offending snippet key or stage, if any
	Reason string
}

func (e *InvalidPartDefinitionError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("shaderparts: invalid part %q: %s", e.Part, e.Reason)
	}
	return fmt.Sprintf("shaderparts: invalid part %q: key %q: %s", e.Part, e.Key, e.Reason)
}

// Is reports whether target is ErrInvalidPartDefinition.
func (e *InvalidPartDefinitionError) Is(target error) bool {
	return target == ErrInvalidPartDefinition
}

// UnknownPartError is returned when a requested part name is not registered.
type UnknownPartError struct {
	Name string
}

func (e *UnknownPartError) Error() string {
	return fmt.Sprintf("shaderparts: unknown shader part %q", e.Name)
}

// Is reports whether target is ErrUnknownPart.
func (e *UnknownPartError) Is(target error) bool {
	return target == ErrUnknownPart
}

// ShaderBuildError reports a compile or link failure from a Builder.
//
// For compile failures Stage names the failing stage and Link is false.
// For link failures Link is true and Stage is zero.
type ShaderBuildError struct {
	Stage Stage
	Link  bool
	Log   string // compiler or linker diagnostic text
	Err   error  // underlying error, if any
}

func (e *ShaderBuildError) Error() string {
	var what string
	switch {
	case e.Link:
		what = "link failed"
	case e.Stage.Valid():
		what = e.Stage.String() + " shader compile failed"
	default:
		what = "build failed"
	}
	switch {
	case e.Log != "":
		return "shaderparts: " + what + ": " + e.Log
	case e.Err != nil:
		return "shaderparts: " + what + ": " + e.Err.Error()
	default:
		return "shaderparts: " + what
	}
}

// Is reports whether target is ErrShaderBuild.
func (e *ShaderBuildError) Is(target error) bool {
	return target == ErrShaderBuild
}

// Unwrap returns the underlying error.
func (e *ShaderBuildError) Unwrap() error {
	return e.Err
}
