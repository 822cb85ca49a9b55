package shaderparts

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Storage is the storage qualifier of a shader variable.
type Storage uint8

const (
	// StorageAttribute is a per-vertex input.
	StorageAttribute Storage = iota + 1
	// StorageUniform is a per-draw constant.
	StorageUniform
	// StorageVarying is interpolated from the vertex to the fragment stage.
	StorageVarying
)

// String returns the GLSL keyword for s.
func (s Storage) String() string {
	switch s {
	case StorageAttribute:
		return "attribute"
	case StorageUniform:
		return "uniform"
	case StorageVarying:
		return "varying"
	default:
		return fmt.Sprintf("Storage(%d)", uint8(s))
	}
}

// ParseStorage parses a GLSL storage keyword.
func ParseStorage(s string) (Storage, bool) {
	switch s {
	case "attribute":
		return StorageAttribute, true
	case "uniform":
		return StorageUniform, true
	case "varying":
		return StorageVarying, true
	default:
		return 0, false
	}
}

// Variable is a declared shader variable.
type Variable struct {
	Storage Storage
	Type    string
	Name    string
}

// String renders the declaration, e.g. "uniform mat4 uTransform;".
func (v Variable) String() string {
	return v.Storage.String() + " " + v.Type + " " + v.Name + ";"
}

// Compare orders variables by storage keyword, then type, then name.
// The storage constants are declared in keyword order, so comparing them
// numerically matches comparing the keywords.
func (v Variable) Compare(o Variable) int {
	if c := cmp.Compare(v.Storage, o.Storage); c != 0 {
		return c
	}
	if c := strings.Compare(v.Type, o.Type); c != 0 {
		return c
	}
	return strings.Compare(v.Name, o.Name)
}

// sortVariables sorts vs by triple and drops duplicates.
func sortVariables(vs []Variable) []Variable {
	slices.SortFunc(vs, Variable.Compare)
	return slices.Compact(vs)
}

// Diagnostic describes a variable declaration line that was skipped.
type Diagnostic struct {
	Line   int // 1-based line number within the variable block
	Text   string
	Reason string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %q: %s", d.Line, d.Text, d.Reason)
}

// ParseVariables parses a variable block with one declaration per line:
//
//	uniform sampler2D uTex0;
//	attribute vec2 aTexCoord;
//
// Surrounding spaces and semicolons are ignored and blank lines skipped.
// Lines that are not "storage type name" are reported as diagnostics and
// dropped; they never cause an error.
func ParseVariables(block string) ([]Variable, []Diagnostic) {
	var (
		vars  []Variable
		diags []Diagnostic
	)
	for i, line := range strings.Split(block, "\n") {
		line = strings.Trim(line, " \t\r;")
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 3 {
			diags = append(diags, Diagnostic{
				Line:   i + 1,
				Text:   line,
				Reason: "want '{uniform,attribute,varying} type name'",
			})
			continue
		}
		storage, ok := ParseStorage(fields[0])
		if !ok {
			diags = append(diags, Diagnostic{
				Line:   i + 1,
				Text:   line,
				Reason: fmt.Sprintf("unknown storage %q", fields[0]),
			})
			continue
		}
		vars = append(vars, Variable{Storage: storage, Type: fields[1], Name: fields[2]})
	}
	return vars, diags
}
