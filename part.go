package shaderparts

import (
	"slices"
	"strings"

	"github.com/gogpu/shaderparts/internal/ident"
)

// Reserved name prefixes for built-in parts. Reservation is a naming
// convention; Registry does not reject user parts that use them.
const (
	BuiltinPrefix  = "renpy."
	InternalPrefix = "_"
)

// IsReserved reports whether name uses a prefix reserved for built-in parts.
func IsReserved(name string) bool {
	return strings.HasPrefix(name, BuiltinPrefix) || strings.HasPrefix(name, InternalPrefix)
}

// Part is a named, immutable shader fragment: the code it contributes to
// each stage plus the variable declarations that code references.
type Part struct {
	name     string
	vars     [len(Stages)][]Variable
	snippets [len(Stages)][]Snippet
	diags    []Diagnostic
}

// NewPart builds a part from a variable block and snippets.
//
// Each snippet must target a known stage. Snippets keep their given order,
// which breaks ties between equal priorities at assembly time.
//
// A declared variable is kept for a stage only if its name occurs as a
// token in that stage's snippets. Variables used by both stages, typically
// varyings, are kept in both.
func NewPart(name, variables string, snippets ...Snippet) (*Part, error) {
	p := &Part{name: name}

	var code [len(Stages)][]string
	for _, s := range snippets {
		if !s.Stage.Valid() {
			return nil, &InvalidPartDefinitionError{
				Part:   name,
				Key:    s.Stage.String(),
				Reason: "unknown stage",
			}
		}
		i := stageIndex(s.Stage)
		p.snippets[i] = append(p.snippets[i], s)
		code[i] = append(code[i], s.Code)
	}

	var used [len(Stages)]ident.Set
	for i := range used {
		used[i] = ident.Tokens(strings.Join(code[i], "\n"))
	}

	declared, diags := ParseVariables(variables)
	p.diags = diags
	for _, v := range declared {
		for i := range used {
			if used[i].Has(v.Name) {
				p.vars[i] = append(p.vars[i], v)
			}
		}
	}
	for i := range p.vars {
		p.vars[i] = sortVariables(p.vars[i])
	}
	return p, nil
}

func stageIndex(s Stage) int {
	return int(s) - 1
}

// Name returns the part name.
func (p *Part) Name() string { return p.name }

// Variables returns the declarations referenced by the stage's code, sorted.
func (p *Part) Variables(stage Stage) []Variable {
	if !stage.Valid() {
		return nil
	}
	return slices.Clone(p.vars[stageIndex(stage)])
}

// Snippets returns the stage's snippets in definition order.
func (p *Part) Snippets(stage Stage) []Snippet {
	if !stage.Valid() {
		return nil
	}
	return slices.Clone(p.snippets[stageIndex(stage)])
}

// Diagnostics returns the variable lines skipped while building the part.
func (p *Part) Diagnostics() []Diagnostic {
	return slices.Clone(p.diags)
}
