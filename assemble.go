package shaderparts

import (
	"cmp"
	"slices"
	"strings"

	"github.com/gogpu/naga/glsl"
)

// DefaultPrecision is the float precision declared in fragment shaders.
const DefaultPrecision = "highp"

// Assembler merges parts into complete shader source.
//
// The zero value is not usable; create one with NewAssembler.
// An Assembler holds no mutable state and is safe for concurrent use.
type Assembler struct {
	version   *glsl.Version
	precision string
}

// NewAssembler creates an assembler with the given options.
func NewAssembler(opts ...AssembleOption) *Assembler {
	a := &Assembler{precision: DefaultPrecision}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var defaultAssembler = NewAssembler()

// Assemble builds stage source from parts with the default assembler.
func Assemble(parts []*Part, stage Stage) string {
	return defaultAssembler.Assemble(parts, stage)
}

// Assemble builds the source text for one stage.
//
// The output is, in order: an optional #version line, the precision
// preamble (fragment stage only), the union of the parts' variables for
// the stage sorted by (storage, type, name), and a main function holding
// every snippet of the stage ordered by priority. Snippets with equal
// priority keep their order across and within parts.
//
// The result depends only on the inputs, so equal inputs give
// byte-identical text.
func (a *Assembler) Assemble(parts []*Part, stage Stage) string {
	if !stage.Valid() {
		return ""
	}
	i := stageIndex(stage)

	var (
		vars     []Variable
		snippets []Snippet
	)
	for _, p := range parts {
		vars = append(vars, p.vars[i]...)
		snippets = append(snippets, p.snippets[i]...)
	}
	vars = sortVariables(vars)
	slices.SortStableFunc(snippets, func(x, y Snippet) int {
		return cmp.Compare(x.Priority, y.Priority)
	})

	var b strings.Builder
	a.writeHeader(&b, stage)
	for _, v := range vars {
		b.WriteString(v.String())
		b.WriteByte('\n')
	}
	b.WriteString("\nvoid main() {\n")
	for _, s := range snippets {
		b.WriteString(s.Code)
		if !strings.HasSuffix(s.Code, "\n") {
			b.WriteByte('\n')
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func (a *Assembler) writeHeader(b *strings.Builder, stage Stage) {
	if a.version != nil {
		b.WriteString("#version ")
		b.WriteString(versionDirective(*a.version))
		b.WriteByte('\n')
	}
	if stage == StageFragment {
		b.WriteString("#ifdef GL_ES\nprecision ")
		b.WriteString(a.precision)
		b.WriteString(" float;\n#endif\n")
	}
}

func versionDirective(v glsl.Version) string {
	n := int(v.Major)*100 + int(v.Minor)
	if (v.ES && n < 300) || (!v.ES && n < 150) {
		return v.VersionNumber()
	}
	return v.String()
}
