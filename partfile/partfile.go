// Package partfile loads shader part definitions from HCL files.
//
// A part file holds any number of part blocks:
//
//	part "renpy.texture" {
//	  variables = <<-EOT
//	    uniform sampler2D uTex0;
//	    attribute vec2 aTexCoord;
//	    varying vec2 vTexCoord;
//	  EOT
//
//	  vertex {
//	    priority = 110
//	    code     = "vTexCoord = aTexCoord;"
//	  }
//
//	  fragment {
//	    priority = 110
//	    code     = "gl_FragColor = texture2D(uTex0, vTexCoord.xy);"
//	  }
//	}
//
// variables is either a string with one declaration per line or a list of
// declaration strings. The stage of a snippet is the type of its block;
// snippets keep their file order within a stage.
package partfile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/gogpu/shaderparts"
)

// Extension is the file extension LoadFS looks for.
const Extension = ".hcl"

// Definition is a part read from a file, ready to be registered.
type Definition struct {
	Name      string
	Variables string
	Snippets  []shaderparts.Snippet
	Filename  string
}

// Option configures a Loader.
type Option func(*Loader)

// WithVariables makes vars available to expressions in part files, for
// example:
//
//	loader := partfile.NewLoader(partfile.WithVariables(map[string]cty.Value{
//	    "base": cty.NumberIntVal(100),
//	}))
//
// lets a file write "priority = base + 10".
func WithVariables(vars map[string]cty.Value) Option {
	return func(l *Loader) {
		for k, v := range vars {
			l.vars[k] = v
		}
	}
}

// Loader parses part files.
//
// Parsed files are kept by name for WriteDiagnostics. Parse rejects a
// filename it has already seen; LoadFS starts from an empty set on every
// call, so reloading a directory reads the current contents.
type Loader struct {
	parser *hclparse.Parser
	vars   map[string]cty.Value
}

// NewLoader creates a loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		parser: hclparse.NewParser(),
		vars:   make(map[string]cty.Value),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// hclFile is the top-level structure of a part file.
type hclFile struct {
	Parts []*hclPart `hcl:"part,block"`
}

// hclPart is a single part block.
type hclPart struct {
	Name      string         `hcl:"name,label"`
	Variables hcl.Expression `hcl:"variables,optional"`
	Vertex    []*hclSnippet  `hcl:"vertex,block"`
	Fragment  []*hclSnippet  `hcl:"fragment,block"`
}

// hclSnippet is a vertex or fragment block.
type hclSnippet struct {
	Priority int    `hcl:"priority"`
	Code     string `hcl:"code"`
}

// Parse decodes the part definitions in src. filename is used in
// diagnostics only.
func (l *Loader) Parse(src []byte, filename string) ([]Definition, error) {
	if _, seen := l.parser.Files()[filename]; seen {
		return nil, fmt.Errorf("failed to parse part file %s: %w", filename, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Duplicate part file",
			Detail:   fmt.Sprintf("%s was already parsed by this loader.", filename),
		}})
	}
	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse part file %s: %w", filename, diags)
	}

	ctx := l.evalContext()
	var parsed hclFile
	diags = gohcl.DecodeBody(file.Body, ctx, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode part file %s: %w", filename, diags)
	}

	defs := make([]Definition, 0, len(parsed.Parts))
	for _, p := range parsed.Parts {
		def, diags := newDefinition(p, ctx)
		def.Filename = filename
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid part %q in %s: %w", p.Name, filename, diags)
		}
		defs = append(defs, def)
	}

	shaderparts.Logger().Debug("partfile: parsed part file", "file", filename, "parts", len(defs))
	return defs, nil
}

// LoadFS parses every part file in fsys, walking directories in lexical
// order. Files without the Extension suffix are ignored. Files parsed by
// earlier calls are forgotten.
func (l *Loader) LoadFS(fsys fs.FS) ([]Definition, error) {
	l.parser = hclparse.NewParser()

	var defs []Definition
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(path.Ext(p), Extension) {
			return nil
		}
		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		parsed, err := l.Parse(src, p)
		if err != nil {
			return err
		}
		defs = append(defs, parsed...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return defs, nil
}

// WriteDiagnostics renders the HCL diagnostics carried by err, with source
// snippets from the files this loader parsed. Errors that carry no
// diagnostics are written as a single line.
func (l *Loader) WriteDiagnostics(w io.Writer, err error) error {
	var diags hcl.Diagnostics
	if !errors.As(err, &diags) {
		_, werr := fmt.Fprintln(w, err)
		return werr
	}
	return hcl.NewDiagnosticTextWriter(w, l.parser.Files(), 78, false).WriteDiagnostics(diags)
}

func (l *Loader) evalContext() *hcl.EvalContext {
	if len(l.vars) == 0 {
		return nil
	}
	return &hcl.EvalContext{Variables: l.vars}
}

func newDefinition(p *hclPart, ctx *hcl.EvalContext) (Definition, hcl.Diagnostics) {
	def := Definition{Name: p.Name}

	vars, diags := variablesText(p.Variables, ctx)
	if diags.HasErrors() {
		return def, diags
	}
	def.Variables = vars

	for _, s := range p.Vertex {
		def.Snippets = append(def.Snippets, shaderparts.Snippet{Stage: shaderparts.StageVertex, Priority: s.Priority, Code: s.Code})
	}
	for _, s := range p.Fragment {
		def.Snippets = append(def.Snippets, shaderparts.Snippet{Stage: shaderparts.StageFragment, Priority: s.Priority, Code: s.Code})
	}
	return def, diags
}

// variablesText evaluates the variables attribute, which may be a string
// or a list of strings, into a declaration block.
func variablesText(expr hcl.Expression, ctx *hcl.EvalContext) (string, hcl.Diagnostics) {
	if expr == nil {
		return "", nil
	}
	val, diags := expr.Value(ctx)
	if diags.HasErrors() {
		return "", diags
	}
	if val.IsNull() {
		return "", diags
	}
	if !val.IsWhollyKnown() {
		return "", append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unknown variables value",
			Subject:  expr.Range().Ptr(),
		})
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), diags
	case ty.IsListType() || ty.IsTupleType():
		lines := make([]string, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			if elem.IsNull() || elem.Type() != cty.String {
				return "", append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid variables value",
					Detail:   "Each element of variables must be a declaration string.",
					Subject:  expr.Range().Ptr(),
				})
			}
			lines = append(lines, elem.AsString())
		}
		return strings.Join(lines, "\n"), diags
	default:
		return "", append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid variables value",
			Detail:   fmt.Sprintf("variables must be a string or a list of strings, not %s.", ty.FriendlyName()),
			Subject:  expr.Range().Ptr(),
		})
	}
}

// Register defines every part in defs, in order. It stops at the first
// definition the registry rejects.
func Register(reg *shaderparts.Registry, defs []Definition) error {
	seen := make(map[string]string, len(defs))
	for _, def := range defs {
		if prev, ok := seen[def.Name]; ok {
			shaderparts.Logger().Warn("partfile: part defined more than once",
				"part", def.Name, "first", prev, "again", def.Filename)
		}
		seen[def.Name] = def.Filename

		if err := reg.DefinePart(def.Name, def.Variables, def.Snippets...); err != nil {
			return fmt.Errorf("%s: %w", def.Filename, err)
		}
	}
	return nil
}

// LoadFS loads every part file in fsys and registers the parts in reg.
func LoadFS(reg *shaderparts.Registry, fsys fs.FS, opts ...Option) error {
	defs, err := NewLoader(opts...).LoadFS(fsys)
	if err != nil {
		return err
	}
	return Register(reg, defs)
}
