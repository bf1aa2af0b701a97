package emitter

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/cmmoran/argen/internal/model"
	"github.com/cmmoran/argen/internal/output"
	"github.com/cmmoran/argen/pkg/generator"
)

var funcs = template.FuncMap{
	"indent": indent,
	"lines":  lines,
	"join":   strings.Join,
}

// indent prefixes every non-empty line of s with n spaces.
func indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}

// lines indents a statement list, one statement per line.
func lines(n int, stmts []string) string {
	return indent(n, strings.Join(stmts, "\n"))
}

var (
	modelTmpl     = parse("model", modelTemplate)
	resolversTmpl = parse("resolvers", resolversTemplate)
	importerTmpl  = parse("importer", importerTemplate)
	classTmpl     = parse("class", classTemplate)
	packageTmpl   = parse("package", packageTemplate)
	builderTmpl   = parse("builder", builderTemplate)
	renderTmpl    = parse("render", renderTemplate)
)

func parse(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).Parse(text))
}

// Emitter renders the artifacts of one resolved module.
type Emitter struct {
	module *model.Module
	layout generator.Layout
	logger *slog.Logger
}

func New(m *model.Module, layout generator.Layout, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{module: m, layout: layout, logger: logger}
}

// data is the root value every template executes against.
type data struct {
	Module      *model.Module
	Types       []*typeView
	Sorted      []*typeView // by full name
	Classes     []*typeView
	Reversed    []*typeView
	Scripted    []*typeView // classes and structs
	RenderTypes []*typeView // classes carrying a render hook
}

func (e *Emitter) data() (*data, error) {
	d := &data{Module: e.module}
	for _, t := range e.module.Types {
		v, err := newTypeView(e.module, t)
		if err != nil {
			return nil, err
		}
		d.Types = append(d.Types, v)
		if v.IsClass() {
			d.Classes = append(d.Classes, v)
			if len(v.Render) > 0 {
				d.RenderTypes = append(d.RenderTypes, v)
			}
		}
		if v.IsClass() || v.IsStruct() {
			d.Scripted = append(d.Scripted, v)
		}
	}
	d.Sorted = byFullName(d.Types)
	d.Reversed = reversed(d.Types)
	return d, nil
}

type artifact struct {
	path string
	tmpl *template.Template
	data any
}

// Emit renders every artifact into set. Nothing is added when a type cannot
// be rendered.
func (e *Emitter) Emit(set *output.Set) error {
	d, err := e.data()
	if err != nil {
		return err
	}

	files := []artifact{
		{e.layout.ModelSource(), modelTmpl, d},
		{e.layout.TypesResolvers(), resolversTmpl, d},
		{e.layout.ScriptImporter(), importerTmpl, d},
		{e.layout.PackageHeader(), packageTmpl, d},
		{e.layout.TypesBuilderHeader(), builderTmpl, d},
	}
	for _, c := range d.Classes {
		files = append(files, artifact{e.layout.ClassHeader(c.Name), classTmpl, c})
	}
	if e.module.HasRender() {
		files = append(files, artifact{e.layout.RenderSource(), renderTmpl, d})
	}

	rendered := make(map[string]string, len(files))
	for _, f := range files {
		var buf bytes.Buffer
		if err := f.tmpl.Execute(&buf, f.data); err != nil {
			return fmt.Errorf("executing %s template: %w", f.tmpl.Name(), err)
		}
		rendered[f.path] = buf.String()
	}
	for _, f := range files {
		set.AddString(f.path, rendered[f.path])
		e.logger.Debug("Rendered artifact", "module", e.module.Name, "path", f.path)
	}
	e.logger.Info("Generated module sources", "module", e.module.Name, "files", len(files), "types", len(d.Types))
	return nil
}
