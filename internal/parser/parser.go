// Package parser turns annotated header text into declarations of a
// model.Module. Each file is read in a single pass by a small state machine;
// every grammar or metadata problem is fatal and reported as a *ParseError.
package parser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cmmoran/argen/internal/model"
	"github.com/cmmoran/argen/internal/scanner"
)

// state is the set of declarations currently open in a file.
type state uint8

const (
	stateIdle     state = 0
	stateInClass  state = 1 << 0
	stateInStruct state = 1 << 1
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateInClass:
		return "in class"
	case stateInStruct:
		return "in struct"
	default:
		return "in class and struct"
	}
}

// transition describes what a marker needs and what it opens.
type transition struct {
	requires state // any of these must be open
	opens    state // must not be open yet
}

var transitions = map[scanner.Marker]transition{
	scanner.MarkerClass:    {opens: stateInClass},
	scanner.MarkerStruct:   {opens: stateInStruct},
	scanner.MarkerProperty: {requires: stateInClass},
	scanner.MarkerCtor:     {requires: stateInStruct},
	scanner.MarkerFunction: {requires: stateInClass | stateInStruct},
}

func (s state) advance(m scanner.Marker) (state, error) {
	tr, ok := transitions[m]
	if !ok {
		return s, nil
	}
	if tr.requires != 0 && s&tr.requires == 0 {
		return s, fmt.Errorf("%w: %s while %s", ErrOutsideContext, m, s)
	}
	if tr.opens != 0 {
		if s&tr.opens != 0 {
			return s, fmt.Errorf("%w: %s while %s", ErrNesting, m, s)
		}
		return s | tr.opens, nil
	}
	return s, nil
}

// Parser feeds header files into one shared module.
type Parser struct {
	module *model.Module
	logger *slog.Logger
}

func New(m *model.Module, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{module: m, logger: logger}
}

// Module returns the module being populated.
func (p *Parser) Module() *model.Module {
	return p.module
}

// ParseFile reads root/rel and parses it. rel is the path reported in errors
// and used for the include path.
func (p *Parser) ParseFile(root, rel string) error {
	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		return fmt.Errorf("read header %s: %w", rel, err)
	}
	return p.Parse(rel, string(data))
}

// Parse consumes the text of one header file.
func (p *Parser) Parse(rel, text string) error {
	rel = filepath.ToSlash(rel)
	fp := &fileParser{
		Parser:  p,
		file:    rel,
		include: IncludePath(rel),
		lines:   scanner.Split(text),
	}
	if err := fp.run(); err != nil {
		return err
	}
	p.logger.Log(context.Background(), slog.Level(-8), "parsed header", "file", rel, "include", fp.include)
	return nil
}

// IncludePath is the include-relative form of a header path: everything up to
// and including the first "include/" directory is dropped.
func IncludePath(rel string) string {
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(rel, "include/") {
		return rel[len("include/"):]
	}
	if i := strings.Index(rel, "/include/"); i >= 0 {
		return rel[i+len("/include/"):]
	}
	return rel
}

type fileParser struct {
	*Parser

	file    string
	include string
	lines   *scanner.Lines

	state   state
	class   *model.Type
	strct   *model.Type
	last    *model.Type // most recently opened, receives functions
	pkgSeen bool
}

func (fp *fileParser) errorf(line int, err error, format string, args ...any) error {
	return &ParseError{File: fp.file, Line: line + 1, Err: err, Detail: fmt.Sprintf(format, args...)}
}

func (fp *fileParser) run() error {
	for i := 0; i < fp.lines.Len(); i++ {
		marker := scanner.Match(fp.lines.At(i))
		if marker == scanner.MarkerNone {
			continue
		}

		next, err := fp.state.advance(marker)
		if err != nil {
			pe := &ParseError{File: fp.file, Line: i + 1, Err: err}
			if open := fp.open(marker); open != nil {
				pe.Detail = fmt.Sprintf("%s is still open (line %d)", open.Name, open.Line)
			}
			return pe
		}

		var end int
		switch marker {
		case scanner.MarkerModelOverrides:
			fp.module.ModelOverrides = append(fp.module.ModelOverrides, fp.include)
			fp.module.AddInclude(fp.include)
			end = i
		case scanner.MarkerRenderOverrides:
			fp.module.RenderOverrides = append(fp.module.RenderOverrides, fp.include)
			fp.module.AddInclude(fp.include)
			end = i
		case scanner.MarkerPackage:
			end, err = fp.parsePackage(i)
		case scanner.MarkerExternalType:
			var t *model.Type
			if end, t, err = fp.parseExternal(i); err == nil {
				fp.module.Types = append(fp.module.Types, t)
			}
		case scanner.MarkerClass:
			var t *model.Type
			if end, t, err = fp.parseType(i, model.KindClass); err == nil {
				fp.class, fp.last = t, t
			}
		case scanner.MarkerStruct:
			var t *model.Type
			if end, t, err = fp.parseType(i, model.KindStruct); err == nil {
				fp.strct, fp.last = t, t
			}
		case scanner.MarkerProperty:
			var prop *model.Property
			if end, prop, err = fp.parseProperty(i); err == nil {
				fp.class.Properties = append(fp.class.Properties, prop)
			}
		case scanner.MarkerFunction:
			var fn *model.Function
			if end, fn, err = fp.parseFunction(i); err == nil {
				fp.last.Functions = append(fp.last.Functions, fn)
			}
		case scanner.MarkerCtor:
			var ctor *model.Constructor
			if end, ctor, err = fp.parseCtor(i); err == nil {
				fp.strct.Constructors = append(fp.strct.Constructors, ctor)
			}
		}
		if err != nil {
			return err
		}
		fp.state = next
		i = end
	}

	return fp.finish()
}

// open returns the declaration a class or struct marker would nest in.
func (fp *fileParser) open(m scanner.Marker) *model.Type {
	switch m {
	case scanner.MarkerClass:
		return fp.class
	case scanner.MarkerStruct:
		return fp.strct
	}
	return nil
}

// finish closes open declarations and registers the file include.
func (fp *fileParser) finish() error {
	for _, t := range []*model.Type{fp.class, fp.strct} {
		if t == nil {
			continue
		}
		fp.module.Types = append(fp.module.Types, t)
		fp.logger.Debug("declared type",
			"kind", t.Kind.String(),
			"name", t.FullName,
			"properties", len(t.Properties),
			"file", fp.file,
		)
	}
	fp.state = stateIdle
	fp.module.AddInclude(fp.include)
	return nil
}

// attributes extracts the attribute list of the marker on line i.
func (fp *fileParser) attributes(i int) (int, []string, error) {
	end, attrs, err := fp.lines.Attributes(i)
	if err != nil {
		return end, nil, &ParseError{File: fp.file, Line: i + 1, Err: err, Detail: scanner.Match(fp.lines.At(i)).String()}
	}
	return end, attrs, nil
}

// header returns the index of the first declaration line after from,
// skipping blank and comment lines.
func (fp *fileParser) header(from, marker int) (int, error) {
	for i := from; i < fp.lines.Len(); i++ {
		line := strings.TrimSpace(fp.lines.At(i))
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		return i, nil
	}
	return 0, fp.errorf(marker, ErrUnexpectedEOF, "%s has no declaration", scanner.Match(fp.lines.At(marker)))
}

func (fp *fileParser) parseType(i int, kind model.Kind) (int, *model.Type, error) {
	end, attrs, err := fp.attributes(i)
	if err != nil {
		return end, nil, err
	}
	hdr, err := fp.header(end+1, i)
	if err != nil {
		return end, nil, err
	}

	toks := scanner.Tokenize(fp.lines.At(hdr))
	if len(toks) == 0 {
		return hdr, nil, fp.errorf(hdr, ErrMalformedHeader, "%q", strings.TrimSpace(fp.lines.At(hdr)))
	}

	t := &model.Type{
		Name:    model.ShortName(toks[0]),
		Kind:    kind,
		Include: fp.include,
		Line:    i + 1,
	}
	t.FullName = fp.module.QualifyType(t.Name)
	if kind == model.KindClass && len(toks) > 1 {
		t.ParentName = toks[1]
	}
	if err := fp.typeAttributes(t, attrs, i); err != nil {
		return end, nil, err
	}
	return hdr, t, nil
}

func (fp *fileParser) parseExternal(i int) (int, *model.Type, error) {
	end, attrs, err := fp.attributes(i)
	if err != nil {
		return end, nil, err
	}
	hdr, err := fp.header(end+1, i)
	if err != nil {
		return end, nil, err
	}

	toks := scanner.Tokenize(fp.lines.At(hdr))
	if len(toks) == 0 {
		return hdr, nil, fp.errorf(hdr, ErrMalformedHeader, "%q", strings.TrimSpace(fp.lines.At(hdr)))
	}

	full := strings.TrimPrefix(toks[0], "::")
	t := &model.Type{
		Name:     model.ShortName(full),
		FullName: full,
		Kind:     model.KindExternal,
		Include:  fp.include,
		Line:     i + 1,
	}
	if err := fp.typeAttributes(t, attrs, i); err != nil {
		return end, nil, err
	}
	fp.logger.Debug("declared type", "kind", t.Kind.String(), "name", t.FullName, "file", fp.file)
	return hdr, t, nil
}

func (fp *fileParser) parseProperty(i int) (int, *model.Property, error) {
	end, attrs, err := fp.attributes(i)
	if err != nil {
		return end, nil, err
	}
	hdr, err := fp.header(end+1, i)
	if err != nil {
		return end, nil, err
	}

	field, ok := scanner.ParseField(fp.lines.At(hdr))
	if !ok {
		return hdr, nil, fp.errorf(hdr, ErrMalformedHeader, "field %q", strings.TrimSpace(fp.lines.At(hdr)))
	}

	prop := model.NewProperty(fp.class.Name)
	prop.Type = field.Type
	prop.Name = field.Name
	prop.NameCut = model.CutName(field.Name)
	prop.Line = hdr + 1

	if err := fp.propertyAttributes(prop, attrs, i); err != nil {
		return end, nil, err
	}
	if prop.HasDefault && !field.HasDefault {
		return hdr, nil, fp.errorf(i, ErrInvalidProperty, "property %s has 'default' metadata but no default value", prop.Name)
	}
	return hdr, prop, nil
}

func (fp *fileParser) parseFunction(i int) (int, *model.Function, error) {
	end, _, err := fp.attributes(i)
	if err != nil {
		return end, nil, err
	}
	for j := end + 1; j < fp.lines.Len(); j++ {
		line := fp.lines.At(j)
		if !strings.Contains(line, "(") {
			continue
		}
		name, ok := scanner.FunctionName(line)
		if !ok {
			return j, nil, fp.errorf(j, ErrMalformedHeader, "function %q", strings.TrimSpace(line))
		}
		return j, &model.Function{Name: name, Line: j + 1}, nil
	}
	return end, nil, fp.errorf(i, ErrUnexpectedEOF, "%s has no signature", scanner.MarkerFunction)
}

func (fp *fileParser) parseCtor(i int) (int, *model.Constructor, error) {
	end, _, err := fp.attributes(i)
	if err != nil {
		return end, nil, err
	}
	hdr, err := fp.header(end+1, i)
	if err != nil {
		return end, nil, err
	}
	last, sig, ok := fp.lines.Signature(hdr)
	if !ok {
		return last, nil, fp.errorf(hdr, ErrUnexpectedEOF, "unbalanced constructor signature")
	}
	return last, &model.Constructor{Signature: sig, Line: hdr + 1}, nil
}

func (fp *fileParser) parsePackage(i int) (int, error) {
	if fp.pkgSeen {
		return i, fp.errorf(i, ErrDuplicatePackage, "module %s", fp.module.Name)
	}
	fp.pkgSeen = true

	end, attrs, err := fp.attributes(i)
	if err != nil {
		return end, err
	}
	if err := fp.packageAttributes(attrs, i); err != nil {
		return end, err
	}
	return end, nil
}
