package emitter

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cmmoran/argen/internal/model"
)

var ErrUnknownKind = errors.New("unknown type kind")

// typeView is a type prepared for the templates.
type typeView struct {
	*model.Type

	Handle     string // reflection_type handle variable
	Qualified  string
	Statements []string
	Render     []string
	Properties []*propertyView
}

func (v *typeView) IsClass() bool  { return v.Kind == model.KindClass }
func (v *typeView) IsStruct() bool { return v.Kind == model.KindStruct }

// Ctors lists the constructor signatures bound to sol::constructors.
func (v *typeView) Ctors() []string {
	out := make([]string, len(v.Constructors))
	for i, c := range v.Constructors {
		out[i] = c.Signature
	}
	return out
}

type propertyView struct {
	*model.Property

	Statements []string
	Setter     []string
}

func newTypeView(m *model.Module, t *model.Type) (*typeView, error) {
	if !t.Kind.Valid() {
		return nil, fmt.Errorf("%w: %s is %s", ErrUnknownKind, t.FullName, t.Kind)
	}
	v := &typeView{
		Type:      t,
		Handle:    m.Name + "_" + t.Name + "_rt",
		Qualified: t.QualifiedName(),
	}
	v.Statements = typeStatements(m, t)
	v.Render = renderStatements(t)
	if t.Kind == model.KindClass {
		for _, p := range t.Properties {
			v.Properties = append(v.Properties, &propertyView{
				Property:   p,
				Statements: propertyStatements(p),
				Setter:     setterStatements(p),
			})
		}
	}
	return v, nil
}

// assign renders one aligned "lhs = rhs;" line.
func assign(lhs, rhs string) string {
	return fmt.Sprintf("%-24s = %s;", lhs, rhs)
}

// typeStatements is the ordered body of a type registration block after the
// descriptor was added to the package.
func typeStatements(m *model.Module, t *model.Type) []string {
	q := t.QualifiedName()
	out := []string{
		assign("rt.type_id", "type_id"),
		assign("rt.type_class", "::agea::reflection::reflection_type::reflection_type_class::"+t.Kind.String()),
		assign("rt.module_id", fmt.Sprintf("AID(\"%s\")", m.Name)),
		assign("rt.size", fmt.Sprintf("sizeof(%s)", q)),
	}
	if t.ScriptBound() {
		out = append(out, fmt.Sprintf("%s_lua_type = std::make_unique<sol::usertype<%s>>();", t.Name, q))
	}
	if t.Kind == model.KindClass {
		out = append(out,
			assign("rt.alloc", t.Name+"::AR_TYPE_create_empty_gen_obj"),
			assign("rt.cparams_alloc", t.Name+"::AR_TYPE_create_gen_default_cparams"),
		)
	}
	if t.Architype != nil {
		out = append(out, assign("rt.arch", "core::architype::"+*t.Architype))
	}
	if t.ParentName != "" {
		parent := t.ParentName
		if t.Parent != nil {
			parent = t.Parent.QualifiedName()
		}
		out = append(out,
			fmt.Sprintf("int parent_type_id = ::agea::reflection::type_resolver<%s>::value;", parent),
			`AGEA_check(parent_type_id != -1, "Type is not defined!");`,
			"auto parent_rt = ::agea::glob::glob_state().get_rm()->get_type(parent_type_id);",
			`AGEA_check(parent_rt, "Type is not defined!");`,
			assign("rt.parent", "parent_rt"),
		)
	}

	h := t.Handlers
	for _, s := range []struct {
		field   string
		handler *string
	}{
		{"rt.compare", h.Compare},
		{"rt.copy", h.Copy},
		{"rt.serialize", h.Serialize},
		{"rt.deserialize", h.Deserialize},
		{"rt.to_string", h.ToString},
		{"rt.instantiate", h.Instantiate},
		{"rt.load_derive", h.LoadDerive},
	} {
		if s.handler != nil {
			out = append(out, assign(s.field, *s.handler))
		}
	}
	return out
}

// renderStatements installs the render hooks of a class.
func renderStatements(t *model.Type) []string {
	var out []string
	if t.RenderConstructor != nil {
		out = append(out, assign("type_rt->render_constructor", *t.RenderConstructor))
	}
	if t.RenderDestructor != nil {
		out = append(out, assign("type_rt->render_destructor", *t.RenderDestructor))
	}
	return out
}

// propertyStatements sets the optional fields of a property descriptor.
func propertyStatements(p *model.Property) []string {
	var out []string
	if p.Category != "" {
		out = append(out, assign("p->category", fmt.Sprintf("%q", p.Category)))
	}
	if p.Hint != "" {
		out = append(out, assign("p->hints", "{"+p.Hint+"}"))
	}
	if p.GPUData != nil {
		out = append(out, assign("p->gpu_data", fmt.Sprintf("%q", *p.GPUData)))
	}
	if p.HasDefault {
		out = append(out, assign("p->has_default", "true"))
	}
	if p.Serializable {
		out = append(out, assign("p->serializable", "true"))
	}
	if p.InvalidatesRender {
		out = append(out, assign("p->render_subobject",
			fmt.Sprintf("std::is_base_of_v<::agea::root::smart_object, typename std::remove_pointer_t<%s>>", p.Type)))
	}
	for _, s := range []struct {
		field   string
		handler *string
	}{
		{"p->serialization_handler", p.SerializeHandler},
		{"p->deserialization_handler", p.DeserializeHandler},
		{"p->load_derive", p.LoadDeriveHandler},
		{"p->compare_handler", p.CompareHandler},
		{"p->copy_handler", p.CopyHandler},
		{"p->instantiate_handler", p.InstantiateHandler},
	} {
		if s.handler != nil {
			out = append(out, assign(s.field, *s.handler))
		}
	}
	return out
}

// setterStatements is the body of a generated setter.
func setterStatements(p *model.Property) []string {
	var out []string
	if p.CheckNotSame {
		out = append(out, fmt.Sprintf("if (%s == v)", p.Name), "{", "    return;", "}")
	}
	out = append(out, fmt.Sprintf("%s = v;", p.Name))
	if p.InvalidatesTransform {
		out = append(out, "mark_transform_dirty();", "update_children_matrixes();")
	}
	if p.InvalidatesRender {
		out = append(out, "mark_render_dirty();")
	}
	return out
}

// byFullName returns types sorted by full name.
func byFullName(types []*typeView) []*typeView {
	out := append([]*typeView(nil), types...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FullName < out[j].FullName
	})
	return out
}

func reversed(types []*typeView) []*typeView {
	out := make([]*typeView, len(types))
	for i, t := range types {
		out[len(types)-1-i] = t
	}
	return out
}
