package model

import (
	"sort"
	"strings"
)

// Module is the single-owner context of one generation run. It is filled by
// the parser, ordered by the resolver and consumed once by the emitter.
type Module struct {
	Name      string
	Namespace string

	Types    []*Type
	includes []string // sorted, unique

	// Package directive ------------------------------------------------------
	ModelTypesOverrides      bool
	ModelPropertiesOverrides bool
	RenderTypesOverrides     bool
	RenderCustomResources    bool
	Dependencies             []string

	// Headers carrying AGEA_ar_model_overrides() / AGEA_ar_render_overrides()
	ModelOverrides  []string
	RenderOverrides []string
}

func NewModule(name, namespace string) *Module {
	return &Module{
		Name:      strings.TrimSpace(name),
		Namespace: strings.TrimSpace(namespace),
	}
}

// FullName is the module qualified with its namespace, "agea::root".
func (m *Module) FullName() string {
	if m.Namespace == "" {
		return m.Name
	}
	return m.Namespace + "::" + m.Name
}

// QualifyType builds the full name of a type declared in this module.
func (m *Module) QualifyType(name string) string {
	return m.FullName() + "::" + name
}

// AddInclude inserts path into the sorted include set.
func (m *Module) AddInclude(path string) {
	idx := sort.SearchStrings(m.includes, path)
	if idx < len(m.includes) && m.includes[idx] == path {
		return
	}
	m.includes = append(m.includes, "")
	copy(m.includes[idx+1:], m.includes[idx:])
	m.includes[idx] = path
}

// Includes returns the sorted include set.
func (m *Module) Includes() []string {
	return m.includes
}

// HasRender reports whether a render registration source is generated.
func (m *Module) HasRender() bool {
	return m.RenderTypesOverrides || m.RenderCustomResources
}

// Find returns the first type with the given short name.
func (m *Module) Find(name string) *Type {
	for _, t := range m.Types {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Classes returns the class types in their current order.
func (m *Module) Classes() []*Type {
	out := make([]*Type, 0, len(m.Types))
	for _, t := range m.Types {
		if t.Kind == KindClass {
			out = append(out, t)
		}
	}
	return out
}
