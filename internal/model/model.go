package model

import "strings"

// Type is one reflected declaration: an AGEA_ar_class, AGEA_ar_struct or
// AGEA_ar_external_type.
type Type struct {
	// Identity ------------------------------------------------------------
	Name     string // "mesh_component", "int8_t"
	FullName string // "agea::root::mesh_component", "std::int8_t"
	Kind     Kind
	BuiltIn  bool   // external types referenced by bare name (float, bool)
	Include  string // header the declaration came from, include-relative
	Line     int

	// Inheritance -----------------------------------------------------------
	ParentName string // as written in the class header, resolved later
	Parent     *Type  // same-module parent, set once by the resolver

	// Members ----------------------------------------------------------------
	Properties   []*Property
	Functions    []*Function
	Constructors []*Constructor

	// Metadata / Behavior --------------------------------------------------
	Handlers          Handlers
	Architype         *string
	ScriptSupport     bool
	RenderConstructor *string
	RenderDestructor  *string

	// Assigned by the resolver ---------------------------------------------
	ID string
}

// Handlers are the optional per-type handler overrides. A nil entry means
// the reflection system keeps its default.
type Handlers struct {
	Copy        *string
	Compare     *string
	Serialize   *string
	Deserialize *string
	ToString    *string
	Instantiate *string
	LoadDerive  *string
}

// QualifiedName is the name the generated C++ refers to the type by.
func (t *Type) QualifiedName() string {
	if t.BuiltIn {
		return t.Name
	}
	return "::" + t.FullName
}

// ParentShortName is ParentName stripped of any namespace qualification.
func (t *Type) ParentShortName() string {
	return ShortName(t.ParentName)
}

// ScriptBound reports whether a Lua usertype handle is generated for t.
func (t *Type) ScriptBound() bool {
	return t.Kind != KindExternal || t.ScriptSupport
}

// ShortName returns the last "::" separated segment of name.
func ShortName(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[i+2:]
	}
	return name
}

// Property is one AGEA_ar_property field of a class.
type Property struct {
	Type    string // declared C++ value type
	Name    string // raw field name, "m_mesh"
	NameCut string // accessor fragment, "mesh"
	Owner   string // owning class short name
	Line    int

	Access   Access
	Category string
	Hint     string // already quoted: `"a","b"`
	GPUData  *string

	Serializable bool
	HasDefault   bool
	Copyable     bool
	Updatable    bool
	Ref          bool
	CheckNotSame bool

	InvalidatesRender    bool
	InvalidatesTransform bool

	SerializeHandler   *string
	DeserializeHandler *string
	CompareHandler     *string
	CopyHandler        *string
	InstantiateHandler *string
	LoadDeriveHandler  *string
}

// NewProperty returns a property with the grammar defaults applied.
func NewProperty(owner string) *Property {
	return &Property{
		Owner:     owner,
		Access:    AccessNo,
		Copyable:  true,
		Updatable: true,
	}
}

// CutName strips the two character storage prefix ("m_") from a field name.
func CutName(name string) string {
	if len(name) <= 2 {
		return ""
	}
	return name[2:]
}

// Function is an AGEA_ar_function bound as a script method.
type Function struct {
	Name string
	Line int
}

// Constructor is an AGEA_ar_ctor signature of a struct, e.g. "vec3(float x)".
type Constructor struct {
	Signature string
	Line      int
}
