package model

import "fmt"

type Kind int

const (
	KindInvalid  Kind = iota
	KindClass         // polymorphic object, single inheritance, properties
	KindStruct        // script value type with constructors
	KindExternal      // pre-existing type, id assignment only
)

// String returns the reflection_type_class enumerant used by the runtime.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "agea_class"
	case KindStruct:
		return "agea_struct"
	case KindExternal:
		return "agea_external"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k == KindClass || k == KindStruct || k == KindExternal
}

// Access controls accessor generation and script exposure of a property.
type Access string

const (
	AccessNo              Access = "no"
	AccessCppReadOnly     Access = "cpp_readonly"
	AccessCppOnly         Access = "cpp_only"
	AccessCppWriteOnly    Access = "cpp_writeonly"
	AccessScriptReadOnly  Access = "script_readonly"
	AccessScriptWriteOnly Access = "script_writeonly"
	AccessReadOnly        Access = "read_only"
	AccessWriteOnly       Access = "write_only"
	AccessAll             Access = "all"
)

type accessTraits struct {
	getter, setter             bool
	scriptGetter, scriptSetter bool
}

var accessTable = map[Access]accessTraits{
	AccessNo:              {},
	AccessCppReadOnly:     {getter: true},
	AccessCppOnly:         {getter: true, setter: true},
	AccessCppWriteOnly:    {setter: true},
	AccessScriptReadOnly:  {getter: true, scriptGetter: true},
	AccessScriptWriteOnly: {setter: true, scriptSetter: true},
	AccessReadOnly:        {getter: true, scriptGetter: true},
	AccessWriteOnly:       {setter: true, scriptSetter: true},
	AccessAll:             {getter: true, setter: true, scriptGetter: true, scriptSetter: true},
}

// AccessModes lists the recognized modes in declaration order.
var AccessModes = []Access{
	AccessNo, AccessCppReadOnly, AccessCppOnly, AccessCppWriteOnly,
	AccessScriptReadOnly, AccessScriptWriteOnly,
	AccessReadOnly, AccessWriteOnly, AccessAll,
}

// ParseAccess validates s against the closed set of access modes.
func ParseAccess(s string) (Access, bool) {
	a := Access(s)
	_, ok := accessTable[a]
	return a, ok
}

func (a Access) HasGetter() bool    { return accessTable[a].getter }
func (a Access) HasSetter() bool    { return accessTable[a].setter }
func (a Access) ScriptGetter() bool { return accessTable[a].scriptGetter }
func (a Access) ScriptSetter() bool { return accessTable[a].scriptSetter }
