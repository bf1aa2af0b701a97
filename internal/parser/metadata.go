package parser

import (
	"strings"

	"github.com/cmmoran/argen/internal/model"
	"github.com/cmmoran/argen/internal/scanner"
)

// Property metadata keys.
const (
	keyCategory           = "category"
	keySerializable       = "serializable"
	keyAccess             = "access"
	keyDefault            = "default"
	keyGPUData            = "gpu_data"
	keyCopyable           = "copyable"
	keyUpdatable          = "updatable"
	keyRef                = "ref"
	keyInvalidates        = "invalidates"
	keyCheck              = "check"
	keyHint               = "hint"
	keySerHandler         = "property_ser_handler"
	keyDesHandler         = "property_des_handler"
	keyLoadDeriveHandler  = "property_load_derive_handler"
	keyCompareHandler     = "property_compare_handler"
	keyCopyHandler        = "property_copy_handler"
	keyInstantiateHandler = "property_instantiate_handler"
)

// Type metadata keys.
const (
	keyArchitype         = "architype"
	keyBuiltIn           = "built_in"
	keyScriptSupport     = "script_support"
	keyRenderConstructor = "render_constructor"
	keyRenderDestructor  = "render_destructor"
)

// Package directive keys.
const (
	keyModelTypesOverrides      = "model.has_types_overrides"
	keyModelPropertiesOverrides = "model.has_properties_overrides"
	keyRenderOverrides          = "render.has_overrides"
	keyRenderResources          = "render.has_resources"
	keyDependencies             = "dependancies"
	keyDependenciesAlias        = "dependencies"
)

func typeHandler(t *model.Type, key string) **string {
	switch key {
	case "copy_handler":
		return &t.Handlers.Copy
	case "compare_handler":
		return &t.Handlers.Compare
	case "serialize_handler":
		return &t.Handlers.Serialize
	case "deserialize_handler":
		return &t.Handlers.Deserialize
	case "to_string_handler":
		return &t.Handlers.ToString
	case "instantiate_handler":
		return &t.Handlers.Instantiate
	case "load_derive_handler":
		return &t.Handlers.LoadDerive
	case keyArchitype:
		return &t.Architype
	case keyRenderConstructor:
		return &t.RenderConstructor
	case keyRenderDestructor:
		return &t.RenderDestructor
	}
	return nil
}

func propertyHandler(p *model.Property, key string) **string {
	switch key {
	case keySerHandler:
		return &p.SerializeHandler
	case keyDesHandler:
		return &p.DeserializeHandler
	case keyLoadDeriveHandler:
		return &p.LoadDeriveHandler
	case keyCompareHandler:
		return &p.CompareHandler
	case keyCopyHandler:
		return &p.CopyHandler
	case keyInstantiateHandler:
		return &p.InstantiateHandler
	case keyGPUData:
		return &p.GPUData
	}
	return nil
}

// typeAttributes records type metadata. Handler overrides are kept as
// written; whether they take effect depends on the module flags and is
// decided once every file was read.
func (fp *fileParser) typeAttributes(t *model.Type, attrs []string, line int) error {
	for _, attr := range attrs {
		key, value, ok := scanner.KeyValue(attr)
		if !ok {
			return fp.errorf(line, ErrInvalidProperty, "expected key=value, got '%s'", attr)
		}

		if dst := typeHandler(t, key); dst != nil {
			v := value
			*dst = &v
			continue
		}

		switch key {
		case keyBuiltIn:
			b, err := fp.trueFalse(key, value, line)
			if err != nil {
				return err
			}
			if t.Kind != model.KindExternal {
				return fp.errorf(line, ErrInvalidProperty, "%s is only valid on external types", key)
			}
			t.BuiltIn = b
		case keyScriptSupport:
			b, err := fp.trueFalse(key, value, line)
			if err != nil {
				return err
			}
			t.ScriptSupport = b
		default:
			return fp.errorf(line, ErrInvalidProperty, "unsupported type key: '%s'", key)
		}
	}
	return nil
}

func (fp *fileParser) propertyAttributes(prop *model.Property, attrs []string, line int) error {
	for _, attr := range attrs {
		key, value, ok := scanner.KeyValue(attr)
		if !ok {
			return fp.errorf(line, ErrInvalidProperty, "expected key=value, got '%s'", attr)
		}

		if dst := propertyHandler(prop, key); dst != nil {
			v := value
			*dst = &v
			continue
		}

		var err error
		switch key {
		case keyCategory:
			prop.Category = value
		case keyAccess:
			access, ok := model.ParseAccess(value)
			if !ok {
				return fp.errorf(line, ErrInvalidProperty, "access must be one of %v, got '%s'", model.AccessModes, value)
			}
			prop.Access = access
		case keySerializable:
			prop.Serializable, err = fp.trueFalse(key, value, line)
		case keyDefault:
			prop.HasDefault, err = fp.trueFalse(key, value, line)
		case keyRef:
			prop.Ref, err = fp.trueFalse(key, value, line)
		case keyCopyable:
			prop.Copyable, err = fp.yesNo(key, value, line)
		case keyUpdatable:
			prop.Updatable, err = fp.yesNo(key, value, line)
		case keyInvalidates:
			for _, v := range scanner.List(value) {
				switch v {
				case "render":
					prop.InvalidatesRender = true
				case "transform":
					prop.InvalidatesTransform = true
				default:
					return fp.errorf(line, ErrInvalidProperty, "invalidates must list render or transform, got '%s'", v)
				}
			}
		case keyCheck:
			for _, v := range scanner.List(value) {
				if v != "not_same" {
					return fp.errorf(line, ErrInvalidProperty, "check must be not_same, got '%s'", v)
				}
				prop.CheckNotSame = true
			}
		case keyHint:
			hints := scanner.List(value)
			for i, h := range hints {
				hints[i] = `"` + h + `"`
			}
			prop.Hint = strings.Join(hints, ",")
		default:
			return fp.errorf(line, ErrInvalidProperty, "unsupported property key: '%s'", key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (fp *fileParser) packageAttributes(attrs []string, line int) error {
	m := fp.module
	for _, attr := range attrs {
		key, value, ok := scanner.KeyValue(attr)
		if !ok {
			return fp.errorf(line, ErrInvalidProperty, "expected key=value, got '%s'", attr)
		}

		var err error
		switch key {
		case keyModelTypesOverrides:
			m.ModelTypesOverrides, err = fp.trueFalse(key, value, line)
		case keyModelPropertiesOverrides:
			m.ModelPropertiesOverrides, err = fp.trueFalse(key, value, line)
		case keyRenderOverrides:
			m.RenderTypesOverrides, err = fp.trueFalse(key, value, line)
		case keyRenderResources:
			m.RenderCustomResources, err = fp.trueFalse(key, value, line)
		case keyDependencies, keyDependenciesAlias:
			m.Dependencies = m.Dependencies[:0]
			for _, dep := range strings.Split(value, ":") {
				if dep = strings.TrimSpace(dep); dep != "" {
					m.Dependencies = append(m.Dependencies, dep)
				}
			}
		default:
			return fp.errorf(line, ErrInvalidProperty, "unsupported package key: '%s'", key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (fp *fileParser) trueFalse(key, value string, line int) (bool, error) {
	switch value {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fp.errorf(line, invalidBool, "%s must be 'true' or 'false', got '%s'", key, value)
}

func (fp *fileParser) yesNo(key, value string, line int) (bool, error) {
	switch value {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	}
	return false, fp.errorf(line, invalidBool, "%s must be 'yes' or 'no', got '%s'", key, value)
}
