package emitter

const modelTemplate = `// Smart Object Autogenerated Reflection Layout

// clang-format off

#include "glue/type_ids.ar.h"

#include "packages/{{.Module.Name}}/package.{{.Module.Name}}.h"
#include "packages/{{.Module.Name}}/types_resolvers.ar.h"
#include "packages/{{.Module.Name}}/types_script_importer.ar.h"
{{range .Module.ModelOverrides}}#include <{{.}}>
{{end}}{{range .Module.Dependencies}}#include "packages/{{.}}/types_resolvers.ar.h"
{{end}}
#include <core/caches/caches_map.h>
#include <core/reflection/reflection_type.h>
#include <core/reflection/reflection_type_utils.h>
#include <core/reflection/lua_api.h>
#include <core/object_constructor.h>
#include <core/package_manager.h>
#include <core/package.h>
#include <core/global_state.h>

#include <sol2_unofficial/sol.h>

namespace {{.Module.FullName}}
{
{{range .Types}}
static std::unique_ptr<::agea::reflection::reflection_type> {{.Handle}};
{{- if .ScriptBound}}
static std::unique_ptr<sol::usertype<{{.Qualified}}>> {{.Name}}_lua_type;
{{- end}}
{{- end}}
{{range .Classes}}
const ::agea::reflection::reflection_type&
{{.Name}}::AR_TYPE_reflection()
{
    return *{{.Handle}};
}

std::shared_ptr<::agea::root::smart_object>
{{.Name}}::AR_TYPE_create_empty_gen_obj(const ::agea::utils::id& id)
{
    return {{.Name}}::AR_TYPE_create_empty_obj(id);
}

std::shared_ptr<{{.Name}}>
{{.Name}}::AR_TYPE_create_empty_obj(const ::agea::utils::id& id)
{
    auto s = std::make_shared<this_class>();
    s->META_set_reflection_type(&this_class::AR_TYPE_reflection());
    s->META_set_id(id);
    return s;
}

std::unique_ptr<::agea::root::base_construct_params>
{{.Name}}::AR_TYPE_create_gen_default_cparams()
{
    return std::make_unique<{{.Name}}::construct_params>();
}

::agea::utils::id
{{.Name}}::AR_TYPE_id()
{
    return AID("{{.Name}}");
}

bool
{{.Name}}::META_construct(const ::agea::root::base_construct_params& i)
{
    auto p = (this_class::construct_params*)&i;

    return construct(*p);
}
{{end}}
AGEA_gen__static_schedule(::agea::gs::state::state_stage::create,
    [](agea::gs::state& s)
    {
        package::instance().register_package_extention<package::package_types_builder>();
        package::instance().register_package_extention<package::package_types_default_objects_builder>();
    });

AGEA_gen__static_schedule(::agea::gs::state::state_stage::connect,
    [](agea::gs::state& s)
    {
        s.get_pm()->register_static_package(::{{.Module.FullName}}::package::instance());
    });

bool
package::package_model_enforcer()
{
    volatile bool has_model_types = false;
    return has_model_types;
}

bool
package::package_types_builder::build(static_package& sp)
{
    auto pkg = &::{{.Module.FullName}}::package::instance();
{{- range $t := .Types}}

    {
        const int type_id = ::agea::reflection::type_resolver<{{$t.Qualified}}>::value;
        AGEA_check(type_id != -1, "Type is not defined!");
        {{$t.Handle}} = std::make_unique<::agea::reflection::reflection_type>(type_id, AID("{{$t.Name}}"));
        auto& rt = *add(sp, {{$t.Handle}}.get());
{{lines 8 $t.Statements}}
{{- range $t.Properties}}

        {
            using type = {{$t.Qualified}};

            auto property_td = ::agea::reflection::agea_type_resolve<decltype(type::{{.Name}})>();
            auto prop_rtype  = ::agea::glob::glob_state().get_rm()->get_type(property_td.type_id);

            auto prop = std::make_shared<::agea::reflection::property>();
            auto p    = prop.get();

            {{$t.Handle}}->m_properties.emplace_back(std::move(prop));

            p->name   = "{{.NameCut}}";
            p->offset = offsetof(type, {{.Name}});
            p->rtype  = prop_rtype;
{{- with .Statements}}
{{lines 12 .}}
{{- end}}
        }
{{- end}}
    }
{{- end}}
{{- range .Scripted}}
{{- if .IsClass}}

    {
        *{{.Name}}_lua_type = ::agea::glob::glob_state().get_lua()->state().new_usertype<{{.Qualified}}>(
            "{{.Name}}", sol::no_constructor,
            "i",
            [](const char* id) -> {{.Qualified}}*
            {
                auto item = ::agea::glob::glob_state().get_instance_objects_cache()->get_item(AID(id));
                if (!item)
                {
                    return nullptr;
                }
                return item->as<{{.Qualified}}>();
            },
            "c",
            [](const char* id) -> {{.Qualified}}*
            {
                auto item = ::agea::glob::glob_state().get_class_objects_cache()->get_item(AID(id));
                if (!item)
                {
                    return nullptr;
                }
                return item->as<{{.Qualified}}>();
            }
{{- if .Parent}},
            sol::base_classes, sol::bases<{{.Parent.QualifiedName}}>()
{{- end}});

        {{.Name}}__lua_script_extention<sol::usertype<{{.Qualified}}>, {{.Qualified}}>(*{{.Name}}_lua_type);
    }
{{- else}}

    {
        *{{.Name}}_lua_type = ::agea::glob::glob_state().get_lua()->state().new_usertype<{{.Qualified}}>(
            "{{.Name}}", sol::constructors<{{join .Ctors ", "}}>());

        {{.Name}}__lua_script_extention<sol::usertype<{{.Qualified}}>, {{.Qualified}}>(*{{.Name}}_lua_type);
    }
{{- end}}
{{- end}}

    return true;
}

bool
package::package_types_builder::destroy(static_package& sp)
{
{{- range .Reversed}}
    {{.Handle}}.reset();
{{- if .ScriptBound}}
    {{.Name}}_lua_type.reset();
{{- end}}
{{- end}}

    return true;
}

bool
package::package_types_default_objects_builder::build(static_package& sp)
{
    auto pkg = &::{{.Module.FullName}}::package::instance();
{{- range .Classes}}
    pkg->create_default_class_obj<{{.Qualified}}>();
{{- end}}

    return true;
}

bool
package::package_types_default_objects_builder::destroy(static_package& sp)
{
    auto pkg = &::{{.Module.FullName}}::package::instance();
{{- range .Classes}}
    pkg->destroy_default_class_obj<{{.Qualified}}>();
{{- end}}

    return true;
}
{{- range .Classes}}
{{- range .Properties}}
{{- if .Access.HasGetter}}

{{.Type}}
{{.Owner}}::get_{{.NameCut}}() const
{
    return {{.Name}};
}
{{- end}}
{{- if .Access.HasSetter}}

void
{{.Owner}}::set_{{.NameCut}}({{.Type}} v)
{
{{lines 4 .Setter}}
}
{{- end}}
{{- end}}
{{- end}}

}
`

const resolversTemplate = `#pragma once

#include <core/reflection/types.h>

#include <glue/type_ids.ar.h>

{{range .Module.Includes}}#include "{{.}}"
{{end}}
namespace agea::reflection
{
{{- range .Sorted}}

template <>
struct type_resolver<{{.Qualified}}>
{
    enum
    {
        value = ::agea::{{.ID}}
    };
};
{{- end}}

}
`

const importerTemplate = `#pragma once
{{range .Scripted}}
template <typename T, typename K>
void
{{.Name}}__lua_script_extention(T& lua_type)
{
{{- if .Parent}}
    {{.Parent.Name}}__lua_script_extention<T, K>(lua_type);
{{- end}}
{{- range .Properties}}
{{- if .Access.ScriptGetter}}
    lua_type["get_{{.NameCut}}"] = &K::get_{{.NameCut}};
{{- end}}
{{- if .Access.ScriptSetter}}
    lua_type["set_{{.NameCut}}"] = &K::set_{{.NameCut}};
{{- end}}
{{- end}}
{{- range .Functions}}
    lua_type["{{.Name}}"] = &K::{{.Name}};
{{- end}}
}
{{end}}`

const classTemplate = `#pragma once

#define AGEA_gen_meta__{{.Name}}() \
    friend class package; \
{{- range .Properties}}
{{- if .Access.HasGetter}}
public: \
    {{.Type}} get_{{.NameCut}}() const; \
{{- end}}
{{- if .Access.HasSetter}}
public: \
    void set_{{.NameCut}}({{.Type}} v); \
{{- end}}
{{- end}}
private:
`

const packageTemplate = `#pragma once

#define AGEA_gen_meta__{{.Module.Name}}_package_model
#define AGEA_gen_meta__{{.Module.Name}}_package_render
#define AGEA_gen_meta__{{.Module.Name}}_package_builder

#if defined(AGEA_build__model)
#undef  AGEA_gen_meta__{{.Module.Name}}_package_model
#define AGEA_gen_meta__{{.Module.Name}}_package_model \
public: \
    static bool package_model_enforcer(); \
    static inline bool has_model_types = package_model_enforcer(); \
    static void \
    reset_instance() \
    { \
        instance_impl().reset(); \
    } \
    static void \
    init_instance() \
    { \
        AGEA_check(!instance_impl(), "using on existed"); \
        instance_impl() = std::make_unique<package>(); \
    } \
    static std::unique_ptr<package>& \
    instance_impl() \
    { \
        static auto instance = std::make_unique<package>(); \
        return instance; \
    } \
    static package& \
    instance() \
    { \
        AGEA_check(instance_impl(), "empty instance"); \
        return *instance_impl(); \
    } \
{{template "builder_struct" "types"}}{{template "builder_struct" "types_default_objects"}}private:
#endif

#if defined(AGEA_build__render)
#undef  AGEA_gen_meta__{{.Module.Name}}_package_render
#define AGEA_gen_meta__{{.Module.Name}}_package_render \
private: \
    static bool package_render_enforcer(); \
    static inline bool has_render_types = package_render_enforcer(); \
public: \
{{if .Module.RenderTypesOverrides}}{{template "builder_struct" "render_types"}}{{end -}}
{{if .Module.RenderCustomResources}}{{template "builder_struct" "render_custom_resource"}}{{end -}}
private:
#endif

#if defined(AGEA_build__builder)
#undef  AGEA_gen_meta__{{.Module.Name}}_package_builder
#define AGEA_gen_meta__{{.Module.Name}}_package_builder
#endif

#define AGEA_gen_meta__{{.Module.Name}}_package \
    AGEA_gen_meta__{{.Module.Name}}_package_model \
    AGEA_gen_meta__{{.Module.Name}}_package_render \
    AGEA_gen_meta__{{.Module.Name}}_package_builder
{{define "builder_struct"}}    struct package_{{.}}_builder : public ::agea::core::package_{{.}}_builder \
    { \
    public: \
        virtual bool build(::agea::core::static_package& sp) override; \
        virtual bool destroy(::agea::core::static_package& sp) override; \
    }; \
{{end}}`

const builderTemplate = `#pragma once

#include "packages/{{.Module.Name}}/package.{{.Module.Name}}.h"

namespace {{.Module.FullName}}
{

using package_types_builder                 = package::package_types_builder;
using package_types_default_objects_builder = package::package_types_default_objects_builder;

}
`

const renderTemplate = `// Smart Object Autogenerated Reflection Layout

// clang-format off

#include "packages/{{.Module.Name}}/package.{{.Module.Name}}.h"
#include "packages/{{.Module.Name}}/types_resolvers.ar.h"
#include "packages/{{.Module.Name}}/types_script_importer.ar.h"
{{range .Module.RenderOverrides}}#include <{{.}}>
{{end}}
#include <core/caches/caches_map.h>
#include <core/reflection/reflection_type.h>
#include <core/reflection/reflection_type_utils.h>
#include <core/reflection/lua_api.h>
#include <core/object_constructor.h>
#include <core/package_manager.h>
#include <core/package.h>
#include <global_state/global_state.h>
#include <glue/type_ids.ar.h>

namespace {{.Module.FullName}}
{

bool
package::package_render_enforcer()
{
    volatile bool has_render_types = false;
    return has_render_types;
}
{{- if .Module.RenderCustomResources}}

AGEA_gen__static_schedule(::agea::gs::state::state_stage::connect,
    [](::agea::gs::state& s)
    {
        package::instance().register_package_extention<package::package_render_custom_resource_builder>();
    });
{{- end}}
{{- if .Module.RenderTypesOverrides}}

AGEA_gen__static_schedule(::agea::gs::state::state_stage::connect,
    [](::agea::gs::state& s)
    {
        package::instance().register_package_extention<package::package_render_types_builder>();
    });

bool
package::package_render_types_builder::build(::agea::core::static_package& sp)
{
    auto pkg = &::{{.Module.FullName}}::package::instance();
{{- range .RenderTypes}}

    {
        auto type_rt = ::agea::glob::glob_state().get_rm()->get_type(::agea::{{.ID}});
        AGEA_check(type_rt, "Type is not defined!");
{{lines 8 .Render}}
    }
{{- end}}

    return true;
}

bool
package::package_render_types_builder::destroy(::agea::core::static_package&)
{
    return true;
}
{{- end}}

}
`
