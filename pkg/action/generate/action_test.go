package generate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmmoran/argen/internal/output"
	"github.com/cmmoran/argen/internal/parser"
	"github.com/cmmoran/argen/pkg/generator"
	"github.com/cmmoran/argen/pkg/manifest"
)

const canonical = "testdata/canonical"

func options(out string, extra ...generator.Option) *generator.Options {
	opts := []generator.Option{
		generator.WithPackageName("root"),
		generator.WithNamespace("agea"),
		generator.WithSourceDir(canonical),
		generator.WithOutputDir(out),
		generator.WithConfigList(filepath.Join(canonical, "root.ar.cfg")),
		generator.WithExclude("include/root/tests/**"),
	}
	return generator.NewOptions(append(opts, extra...)...)
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestGenerate(t *testing.T) {
	out := t.TempDir()
	opts := options(out)

	changes, err := Generate(opts, nil)
	require.NoError(t, err)

	layout := opts.Layout()
	want := []string{
		layout.ClassHeader("game_object"),
		layout.ClassHeader("smart_object"),
		layout.PackageHeader(),
		layout.TypesBuilderHeader(),
		layout.TypesResolvers(),
		layout.ScriptImporter(),
		layout.ModelSource(),
		layout.TypeIDs(),
		layout.Dependencies(),
		opts.ManifestFile,
	}
	got := make([]string, 0, len(changes))
	for _, c := range changes {
		require.Equal(t, output.OpCreate, c.Op, c.Path)
		got = append(got, c.Path)
	}
	require.ElementsMatch(t, want, got)

	src := read(t, layout.ModelSource())
	require.Less(t,
		strings.Index(src, "type_resolver<::agea::root::smart_object>::value;\n        AGEA_check(type_id"),
		strings.Index(src, "type_resolver<::agea::root::game_object>::value;\n        AGEA_check(type_id"))
	require.Contains(t, src, "core::architype::smart_object;")
	require.Contains(t, src, "::agea::root::to_string;")
	require.Contains(t, src, `#include "packages/core/types_resolvers.ar.h"`)
	require.Contains(t, src, "sol::constructors<vec3(float x, float y, float z), vec3(float v)>()")
	require.Contains(t, src, "sol::bases<::agea::root::smart_object>()")
	require.Contains(t, src, "    if (m_position == v)\n    {\n        return;\n    }\n    m_position = v;\n    mark_transform_dirty();\n    update_children_matrixes();\n    mark_render_dirty();\n}")
	require.Contains(t, src, "uint32_t\ngame_object::get_flags() const")
	require.NotContains(t, src, "set_flags")
	require.NotContains(t, src, "m_orphan")

	importer := read(t, layout.ScriptImporter())
	require.Contains(t, importer, `lua_type["update"] = &K::update;`)
	require.Contains(t, importer, `lua_type["get_id"] = &K::get_id;`)

	resolvers := read(t, layout.TypesResolvers())
	require.Contains(t, resolvers, `#include "root/core_types/basic_types.h"`)
	require.Contains(t, resolvers, "struct type_resolver<float>")
	require.Contains(t, resolvers, "struct type_resolver<::std::string>")

	ids := read(t, layout.TypeIDs())
	require.Contains(t, ids, "// block start root\n")
	for _, id := range []string{"root__float", "root__game_object", "root__smart_object", "root__string", "root__vec3"} {
		require.Contains(t, ids, id+",")
	}
	require.Less(t, strings.Index(ids, "root__float,"), strings.Index(ids, "root__vec3,"))
	require.Less(t, strings.Index(ids, "// block end root"), strings.Index(ids, "// block start __end"))

	require.Contains(t, read(t, layout.Dependencies()), `return {"core", "utils"};`)

	m, err := manifest.Load(opts.ManifestFile)
	require.NoError(t, err)
	require.Equal(t, "root", m.Module)
	require.Len(t, m.Files, 7)
	require.NotContains(t, m.Files, "packages/glue/public/include/glue/type_ids.ar.h")

	_, err = os.Stat(layout.RenderSource())
	require.ErrorIs(t, err, os.ErrNotExist)

	changes, err = Generate(options(out), nil)
	require.NoError(t, err)
	require.Empty(t, changes)
}

func TestGeneratePrunesStaleFiles(t *testing.T) {
	out := t.TempDir()
	opts := options(out)
	_, err := Generate(opts, nil)
	require.NoError(t, err)

	stale := opts.Layout().ClassHeader("removed_class")
	require.NoError(t, os.WriteFile(stale, []byte("#pragma once\n"), 0o644))
	m, err := manifest.Load(opts.ManifestFile)
	require.NoError(t, err)
	rel, err := filepath.Rel(out, stale)
	require.NoError(t, err)
	m.Record(append(m.Files, filepath.ToSlash(rel)))
	require.NoError(t, m.Save(opts.ManifestFile))

	changes, err := Generate(options(out), nil)
	require.NoError(t, err)
	ops := map[string]output.Op{}
	for _, c := range changes {
		ops[c.Path] = c.Op
	}
	require.Equal(t, map[string]output.Op{
		stale:             output.OpDelete,
		opts.ManifestFile: output.OpUpdate,
	}, ops)
	_, err = os.Stat(stale)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerateKeepsOtherModules(t *testing.T) {
	out := t.TempDir()
	opts := options(out)
	ids := opts.Layout().TypeIDs()
	require.NoError(t, os.MkdirAll(filepath.Dir(ids), 0o755))
	require.NoError(t, os.WriteFile(ids, []byte(strings.Join([]string{
		"namespace agea",
		"{",
		"enum type_ids",
		"{",
		"    // block start core",
		"    core__id,",
		"    // block end core",
		"    // block start __end",
		"    type_ids_count",
		"    // block end __end",
		"};",
		"}",
		"",
	}, "\n")), 0o644))

	_, err := Generate(opts, nil)
	require.NoError(t, err)

	text := read(t, ids)
	require.Contains(t, text, "    core__id,\n")
	require.Less(t, strings.Index(text, "// block start core"), strings.Index(text, "// block start root"))
	require.Less(t, strings.Index(text, "// block end root"), strings.Index(text, "// block start __end"))
}

func TestGenerateParseErrorWritesNothing(t *testing.T) {
	out := t.TempDir()
	opts := generator.NewOptions(
		generator.WithPackageName("root"),
		generator.WithNamespace("agea"),
		generator.WithSourceDir(canonical),
		generator.WithOutputDir(out),
		generator.WithConfigList(filepath.Join(canonical, "root.ar.cfg")),
	)

	_, err := Generate(opts, nil)
	require.ErrorIs(t, err, parser.ErrOutsideContext)

	var perr *parser.ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "include/root/tests/fake_object.h", perr.File)
	require.Equal(t, 3, perr.Line)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestGenerateInvalidOptions(t *testing.T) {
	_, err := Generate(generator.NewOptions(generator.WithConfigList("x")), nil)
	require.ErrorIs(t, err, generator.ErrMissingPackageName)
}

func TestCount(t *testing.T) {
	require.Equal(t, "1 class", count(1, "class"))
	require.Equal(t, "2 classes", count(2, "class"))
	require.Equal(t, "0 headers", count(0, "header"))
}
