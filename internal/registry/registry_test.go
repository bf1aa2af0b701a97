package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blocks.ar.h")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPatch(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		bodies      map[string]string
		want        string
		wantChanged bool
	}{
		{
			name:        "single block",
			content:     "#pragma once\n\n// block start test\nold content\n// block end test\n",
			bodies:      map[string]string{"test": "new content"},
			want:        "#pragma once\n\n// block start test\nnew content\n// block end test\n",
			wantChanged: true,
		},
		{
			name:        "multiple blocks",
			content:     "// block start block1\nold1\n// block end block1\n\n// block start block2\nold2\n// block end block2\n",
			bodies:      map[string]string{"block1": "new1", "block2": "new2"},
			want:        "// block start block1\nnew1\n// block end block1\n\n// block start block2\nnew2\n// block end block2\n",
			wantChanged: true,
		},
		{
			name:        "indentation follows start marker",
			content:     "    // block start test\n    old\n    // block end test\n",
			bodies:      map[string]string{"test": "new\n  nested"},
			want:        "    // block start test\n    new\n      nested\n    // block end test\n",
			wantChanged: true,
		},
		{
			name:        "unmapped block is emptied",
			content:     "// block start test1\ncontent1\n// block end test1\n\n// block start test2\ncontent2\n// block end test2\n",
			bodies:      map[string]string{"test1": "new1"},
			want:        "// block start test1\nnew1\n// block end test1\n\n// block start test2\n// block end test2\n",
			wantChanged: true,
		},
		{
			name:        "no change",
			content:     "// block start test\ncontent\n// block end test\n",
			bodies:      map[string]string{"test": "content"},
			want:        "// block start test\ncontent\n// block end test\n",
			wantChanged: false,
		},
		{
			name:        "empty replacement",
			content:     "// block start test\nold content\n// block end test\n",
			bodies:      map[string]string{"test": ""},
			want:        "// block start test\n// block end test\n",
			wantChanged: true,
		},
		{
			name:        "marker whitespace",
			content:     "  // block start test  \n    old\n  // block end test  \n",
			bodies:      map[string]string{"test": "new"},
			want:        "  // block start test  \n  new\n  // block end test  \n",
			wantChanged: true,
		},
		{
			name:        "lines outside blocks kept",
			content:     "#pragma once\n#include <header.h>\n\n// block start test\nold\n// block end test\n\nvoid function();\n",
			bodies:      map[string]string{"test": "new"},
			want:        "#pragma once\n#include <header.h>\n\n// block start test\nnew\n// block end test\n\nvoid function();\n",
			wantChanged: true,
		},
		{
			name:    "new blocks sorted before last",
			content: "enum e\n{\n  // block start b\n  b1,\n  // block end b\n  // block start __end\n  count\n  // block end __end\n};\n",
			bodies:  map[string]string{"b": "b1,", "m": "m1,", "a": "a1,", "z": "z1,"},
			want: "enum e\n{\n  // block start b\n  b1,\n  // block end b\n" +
				"  // block start a\n  a1,\n  // block end a\n" +
				"  // block start m\n  m1,\n  // block end m\n" +
				"  // block start z\n  z1,\n  // block end z\n" +
				"  // block start __end\n  count\n  // block end __end\n};\n",
			wantChanged: true,
		},
		{
			name:        "appended without last block",
			content:     "#pragma once\n",
			bodies:      map[string]string{"x": "x1"},
			want:        "#pragma once\n    // block start x\n    x1\n    // block end x\n",
			wantChanged: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.content)
			got, changed, err := Patch(path, tt.bodies, "", Last)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Patch() mismatch (-want +got):\n%s", diff)
			}
			require.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestPatchIsIdempotent(t *testing.T) {
	path := writeFile(t, TypeIDsSkeleton)
	bodies := map[string]string{"root": "root__a,\nroot__b,", "demo": "demo__x,"}

	first, changed, err := Patch(path, bodies, TypeIDsSkeleton, Last)
	require.NoError(t, err)
	require.True(t, changed)
	require.NoError(t, os.WriteFile(path, []byte(first), 0o644))

	second, changed, err := Patch(path, bodies, TypeIDsSkeleton, Last)
	require.NoError(t, err)
	require.False(t, changed)
	require.Equal(t, first, second)
}

func TestPatchCreatesFromSkeleton(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.ar.h")
	got, changed, err := Patch(path, map[string]string{"root": "root__a,"}, TypeIDsSkeleton, Last)
	require.NoError(t, err)
	require.True(t, changed)
	require.Less(t, strings.Index(got, "// block start root"), strings.Index(got, "// block start __end"))
	require.Contains(t, got, "    root__a,\n")
	require.Contains(t, got, "    type_ids_count\n")
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("// block start a\nx\n")
	require.ErrorIs(t, err, ErrUnterminatedBlock)

	_, err = Parse("// block start a\n// block start b\n// block end b\n// block end a\n")
	require.ErrorIs(t, err, ErrUnterminatedBlock)

	_, err = Parse("// block start a\n// block end b\n")
	require.ErrorIs(t, err, ErrMismatchedBlock)

	_, err = Parse("// block end a\n")
	require.ErrorIs(t, err, ErrMismatchedBlock)

	path := writeFile(t, "// block start a\n")
	_, _, err = Patch(path, nil, "", Last)
	require.ErrorIs(t, err, ErrUnterminatedBlock)
}

func TestDocumentRoundTrip(t *testing.T) {
	for _, text := range []string{"", "\n", "a\nb", "a\n// block start x y\n  body\n// block end x y\n", TypeIDsSkeleton, DependenciesSkeleton} {
		doc, err := Parse(text)
		require.NoError(t, err)
		require.Equal(t, text, doc.String())
	}
	doc, err := Parse("// block start x y\n// block end x y\n")
	require.NoError(t, err)
	require.NotNil(t, doc.Block("x y"))
}

func TestUpdateTypeIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "type_ids.ar.h")

	text, changed, err := UpdateTypeIDs(path, "root", []string{"root__vec3", "root__mesh_component", "root__bool"})
	require.NoError(t, err)
	require.True(t, changed)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	text, changed, err = UpdateTypeIDs(path, "base", []string{"base__camera"})
	require.NoError(t, err)
	require.True(t, changed)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	want := `#pragma once

// Generated by argen. Module blocks are rewritten on every run.

namespace agea
{
enum type_ids
{
    // block start root
    root__bool,
    root__mesh_component,
    root__vec3,
    // block end root
    // block start base
    base__camera,
    // block end base
    // block start __end
    type_ids_count
    // block end __end
};
}  // namespace agea
`
	if diff := cmp.Diff(want, text); diff != "" {
		t.Errorf("UpdateTypeIDs() mismatch (-want +got):\n%s", diff)
	}

	_, changed, err = UpdateTypeIDs(path, "root", []string{"root__mesh_component", "root__vec3", "root__bool"})
	require.NoError(t, err)
	require.False(t, changed)
}

func TestUpdateDependencies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dependency_tree.ar.h")

	text, changed, err := UpdateDependencies(path, "demo", []string{"a", "b", "c"})
	require.NoError(t, err)
	require.True(t, changed)
	require.Contains(t, text, "    // block start demo\n    if (id == \"demo\")\n    {\n        return {\"a\", \"b\", \"c\"};\n    }\n    // block end demo\n")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	text, _, err = UpdateDependencies(path, "root", nil)
	require.NoError(t, err)
	require.Contains(t, text, "return {\"a\", \"b\", \"c\"};")
	require.Contains(t, text, "if (id == \"root\")\n    {\n        return {};")
	require.Less(t, strings.Index(text, "block start root"), strings.Index(text, "block start __end"))
	require.Contains(t, text, "    return {};\n    // block end __end")
}
