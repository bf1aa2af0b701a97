package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		header string
		want   []string
	}{
		{"class mesh_component : public game_object_component", []string{"mesh_component", "game_object_component"}},
		{"class TestClass {", []string{"TestClass"}},
		{"class a: public ::agea::root::smart_object, public other", []string{"a", "::agea::root::smart_object", "other"}},
		{"struct vec3 : ::glm::vec3", []string{"vec3", "::glm::vec3"}},
		{"AGEA_ar_external_define(::std::int8_t);", []string{"::std::int8_t"}},
		{"struct ::external::Type;", []string{"::external::Type"}},
		{"class final_thing final : public base", []string{"final_thing", "base"}},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			require.Equal(t, tt.want, Tokenize(tt.header))
		})
	}
}

func TestParseField(t *testing.T) {
	tests := []struct {
		line string
		want Field
		ok   bool
	}{
		{"  int m_value;", Field{Type: "int", Name: "m_value"}, true},
		{"material* m_material = nullptr;", Field{Type: "material*", Name: "m_material", HasDefault: true}, true},
		{"const char *m_name = \"x\"; // label", Field{Type: "const char*", Name: "m_name", HasDefault: true}, true},
		{"std::vector<int> m_items{};", Field{Type: "std::vector<int>", Name: "m_items", HasDefault: true}, true},
		{"float m_time = ;", Field{Type: "float", Name: "m_time"}, true},
		{"m_lonely;", Field{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ParseField(tt.line)
			require.Equal(t, tt.ok, ok)
			if ok {
				require.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFunctionName(t *testing.T) {
	name, ok := FunctionName("    virtual bool construct(construct_params& p);")
	require.True(t, ok)
	require.Equal(t, "construct", name)

	name, ok = FunctionName("material* get_material() const")
	require.True(t, ok)
	require.Equal(t, "get_material", name)

	_, ok = FunctionName("int value;")
	require.False(t, ok)
}

func TestSignature(t *testing.T) {
	l := Split("vec3(float x,\n     float y, float z)\n    : glm::vec3(x, y, z)\n{}")
	end, sig, ok := l.Signature(0)
	require.True(t, ok)
	require.Equal(t, 1, end)
	require.Equal(t, "vec3(float x, float y, float z)", sig)

	_, _, ok = Split("vec3(float x,").Signature(0)
	require.False(t, ok)
}
