package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Last names the sentinel block of the shared files. New module blocks are
// always inserted before it.
const Last = "__end"

const TypeIDsSkeleton = `#pragma once

// Generated by argen. Module blocks are rewritten on every run.

namespace agea
{
enum type_ids
{
    // block start __end
    type_ids_count
    // block end __end
};
}  // namespace agea
`

const DependenciesSkeleton = `#pragma once

// Generated by argen. Module blocks are rewritten on every run.

#include <string>
#include <vector>

namespace agea
{
namespace glue
{
inline std::vector<std::string>
get_dependencies(const std::string& id)
{
    // block start __end
    return {};
    // block end __end
}
}  // namespace glue
}  // namespace agea
`

// load parses path, or skeleton when path does not exist yet. It returns the
// document and the bytes it was read from (nil for a fresh skeleton).
func load(path, skeleton string) (*Document, []byte, error) {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		doc, err := Parse(skeleton)
		if err != nil {
			return nil, nil, fmt.Errorf("skeleton for %s: %w", path, err)
		}
		return doc, nil, nil
	case err != nil:
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := Parse(string(data))
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, data, nil
}

func result(doc *Document, original []byte) (string, bool) {
	text := doc.String()
	return text, original == nil || text != string(original)
}

// Patch applies bodies to the block file at path, creating it from skeleton
// when absent. It returns the new text and whether it differs from what is on
// disk; writing is left to the caller.
func Patch(path string, bodies map[string]string, skeleton, last string) (string, bool, error) {
	doc, original, err := load(path, skeleton)
	if err != nil {
		return "", false, err
	}
	doc.Apply(bodies, last)
	text, changed := result(doc, original)
	return text, changed, nil
}

// replaceModule rewrites the block of one module and keeps every other block.
func replaceModule(path, skeleton, module, body string) (string, bool, error) {
	doc, original, err := load(path, skeleton)
	if err != nil {
		return "", false, err
	}
	bodies := doc.Bodies()
	bodies[module] = body
	doc.Apply(bodies, Last)
	text, changed := result(doc, original)
	return text, changed, nil
}

// TypeIDsBody is the enum block of a module: one "id," line per type.
func TypeIDsBody(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	var b strings.Builder
	for _, id := range sorted {
		b.WriteString(id)
		b.WriteString(",\n")
	}
	return b.String()
}

// DependenciesBody is the lookup branch of a module in get_dependencies.
func DependenciesBody(module string, deps []string) string {
	quoted := make([]string, len(deps))
	for i, d := range deps {
		quoted[i] = strconv.Quote(d)
	}
	return fmt.Sprintf("if (id == %s)\n{\n    return {%s};\n}", strconv.Quote(module), strings.Join(quoted, ", "))
}

// UpdateTypeIDs renders the global type id table with the module's ids.
func UpdateTypeIDs(path, module string, ids []string) (string, bool, error) {
	return replaceModule(path, TypeIDsSkeleton, module, TypeIDsBody(ids))
}

// UpdateDependencies renders the dependency table with the module's
// dependency list, order preserved.
func UpdateDependencies(path, module string, deps []string) (string, bool, error) {
	return replaceModule(path, DependenciesSkeleton, module, DependenciesBody(module, deps))
}
