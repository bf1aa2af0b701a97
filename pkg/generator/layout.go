package generator

import (
	"fmt"
	"path/filepath"
)

// Layout locates every generated file of one module below the output root:
//
//	packages/<m>/public/include/packages/<m>/    package headers
//	packages/<m>/public/include/packages/<m>/model/  class headers
//	packages/<m>/private/model/                   model registration source
//	packages/<m>/private/render/                  render registration source
//	packages/glue/public/include/glue/            tables shared by all modules
type Layout struct {
	Root   string
	Module string
}

func NewLayout(root, module string) Layout {
	return Layout{Root: root, Module: module}
}

func (l Layout) PackageDir() string {
	return filepath.Join(l.Root, "packages", l.Module)
}

func (l Layout) PackageHeaderDir() string {
	return filepath.Join(l.PackageDir(), "public", "include", "packages", l.Module)
}

func (l Layout) ModelHeaderDir() string {
	return filepath.Join(l.PackageHeaderDir(), "model")
}

func (l Layout) ModelSourceDir() string {
	return filepath.Join(l.PackageDir(), "private", "model")
}

func (l Layout) RenderSourceDir() string {
	return filepath.Join(l.PackageDir(), "private", "render")
}

func (l Layout) GlueDir() string {
	return filepath.Join(l.Root, "packages", "glue", "public", "include", "glue")
}

func (l Layout) ModelSource() string {
	return filepath.Join(l.ModelSourceDir(), fmt.Sprintf("package.%s.ar.cpp", l.Module))
}

func (l Layout) RenderSource() string {
	return filepath.Join(l.RenderSourceDir(), fmt.Sprintf("package.%s.render.ar.cpp", l.Module))
}

func (l Layout) TypesBuilderHeader() string {
	return filepath.Join(l.PackageHeaderDir(), fmt.Sprintf("package.%s.types_builder.ar.h", l.Module))
}

func (l Layout) PackageHeader() string {
	return filepath.Join(l.PackageHeaderDir(), "package.ar.h")
}

func (l Layout) TypesResolvers() string {
	return filepath.Join(l.PackageHeaderDir(), "types_resolvers.ar.h")
}

func (l Layout) ScriptImporter() string {
	return filepath.Join(l.PackageHeaderDir(), "types_script_importer.ar.h")
}

// ClassHeader is the accessor declaration header of one class.
func (l Layout) ClassHeader(class string) string {
	return filepath.Join(l.ModelHeaderDir(), class+".ar.h")
}

func (l Layout) TypeIDs() string {
	return filepath.Join(l.GlueDir(), "type_ids.ar.h")
}

func (l Layout) Dependencies() string {
	return filepath.Join(l.GlueDir(), "dependency_tree.ar.h")
}
