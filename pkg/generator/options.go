package generator

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

var (
	ErrMissingPackageName = errors.New("package name is required")
	ErrMissingConfigList  = errors.New("config list is required")
)

// Options control one generation run.
//
// PackageName  – module being generated ("root")
// Namespace    – enclosing C++ namespace of the module ("agea")
// SourceDir    – root the config list entries are relative to
// OutputDir    – root of the generated tree
// ConfigList   – file listing the module headers, one per line
// Exclude      – glob patterns removing entries from the header list
// ManifestFile – record of generated files; defaults into the package output
type Options struct {
	PackageName  string   `json:"package_name,omitempty" yaml:"package_name,omitempty" toml:"package_name,omitempty" mapstructure:"package_name,omitempty"`
	Namespace    string   `json:"namespace,omitempty" yaml:"namespace,omitempty" toml:"namespace,omitempty" mapstructure:"namespace,omitempty"`
	SourceDir    string   `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty" mapstructure:"source,omitempty"`
	OutputDir    string   `json:"output,omitempty" yaml:"output,omitempty" toml:"output,omitempty" mapstructure:"output,omitempty"`
	ConfigList   string   `json:"config_list,omitempty" yaml:"config_list,omitempty" toml:"config_list,omitempty" mapstructure:"config_list,omitempty"`
	Exclude      []string `json:"exclude,omitempty" yaml:"exclude,omitempty" toml:"exclude,omitempty" mapstructure:"exclude,omitempty"`
	ManifestFile string   `json:"manifest,omitempty" yaml:"manifest,omitempty" toml:"manifest,omitempty" mapstructure:"manifest,omitempty"`

	excludes []glob.Glob
}

func NewOptions(opts ...Option) *Options {
	o := &Options{
		SourceDir: ".",
		OutputDir: ".",
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Normalize trims and validates the options and compiles the exclude
// patterns.
func (o *Options) Normalize() error {
	o.PackageName = strings.TrimSpace(o.PackageName)
	o.Namespace = strings.TrimSpace(o.Namespace)
	if o.PackageName == "" {
		return ErrMissingPackageName
	}
	if strings.TrimSpace(o.ConfigList) == "" {
		return ErrMissingConfigList
	}
	if o.SourceDir == "" {
		o.SourceDir = "."
	}
	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	o.SourceDir = filepath.Clean(o.SourceDir)
	o.OutputDir = filepath.Clean(o.OutputDir)
	o.ConfigList = filepath.Clean(o.ConfigList)
	if o.ManifestFile == "" {
		o.ManifestFile = filepath.Join(o.Layout().PackageDir(), "argen.manifest.yaml")
	}

	o.excludes = o.excludes[:0]
	for _, p := range o.Exclude {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		o.excludes = append(o.excludes, g)
	}
	return nil
}

// Excluded reports whether a header path matches an exclude pattern.
func (o *Options) Excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, g := range o.excludes {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// Layout returns the output paths of the module.
func (o *Options) Layout() Layout {
	return NewLayout(o.OutputDir, o.PackageName)
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithPackageName(n string) Option  { return func(o *Options) { o.PackageName = n } }
func WithNamespace(ns string) Option   { return func(o *Options) { o.Namespace = ns } }
func WithSourceDir(d string) Option    { return func(o *Options) { o.SourceDir = d } }
func WithOutputDir(d string) Option    { return func(o *Options) { o.OutputDir = d } }
func WithConfigList(f string) Option   { return func(o *Options) { o.ConfigList = f } }
func WithManifestFile(f string) Option { return func(o *Options) { o.ManifestFile = f } }
func WithExclude(patterns ...string) Option {
	return func(o *Options) {
		for _, p := range patterns {
			o.Exclude = append(o.Exclude, strings.TrimSpace(p))
		}
	}
}
