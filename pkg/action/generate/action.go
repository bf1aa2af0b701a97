package generate

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/cmmoran/argen/internal/emitter"
	"github.com/cmmoran/argen/internal/model"
	"github.com/cmmoran/argen/internal/output"
	"github.com/cmmoran/argen/internal/parser"
	"github.com/cmmoran/argen/internal/registry"
	"github.com/cmmoran/argen/internal/resolver"
	"github.com/cmmoran/argen/pkg/generator"
	"github.com/cmmoran/argen/pkg/manifest"
)

// Build runs one module through parse, resolve, emit and registry patching
// and returns every artifact in memory. Nothing is written.
func Build(opts *generator.Options, logger *slog.Logger) (*output.Set, *model.Module, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := opts.Normalize(); err != nil {
		return nil, nil, err
	}
	logger = logger.With("module", opts.PackageName)

	headers, err := opts.Headers()
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Read config list", "file", opts.ConfigList, "headers", len(headers))

	m := model.NewModule(opts.PackageName, opts.Namespace)
	p := parser.New(m, logger)
	for _, rel := range headers {
		if err := p.ParseFile(opts.SourceDir, rel); err != nil {
			return nil, nil, err
		}
	}
	if err := resolver.Resolve(m, logger); err != nil {
		return nil, nil, fmt.Errorf("resolve %s: %w", m.Name, err)
	}

	layout := opts.Layout()
	set := output.NewSet()
	if err := emitter.New(m, layout, logger).Emit(set); err != nil {
		return nil, nil, fmt.Errorf("emit %s: %w", m.Name, err)
	}

	ids := make([]string, len(m.Types))
	for i, t := range m.Types {
		ids[i] = t.ID
	}
	text, _, err := registry.UpdateTypeIDs(layout.TypeIDs(), m.Name, ids)
	if err != nil {
		return nil, nil, err
	}
	set.AddString(layout.TypeIDs(), text)

	text, _, err = registry.UpdateDependencies(layout.Dependencies(), m.Name, m.Dependencies)
	if err != nil {
		return nil, nil, err
	}
	set.AddString(layout.Dependencies(), text)

	if err := record(opts, set, logger); err != nil {
		return nil, nil, err
	}

	logger.Info("Built module",
		"summary", fmt.Sprintf("%s, %s from %s",
			count(len(m.Types), "type"),
			count(len(m.Classes()), "class"),
			count(len(headers), "header")),
	)
	return set, m, nil
}

// Generate builds the module and writes the artifacts that changed.
func Generate(opts *generator.Options, logger *slog.Logger) ([]output.Change, error) {
	if logger == nil {
		logger = slog.Default()
	}
	set, m, err := Build(opts, logger)
	if err != nil {
		return nil, err
	}
	changes, err := set.Commit(logger)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		logger.Info("No changes", "module", m.Name)
	} else {
		logger.Info("Updated module", "module", m.Name, "changes", count(len(changes), "file"))
	}
	return changes, nil
}

// record drops files of the previous run that were not produced again and
// stores the module's file list in the manifest.
func record(opts *generator.Options, set *output.Set, logger *slog.Logger) error {
	prev, err := manifest.Load(opts.ManifestFile)
	if err != nil {
		return err
	}

	pkgDir := opts.Layout().PackageDir() + string(filepath.Separator)
	var owned []string
	for _, p := range set.Paths() {
		if !strings.HasPrefix(p, pkgDir) || p == opts.ManifestFile {
			continue
		}
		rel, err := filepath.Rel(opts.OutputDir, p)
		if err != nil {
			return fmt.Errorf("manifest entry %s: %w", p, err)
		}
		owned = append(owned, filepath.ToSlash(rel))
	}

	for _, rel := range prev.Stale(owned) {
		path := filepath.Join(opts.OutputDir, filepath.FromSlash(rel))
		logger.Debug("Removing stale file", "file", path)
		set.Remove(path)
	}

	next := &manifest.Manifest{Module: opts.PackageName, Namespace: opts.Namespace}
	next.Record(owned)
	data, err := next.Marshal()
	if err != nil {
		return err
	}
	set.Add(opts.ManifestFile, data)
	return nil
}

func count(n int, noun string) string {
	if n != 1 {
		noun = inflection.Plural(noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}
