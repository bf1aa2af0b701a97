// Package resolver links classes to their parents, orders the module's types
// so every parent precedes its children and assigns the type identifiers.
package resolver

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/cmmoran/argen/internal/model"
)

var ErrParentCycle = errors.New("parent cycle")

// excludedTokens never appear in a generated id.
var excludedTokens = map[string]bool{
	"root": true,
	"std":  true,
	"agea": true,
	"":     true,
}

// GenerateID derives the identifier of a type from its module and name.
// Qualified names keep their non-namespace segments, each joined by "__".
func GenerateID(module, name string) string {
	tokens := strings.Split(name, "::")
	if len(tokens) == 1 {
		return module + "__" + name
	}
	id := "_"
	for _, tok := range tokens {
		if excludedTokens[tok] {
			continue
		}
		id += "_" + tok
	}
	return module + id
}

type color uint8

const (
	white color = iota
	grey
	black
)

// Resolve prepares m for emission: it drops overrides the module did not
// opt into, links parents, reorders m.Types parent-first and assigns ids.
// Calling it again on a resolved module keeps the ids already assigned.
func Resolve(m *model.Module, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	applyOverrideFlags(m, logger)

	sort.SliceStable(m.Types, func(i, j int) bool {
		a, b := m.Types[i], m.Types[j]
		if a.FullName != b.FullName {
			return a.FullName < b.FullName
		}
		return a.Kind < b.Kind
	})

	link(m, logger)

	ordered, err := order(m.Types)
	if err != nil {
		return err
	}
	m.Types = ordered

	for _, t := range m.Types {
		if t.ID == "" {
			t.ID = GenerateID(m.Name, t.Name)
		}
	}
	return nil
}

// link sets Parent for every class whose parent name matches another type of
// the module by short name. Unmatched parents belong to other modules.
func link(m *model.Module, logger *slog.Logger) {
	for _, t := range m.Types {
		if t.ParentName == "" || t.Parent != nil {
			continue
		}
		short := t.ParentShortName()
		for _, k := range m.Types {
			if k != t && k.Name == short {
				t.Parent = k
				break
			}
		}
		if t.Parent == nil {
			logger.Debug("parent outside module", "type", t.FullName, "parent", t.ParentName)
		}
	}
}

func order(types []*model.Type) ([]*model.Type, error) {
	var (
		out   = make([]*model.Type, 0, len(types))
		marks = make(map[*model.Type]color, len(types))
		path  []*model.Type
	)

	var visit func(t *model.Type) error
	visit = func(t *model.Type) error {
		switch marks[t] {
		case black:
			return nil
		case grey:
			start := 0
			for i, p := range path {
				if p == t {
					start = i
					break
				}
			}
			names := make([]string, 0, len(path)-start+1)
			for _, p := range path[start:] {
				names = append(names, p.Name)
			}
			names = append(names, t.Name)
			return fmt.Errorf("%w: %s", ErrParentCycle, strings.Join(names, " -> "))
		}

		marks[t] = grey
		path = append(path, t)
		if t.Parent != nil {
			if err := visit(t.Parent); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		marks[t] = black
		out = append(out, t)
		return nil
	}

	for _, t := range types {
		if err := visit(t); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// applyOverrideFlags clears type metadata the module did not enable through
// its package directive.
func applyOverrideFlags(m *model.Module, logger *slog.Logger) {
	for _, t := range m.Types {
		if !m.ModelTypesOverrides {
			h := &t.Handlers
			for _, p := range []**string{&h.Copy, &h.Compare, &h.Serialize, &h.Deserialize, &h.ToString, &h.Instantiate, &h.LoadDerive, &t.Architype} {
				if *p != nil {
					logger.Debug("type override ignored", "type", t.FullName, "value", **p, "reason", "model.has_types_overrides is not set")
					*p = nil
				}
			}
		}
		if !m.RenderTypesOverrides || t.Kind != model.KindClass {
			for _, p := range []**string{&t.RenderConstructor, &t.RenderDestructor} {
				if *p != nil {
					logger.Debug("render override ignored", "type", t.FullName, "value", **p)
					*p = nil
				}
			}
		}
	}
}
