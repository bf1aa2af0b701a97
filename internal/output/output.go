// Package output collects rendered artifacts in memory and writes them out in
// one step once a run has fully succeeded. Files whose bytes did not change
// are never rewritten.
package output

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
)

type Op int

const (
	OpNone Op = iota
	OpCreate
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "none"
	}
}

// Change is the effect committing one path would have.
type Change struct {
	Path string
	Op   Op
	Old  []byte
	New  []byte
}

// Set is the artifact set of one run.
type Set struct {
	files   map[string][]byte
	removed map[string]bool
}

func NewSet() *Set {
	return &Set{
		files:   make(map[string][]byte),
		removed: make(map[string]bool),
	}
}

// Add records the content of path, replacing earlier content.
func (s *Set) Add(path string, data []byte) {
	path = filepath.Clean(path)
	s.files[path] = data
	delete(s.removed, path)
}

// AddString is Add for rendered text.
func (s *Set) AddString(path, text string) {
	s.Add(path, []byte(text))
}

// Remove schedules path for deletion unless it is also produced.
func (s *Set) Remove(path string) {
	path = filepath.Clean(path)
	if _, ok := s.files[path]; ok {
		return
	}
	s.removed[path] = true
}

// Get returns the content recorded for path.
func (s *Set) Get(path string) ([]byte, bool) {
	data, ok := s.files[filepath.Clean(path)]
	return data, ok
}

// Paths returns the produced paths, sorted.
func (s *Set) Paths() []string {
	out := make([]string, 0, len(s.files))
	for p := range s.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (s *Set) Len() int { return len(s.files) }

// Changes compares the set with the file system. Unchanged paths are
// omitted.
func (s *Set) Changes() ([]Change, error) {
	var out []Change
	for _, p := range s.Paths() {
		old, err := os.ReadFile(p)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			out = append(out, Change{Path: p, Op: OpCreate, New: s.files[p]})
		case err != nil:
			return nil, fmt.Errorf("read %s: %w", p, err)
		case !bytes.Equal(old, s.files[p]):
			out = append(out, Change{Path: p, Op: OpUpdate, Old: old, New: s.files[p]})
		}
	}

	removed := make([]string, 0, len(s.removed))
	for p := range s.removed {
		removed = append(removed, p)
	}
	sort.Strings(removed)
	for _, p := range removed {
		old, err := os.ReadFile(p)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			continue
		case err != nil:
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		out = append(out, Change{Path: p, Op: OpDelete, Old: old})
	}
	return out, nil
}

// Commit applies every change and returns what was done.
func (s *Set) Commit(logger *slog.Logger) ([]Change, error) {
	if logger == nil {
		logger = slog.Default()
	}
	changes, err := s.Changes()
	if err != nil {
		return nil, err
	}
	for _, c := range changes {
		switch c.Op {
		case OpDelete:
			if err := os.Remove(c.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("remove %s: %w", c.Path, err)
			}
		default:
			if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
				return nil, fmt.Errorf("create directory for %s: %w", c.Path, err)
			}
			if err := os.WriteFile(c.Path, c.New, 0o644); err != nil {
				return nil, fmt.Errorf("write %s: %w", c.Path, err)
			}
		}
		logger.Info("Generated file", "op", c.Op.String(), "file", c.Path)
	}
	return changes, nil
}

// Diff renders a line diff of a change (-old +new).
func Diff(c Change) string {
	return cmp.Diff(lines(c.Old), lines(c.New))
}

func lines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}
